package rewrite

import (
	"github.com/james-see/lyrewrite/pkg/edit"
	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// AbsoluteToRelative converts every top-level music expression at or after
// start to \relative music. The starting pitch of each \relative is chosen
// near the expression's first pitch. Existing \relative blocks, \chordmode
// music and scores inside markup are left alone. It returns
// ErrNoExpressionFound if there was no expression to convert, in which
// case changes is not modified.
func AbsoluteToRelative(text string, start int, changes *edit.List) (*edit.List, error) {
	a := &absToRel{cursor: newCursor(text, start), changes: edit.New()}
	a.hook = a.handle
	a.skipToStart()

	found := false
	for tok := range a.all() {
		if tok.Kind == tokenize.OpenDelimiter {
			found = true
			a.expression(tok)
		}
	}
	if a.err != nil {
		return changes, a.err
	}
	if !found {
		return changes, ErrNoExpressionFound
	}
	if changes == nil {
		changes = edit.New()
	}
	changes.Extend(a.changes)
	return changes, nil
}

type absToRel struct {
	*cursor
	changes *edit.List
}

func (a *absToRel) handle(tok tokenize.Token) bool {
	switch {
	case tok.IsCommand(`\relative`):
		a.skipRelative()
		return true
	case tok.Kind == tokenize.ChordMode, tok.Kind == tokenize.MarkupScore:
		a.drain()
		return true
	}
	return false
}

// skipRelative passes over music that is relative already.
func (a *absToRel) skipRelative() {
	tok, ok := a.raw()
	if ok && tok.Kind == tokenize.Pitch {
		tok, ok = a.raw()
	}
	if !ok || a.handle(tok) {
		return
	}
	switch tok.Kind {
	case tokenize.OpenDelimiter:
		a.drain()
	case tokenize.OpenChord:
		for ok && tok.Kind != tokenize.CloseChord {
			tok, ok = a.next()
		}
	}
}

// expression converts the music expression opened by open.
func (a *absToRel) expression(open tokenize.Token) {
	var last *pitch.Pitch
	inChord := false
	var chordFirst *pitch.Pitch

	for tok := range a.consume() {
		switch {
		case tok.IsCommand(`\key`), tok.IsCommand(`\transposition`):
			a.skip(1)
		case tok.IsCommand(`\transpose`):
			a.skip(2)
		case tok.IsCommand(`\octaveCheck`):
			// the check pitch is absolute and stays as written; relative
			// music continues from it
			check, ok := a.next()
			if !ok {
				return
			}
			p, isPitch := check.ToPitch()
			if !isPitch {
				continue
			}
			if last == nil && !a.begin(open, p) {
				return
			}
			last = &p
		case tok.Kind == tokenize.OpenChord:
			inChord, chordFirst = true, nil
		case tok.Kind == tokenize.CloseChord:
			if chordFirst != nil {
				last = chordFirst
			}
			inChord, chordFirst = false, nil
		case tok.Kind == tokenize.Pitch:
			p, _ := tok.ToPitch()
			if last == nil {
				if !a.begin(open, p) {
					return
				}
				anchor := a.anchor(p)
				last = &anchor
			}
			rel := p.Relative(*last)
			a.changes.ReplaceToken(tok, withOctave(tok, rel.Octave))
			last = &p
			if inChord && chordFirst == nil {
				chordFirst = &p
			}
		}
	}
}

// anchor returns the starting pitch chosen for music whose first pitch
// is first: a c close below it.
func (a *absToRel) anchor(first pitch.Pitch) pitch.Pitch {
	anchor := pitch.C1()
	anchor.Octave = first.Octave
	if first.Note > 3 {
		anchor.Octave++
	}
	return anchor
}

// begin inserts the \relative command in front of open, with a starting
// pitch chosen for first.
func (a *absToRel) begin(open tokenize.Token, first pitch.Pitch) bool {
	text, err := a.anchor(first).Output(a.tz.Language())
	if err != nil {
		a.fail(err)
		return false
	}
	a.changes.Insert(open.Offset, `\relative `+text+" ")
	return true
}
