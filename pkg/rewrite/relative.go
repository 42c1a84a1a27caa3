package rewrite

import (
	"github.com/james-see/lyrewrite/pkg/edit"
	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// RelativeToAbsolute converts \relative music to absolute pitches. The
// \relative command and its starting pitch are removed; every pitch in the
// expression gets absolute octave marks. Only music at or after start is
// converted. The edits are added to changes (a new list if nil), which is
// returned.
func RelativeToAbsolute(text string, start int, changes *edit.List) *edit.List {
	if changes == nil {
		changes = edit.New()
	}
	r := &relToAbs{cursor: newCursor(text, start), changes: edit.New()}
	r.hook = r.handle
	r.skipToStart()
	for range r.all() {
	}
	changes.Extend(r.changes)
	return changes
}

type relToAbs struct {
	*cursor
	changes *edit.List
}

func (r *relToAbs) handle(tok tokenize.Token) bool {
	switch {
	case tok.IsCommand(`\relative`):
		r.relative(tok.Offset)
		return true
	case tok.Kind == tokenize.MarkupScore:
		r.drain()
		return true
	}
	return false
}

// setAbsolute rewrites a relative pitch token as an absolute pitch and
// returns that pitch.
func (r *relToAbs) setAbsolute(tok tokenize.Token, last pitch.Pitch) (pitch.Pitch, bool) {
	p, ok := tok.ToPitch()
	if !ok {
		return last, false
	}
	p.Absolute(last)
	r.changes.ReplaceToken(tok, withOctave(tok, p.Octave))
	return p, true
}

// relative handles a \relative command found at offset start.
func (r *relToAbs) relative(start int) {
	tok, ok := r.raw()
	if !ok {
		return
	}
	last := pitch.C1()
	if p, isPitch := tok.ToPitch(); isPitch {
		last = p
		if tok, ok = r.raw(); !ok {
			return
		}
	}
	// the wrapper goes before the music is looked at, which may itself
	// be a construct the hook rewrites (another \relative)
	r.changes.Remove(start, tok.Offset)
	if r.handle(tok) {
		return
	}

	tok, ok = r.eatContextPrefix(tok, tokenize.ChordMode, tokenize.NoteMode)
	if !ok {
		return
	}

	switch tok.Kind {
	case tokenize.OpenDelimiter:
		for tok := range r.consume() {
			switch {
			case tok.IsCommand(`\key`), tok.IsCommand(`\transposition`):
				r.skip(1)
			case tok.IsCommand(`\transpose`):
				r.skip(2)
			case tok.IsCommand(`\octaveCheck`):
				check, ok := r.next()
				if !ok {
					return
				}
				if p, isPitch := check.ToPitch(); isPitch {
					last = p
					r.changes.Remove(tok.Offset, check.End())
				}
			case tok.Kind == tokenize.OpenChord:
				last = r.chord(last)
			case tok.Kind == tokenize.Pitch:
				last, _ = r.setAbsolute(tok, last)
			}
		}
	case tokenize.OpenChord:
		for {
			tok, ok := r.next()
			if !ok || tok.Kind == tokenize.CloseChord {
				break
			}
			last, _ = r.setAbsolute(tok, last)
		}
	case tokenize.Pitch:
		r.setAbsolute(tok, last)
	}
}

// chord converts the pitches of a chord, each relative to the one before,
// and returns the pitch the music continues from: the first chord pitch.
func (r *relToAbs) chord(last pitch.Pitch) pitch.Pitch {
	prev := last
	first, seen := last, false
	for {
		tok, ok := r.next()
		if !ok || tok.Kind == tokenize.CloseChord {
			return first
		}
		if p, ok := r.setAbsolute(tok, prev); ok {
			prev = p
			if !seen {
				first, seen = p, true
			}
		}
	}
}
