package rewrite

import (
	"iter"

	"github.com/james-see/lyrewrite/pkg/edit"
	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// noMarks is the octave written without octave marks (c below middle C),
// used for \key and \chordmode pitches.
const noMarks = -1

// Transpose transposes the pitches at or after start with t, in absolute
// music as well as in \relative music, where the relative octave marks are
// recomputed so the music still sounds as transposed. Pitches of \key and
// \chordmode are written without octave marks; \transposition is left
// alone. If a transposed pitch cannot be written in the current pitch
// language, the error (a *pitch.QuarterToneAlterationUnavailable) is
// returned and changes is not modified.
func Transpose(text string, t pitch.Transposer, start int, changes *edit.List) (*edit.List, error) {
	tr := &transposer{cursor: newCursor(text, start), t: t, changes: edit.New()}
	tr.hook = tr.handle
	tr.absolute(tr.all())
	if tr.err != nil {
		return changes, tr.err
	}
	if changes == nil {
		changes = edit.New()
	}
	changes.Extend(tr.changes)
	return changes, nil
}

// lastPitch threads the previous pitch of relative music, as written and
// as it sounds after transposition.
type lastPitch struct {
	original   pitch.Pitch
	transposed pitch.Pitch
}

type transposer struct {
	*cursor
	t       pitch.Transposer
	changes *edit.List
}

// handle deals with the constructs that behave the same in absolute and
// relative music.
func (tr *transposer) handle(tok tokenize.Token) bool {
	switch {
	case tok.IsCommand(`\relative`):
		tr.relative()
	case tok.Kind == tokenize.MarkupScore:
		tr.absolute(tr.consume())
	case tok.Kind == tokenize.ChordMode:
		for tok := range tr.consume() {
			if tr.inSelection && tok.Kind == tokenize.Pitch {
				tr.transpose(tok, true)
			}
		}
	case tok.IsCommand(`\transposition`):
		tr.skip(1)
	case tok.IsCommand(`\transpose`):
		for i := 0; i < 2; i++ {
			arg, ok := tr.next()
			if !ok {
				break
			}
			if tr.inSelection && arg.Kind == tokenize.Pitch {
				tr.transpose(arg, false)
			}
		}
	case tok.IsCommand(`\key`):
		arg, ok := tr.next()
		if ok && tr.inSelection && arg.Kind == tokenize.Pitch {
			tr.transpose(arg, true)
		}
	default:
		return false
	}
	return true
}

func (tr *transposer) absolute(tokens iter.Seq[tokenize.Token]) {
	for tok := range tokens {
		if tr.inSelection && tok.Kind == tokenize.Pitch {
			tr.transpose(tok, false)
		}
	}
}

// transpose transposes an absolute pitch token in place.
func (tr *transposer) transpose(tok tokenize.Token, resetOctave bool) {
	p, ok := tok.ToPitch()
	if !ok {
		return
	}
	p = tr.t.Transpose(p)
	if resetOctave {
		p.Octave = noMarks
	}
	tr.write(tok, p)
}

func (tr *transposer) write(tok tokenize.Token, p pitch.Pitch) {
	text, err := p.Output(tr.tz.Language())
	if err != nil {
		tr.fail(err)
		return
	}
	tr.changes.ReplaceToken(tok, text)
}

// relative handles a \relative command.
func (tr *transposer) relative() {
	rel := &relativeTransposer{transposer: tr}

	tok, ok := tr.raw()
	if !ok {
		return
	}
	if p, isPitch := tok.ToPitch(); isPitch {
		rel.last = tr.fromSelection(p)
		if tr.inSelection {
			tr.write(tok, rel.last.transposed)
		}
		if tok, ok = tr.raw(); !ok {
			return
		}
	} else {
		rel.last = lastPitch{original: pitch.C1(), transposed: pitch.C1()}
	}
	if tr.handle(tok) {
		return
	}

	tok, ok = tr.eatContextPrefix(tok, tokenize.NoteMode)
	if !ok {
		return
	}

	switch tok.Kind {
	case tokenize.OpenDelimiter:
		for tok := range tr.consume() {
			switch {
			case tok.IsCommand(`\octaveCheck`):
				rel.octaveCheck()
			case tok.Kind == tokenize.OpenChord:
				rel.chord()
			case tok.Kind == tokenize.Pitch:
				rel.last = rel.transposeRelative(tok, rel.last)
			}
		}
	case tokenize.OpenChord:
		for {
			tok, ok := tr.next()
			if !ok || tok.Kind == tokenize.CloseChord {
				break
			}
			rel.last = rel.transposeRelative(tok, rel.last)
		}
	case tokenize.Pitch:
		rel.transposeRelative(tok, rel.last)
	}
}

// fromSelection starts a pitch thread from a pitch that is transposed
// only when it lies in the selection.
func (tr *transposer) fromSelection(p pitch.Pitch) lastPitch {
	if tr.inSelection {
		return lastPitch{original: p, transposed: tr.t.Transpose(p)}
	}
	return lastPitch{original: p, transposed: p}
}

// relativeTransposer holds the state of one \relative block.
type relativeTransposer struct {
	*transposer
	last lastPitch
}

// transposeRelative rewrites a relative pitch token so that, read against
// the transposed previous pitch, it sounds transposed. It returns the
// thread to continue from.
func (rel *relativeTransposer) transposeRelative(tok tokenize.Token, last lastPitch) lastPitch {
	p, ok := tok.ToPitch()
	if !ok {
		return last
	}
	hasCheck := p.HasOctaveCheck
	p.Absolute(last.original)
	if !rel.inSelection {
		return lastPitch{original: p, transposed: p}
	}

	moved := rel.t.Transpose(p)
	out := moved.Relative(last.transposed)
	out.HasOctaveCheck = hasCheck
	if hasCheck {
		out.OctaveCheck = moved.Octave
	}
	rel.write(tok, out)
	return lastPitch{original: p, transposed: moved}
}

// octaveCheck handles `\octaveCheck P`: the check pitch is transposed in
// place and the pitch thread restarts from it.
func (rel *relativeTransposer) octaveCheck() {
	tok, ok := rel.next()
	if !ok {
		return
	}
	p, isPitch := tok.ToPitch()
	if !isPitch {
		return
	}
	rel.last = rel.fromSelection(p)
	if rel.inSelection {
		rel.write(tok, rel.last.transposed)
	}
}

// chord transposes the pitches of a chord, each relative to the one
// before. The music continues from the first chord pitch.
func (rel *relativeTransposer) chord() {
	prev := rel.last
	var first *lastPitch
	for {
		tok, ok := rel.next()
		if !ok || tok.Kind == tokenize.CloseChord {
			break
		}
		if tok.Kind != tokenize.Pitch {
			continue
		}
		prev = rel.transposeRelative(tok, prev)
		if first == nil {
			f := prev
			first = &f
		}
	}
	if first != nil {
		rel.last = *first
	}
}
