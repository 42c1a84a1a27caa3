package converter

import (
	"strconv"
	"strings"

	"github.com/james-see/lyrewrite/pkg/rewrite"
	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// DefaultTempo is the tempo of a sketch without a \tempo mark
const DefaultTempo = 120.0

// Step is one sixteenth of a sketch: a note, a chord or a rest
type Step struct {
	Keys     []uint8 // MIDI keys sounding on this step, empty for a rest
	Velocity uint8
}

// IsRest reports whether no key sounds on the step
func (s Step) IsRest() bool {
	return len(s.Keys) == 0
}

// Sketch is the sequence of pitches of a LilyPond document, one step per
// note, chord or rest. Durations are not kept.
type Sketch struct {
	Name  string
	Steps []Step
	Tempo float64
}

// BuildSketch reads the pitches of text in order. Relative music is
// resolved first, so octaves are those the music sounds in.
func BuildSketch(text string) *Sketch {
	text = rewrite.RelativeToAbsolute(text, 0, nil).Apply(text)

	sketch := &Sketch{Tempo: DefaultTempo}
	tokens := notes(text)

	var (
		chord     []uint8
		inChord   bool
		skipCount int
	)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if skipCount > 0 {
			if tok.Kind == tokenize.Pitch {
				skipCount--
				continue
			}
			// \key \default and the like take no pitch
			skipCount = 0
		}
		switch {
		case tok.IsCommand(`\key`), tok.IsCommand(`\transposition`):
			skipCount = 1
		case tok.IsCommand(`\transpose`):
			skipCount = 2
		case tok.IsCommand(`\tempo`):
			if bpm, n := readTempo(tokens[i+1:]); n > 0 {
				sketch.Tempo = bpm
				i += n
			}
		case tok.Kind == tokenize.Unparsed && tok.Text == "title":
			if sketch.Name == "" && i+2 < len(tokens) && tokens[i+1].Text == "=" && tokens[i+2].Kind == tokenize.String {
				sketch.Name = strings.Trim(tokens[i+2].Text, `"`)
				i += 2
			}
		case tok.Kind == tokenize.OpenChord:
			inChord, chord = true, nil
		case tok.Kind == tokenize.CloseChord:
			if inChord {
				sketch.Steps = append(sketch.Steps, Step{Keys: chord})
				inChord = false
			}
		case tok.Kind == tokenize.PitchWord && (tok.Text == "r" || tok.Text == "R" || tok.Text == "s"):
			if !inChord {
				sketch.Steps = append(sketch.Steps, Step{})
			}
		case tok.Kind == tokenize.Pitch:
			p, _ := tok.ToPitch()
			key := p.Key()
			if key < 0 || key > 127 {
				continue
			}
			if inChord {
				chord = append(chord, uint8(key))
			} else {
				sketch.Steps = append(sketch.Steps, Step{Keys: []uint8{uint8(key)}})
			}
		}
	}
	return sketch
}

// notes returns the tokens of text without whitespace and comments.
// Pitches of \chordmode music name chords, not notes, and are left out.
func notes(text string) []tokenize.Token {
	tz := tokenize.New()
	sc := tz.Tokens(text)
	var out []tokenize.Token
	for {
		chordNames := tz.InChordMode()
		tok, ok := sc.Next()
		if !ok {
			return out
		}
		switch {
		case tok.Kind == tokenize.Space, tok.Kind == tokenize.Comment:
		case tok.Kind == tokenize.Pitch && chordNames:
		default:
			out = append(out, tok)
		}
	}
}

// readTempo reads `["text"] 4 = 96` after \tempo and returns the quarter
// note tempo and the number of tokens read
func readTempo(tokens []tokenize.Token) (float64, int) {
	n := 0
	if n < len(tokens) && tokens[n].Kind == tokenize.String {
		n++
	}
	if n+2 >= len(tokens) ||
		tokens[n].Kind != tokenize.Digit ||
		tokens[n+1].Text != "=" ||
		tokens[n+2].Kind != tokenize.Digit {
		return 0, 0
	}
	unit, err1 := strconv.Atoi(tokens[n].Text)
	bpm, err2 := strconv.Atoi(tokens[n+2].Text)
	if err1 != nil || err2 != nil || unit == 0 || bpm == 0 {
		return 0, 0
	}
	return float64(bpm) * 4 / float64(unit), n + 3
}
