package pitch

import (
	"fmt"
	"regexp"
)

// Transposer maps a pitch to its transposed counterpart.
type Transposer interface {
	Transpose(p Pitch) Pitch
}

// TransposerFunc adapts a function to the Transposer interface.
type TransposerFunc func(Pitch) Pitch

// Transpose calls f(p).
func (f TransposerFunc) Transpose(p Pitch) Pitch { return f(p) }

// Identity leaves every pitch unchanged.
var Identity Transposer = TransposerFunc(func(p Pitch) Pitch { return p })

// Interval transposes by the interval between two pitches, keeping the
// spelling diatonic: c→d moves e to fis, not to ges.
type Interval struct {
	Steps        int // diatonic steps
	QuarterTones int // size in quarter tones
}

// NewInterval returns the interval that transposes from to to.
func NewInterval(from, to Pitch) Interval {
	return Interval{
		Steps:        to.Note - from.Note + 7*(to.Octave-from.Octave),
		QuarterTones: to.QuarterTones() - from.QuarterTones(),
	}
}

// Transpose implements Transposer.
func (iv Interval) Transpose(p Pitch) Pitch {
	target := p.QuarterTones() + iv.QuarterTones
	total := p.Note + iv.Steps
	p.Note = floorMod(total, 7)
	shift := floorDiv(total, 7)
	p.Octave += shift
	if p.HasOctaveCheck {
		p.OctaveCheck += shift
	}
	p.Alter = target - p.Octave*QuarterTonesPerOctave - scale[p.Note]
	return p
}

// Compose returns a transposer applying first and then second.
func Compose(first, second Transposer) Transposer {
	a, okA := first.(Interval)
	b, okB := second.(Interval)
	if okA && okB {
		return Interval{Steps: a.Steps + b.Steps, QuarterTones: a.QuarterTones + b.QuarterTones}
	}
	return TransposerFunc(func(p Pitch) Pitch {
		return second.Transpose(first.Transpose(p))
	})
}

var pitchLiteral = regexp.MustCompile(`^([a-z]+)([?!]?)([',]*)(?:=([',]*))?$`)

// Parse reads an absolute pitch literal like "fis''" or "bes,=," in the
// given language.
func Parse(text, language string) (Pitch, error) {
	m := pitchLiteral.FindStringSubmatchIndex(text)
	if m == nil {
		return Pitch{}, fmt.Errorf("invalid pitch %q", text)
	}
	note, alter, ok := Read(text[m[2]:m[3]], language)
	if !ok {
		return Pitch{}, fmt.Errorf("invalid pitch %q in language %q", text, language)
	}
	p := Pitch{
		Note:       note,
		Alter:      alter,
		Cautionary: text[m[4]:m[5]],
		Octave:     OctaveToNum(text[m[6]:m[7]]),
	}
	if m[8] >= 0 {
		p.HasOctaveCheck = true
		p.OctaveCheck = OctaveToNum(text[m[8]:m[9]])
	}
	return p, nil
}
