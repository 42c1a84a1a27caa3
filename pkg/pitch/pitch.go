// Package pitch models LilyPond pitches: note names in the supported
// pitch-name languages, octave marks and relative/absolute octave arithmetic.
package pitch

import (
	"math/big"
	"strings"
)

// Quarter-tone positions of the natural notes c..b inside one octave.
var scale = [7]int{0, 4, 8, 10, 14, 18, 22}

// QuarterTonesPerOctave is the size of an octave in quarter tones.
const QuarterTonesPerOctave = 24

// Cautionary accidental marks
const (
	NoCautionary = ""
	Forced       = "!"
	Cautionary   = "?"
)

// Pitch represents a single LilyPond pitch
type Pitch struct {
	Note           int    // 0..6 for c..b
	Alter          int    // alteration in quarter tones (sharp = 2)
	Octave         int    // 0 is the octave of middle C (c')
	OctaveCheck    int    // octave asserted with "=", valid if HasOctaveCheck
	HasOctaveCheck bool   // whether an octave check is present
	Cautionary     string // "", "?" or "!"
}

// C1 returns c', the pitch \relative assumes when no start pitch is given.
func C1() Pitch {
	return Pitch{Octave: 0}
}

// AlterRat returns the alteration in whole tones (sharp = 1/2).
func (p Pitch) AlterRat() *big.Rat {
	return big.NewRat(int64(p.Alter), 4)
}

// Equal reports whether p and q denote the same pitch. Octave checks and
// cautionary marks are ignored.
func (p Pitch) Equal(q Pitch) bool {
	return p.Note == q.Note && p.Alter == q.Alter && p.Octave == q.Octave
}

// QuarterTones returns the distance of p from middle C in quarter tones.
func (p Pitch) QuarterTones() int {
	return p.Octave*QuarterTonesPerOctave + scale[p.Note] + p.Alter
}

// Key returns the MIDI key number of p, rounding quarter tones down.
func (p Pitch) Key() int {
	return 60 + floorDiv(p.QuarterTones(), 2)
}

// Absolute turns p, whose octave still holds the octave marks read from a
// relative pitch, into an absolute pitch using last as reference.
func (p *Pitch) Absolute(last Pitch) {
	delta := p.Octave + 1
	p.Octave = last.Octave + delta - floorDiv(p.Note-last.Note+3, 7)
}

// Relative returns a copy of the absolute pitch p whose octave denotes the
// octave marks needed to reach p from last in \relative mode.
func (p Pitch) Relative(last Pitch) Pitch {
	r := p
	r.Octave = p.Octave - last.Octave + floorDiv(p.Note-last.Note+3, 7) - 1
	return r
}

// Output writes p in the given language, including cautionary, octave marks
// and octave check.
func (p Pitch) Output(language string) (string, error) {
	name, err := Write(p.Note, p.Alter, language)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(p.Cautionary)
	b.WriteString(NumToOctave(p.Octave))
	if p.HasOctaveCheck {
		b.WriteByte('=')
		b.WriteString(NumToOctave(p.OctaveCheck))
	}
	return b.String(), nil
}

// String returns the pitch in the default language, or "?" if unwritable.
func (p Pitch) String() string {
	s, err := p.Output(DefaultLanguage)
	if err != nil {
		return "?"
	}
	return s
}

// OctaveToNum converts octave marks to an octave number: "" is -1,
// "'"×n is n-1 and ","×n is -n-1.
func OctaveToNum(marks string) int {
	return strings.Count(marks, "'") - strings.Count(marks, ",") - 1
}

// NumToOctave is the inverse of OctaveToNum.
func NumToOctave(n int) string {
	switch {
	case n >= 0:
		return strings.Repeat("'", n+1)
	case n < -1:
		return strings.Repeat(",", -n-1)
	}
	return ""
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
