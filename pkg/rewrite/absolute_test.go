package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/lyrewrite/pkg/edit"
)

func TestAbsoluteToRelative(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"scale", `{ c' d' e' f' }`, `\relative c' { c d e f }`},
		{"high first pitch moves start up", `{ g' a' }`, `\relative c'' { g a }`},
		{"chords", `{ <c' e' g'> <c'' e'' g''> }`, `\relative c' { <c e g> <c' e g> }`},
		{"chordmode is skipped", `{ c' } \chordmode { c' }`, `\relative c' { c } \chordmode { c' }`},
		{"relative is skipped", `\relative c' { c d } { e' }`, `\relative c' { c d } \relative c' { e }`},
		{"scope without pitches", `{ r4 } { c' }`, `{ r4 } \relative c' { c }`},
		{"key is skipped", `{ \key g \major g' }`, `\relative c'' { \key g \major g }`},
		{"octaveCheck kept absolute", `{ c' d' \octaveCheck c' e' }`, `\relative c' { c d \octaveCheck c' e }`},
		{"octaveCheck resets previous pitch", `{ c'' \octaveCheck c e }`, `\relative c'' { c \octaveCheck c e }`},
		{"octaveCheck first", `{ \octaveCheck a' c'' }`, `\relative c'' { \octaveCheck a' c }`},
		{"directly nested relative is skipped", `\relative c' \relative c'' { c } { e' }`, `\relative c' \relative c'' { c } \relative c' { e }`},
		{"parallel music", `<< { c'' } \\ { e' } >>`, `\relative c'' << { c } \\ { e, } >>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := AbsoluteToRelative(tt.in, 0, nil)
			require.NoError(t, err)
			assertOrdered(t, l)
			assert.Equal(t, tt.want, l.Apply(tt.in))
		})
	}
}

func TestAbsoluteToRelativeNoExpression(t *testing.T) {
	for _, text := range []string{``, `c' d'`, `\markup { x }`, `\relative c' { c }`} {
		l := edit.New()
		l.Insert(0, "%")
		got, err := AbsoluteToRelative(text, 0, l)
		assert.ErrorIs(t, err, ErrNoExpressionFound, text)
		assert.Same(t, l, got)
		assert.Equal(t, 1, l.Len())
	}
}

func TestAbsoluteToRelativeFromStart(t *testing.T) {
	text := `{ c' } { e' }`
	l, err := AbsoluteToRelative(text, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, `{ c' } \relative c' { e }`, l.Apply(text))
}

// Converting absolute music to relative and back gives the original.
func TestRelativeAbsoluteInvolution(t *testing.T) {
	for _, text := range []string{
		`{ c' d' e' f' }`,
		`{ g a b c' d' }`,
		`{ <c' e' g'> <c'' e'' g''> b }`,
		`{ c''' c, fis'4 bes,,8 \key g \major g' }`,
		"{ c'4 % comment\n  d'' }",
	} {
		l, err := AbsoluteToRelative(text, 0, nil)
		require.NoError(t, err, text)
		rel := l.Apply(text)
		back := RelativeToAbsolute(rel, 0, nil).Apply(rel)
		assert.Equal(t, text, back, "via %s", rel)
	}
}

// Back in absolute music an \octaveCheck is dropped, and every pitch keeps
// the octave it had.
func TestRelativeAbsoluteInvolutionWithOctaveCheck(t *testing.T) {
	text := `{ c'' \octaveCheck c e }`
	l, err := AbsoluteToRelative(text, 0, nil)
	require.NoError(t, err)
	rel := l.Apply(text)
	back := RelativeToAbsolute(rel, 0, nil).Apply(rel)
	assert.Equal(t, strings.Replace(text, `\octaveCheck c`, "", 1), back, "via %s", rel)
}
