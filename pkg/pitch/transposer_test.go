package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) Pitch {
	t.Helper()
	p, err := Parse(text, DefaultLanguage)
	require.NoError(t, err)
	return p
}

func TestIntervalTranspose(t *testing.T) {
	tests := []struct {
		from, to string
		in, want string
	}{
		{"c'", "d'", "c'", "d'"},
		{"c'", "d'", "e'", "fis'"},
		{"c'", "d'", "b'", "cis''"},
		{"c'", "d'", "bes", "c'"},
		{"c'", "es'", "a", "c'"},
		{"c'", "es'", "fis'", "a'"},
		{"c'", "c''", "g", "g'"},
		{"d'", "c'", "c'", "bes"},
		{"c", "des", "b,", "c"},
		{"c'", "cih'", "c'", "cih'"},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to+"/"+tt.in, func(t *testing.T) {
			iv := NewInterval(mustParse(t, tt.from), mustParse(t, tt.to))
			got := iv.Transpose(mustParse(t, tt.in))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTransposeKeepsMarks(t *testing.T) {
	iv := NewInterval(mustParse(t, "c'"), mustParse(t, "d'"))
	got := iv.Transpose(mustParse(t, "c!'=''"))
	assert.Equal(t, "d!'=''", got.String())
}

func TestTransposeMovesOctaveCheck(t *testing.T) {
	octave := NewInterval(mustParse(t, "c'"), mustParse(t, "c''"))
	assert.Equal(t, "c''=''", octave.Transpose(mustParse(t, "c'='")).String())

	up := NewInterval(mustParse(t, "c'"), mustParse(t, "d'"))
	assert.Equal(t, "cis''=''", up.Transpose(mustParse(t, "b'='")).String())
}

func TestIdentity(t *testing.T) {
	p := mustParse(t, "gis,")
	assert.Equal(t, p, Identity.Transpose(p))
	assert.Equal(t, p, NewInterval(mustParse(t, "f"), mustParse(t, "f")).Transpose(p))
}

func TestCompose(t *testing.T) {
	up := NewInterval(mustParse(t, "c'"), mustParse(t, "d'"))
	third := NewInterval(mustParse(t, "c'"), mustParse(t, "e'"))
	both := Compose(up, third)
	require.IsType(t, Interval{}, both)

	for _, in := range []string{"c'", "fis", "bes''", "eeses,"} {
		p := mustParse(t, in)
		assert.Equal(t, third.Transpose(up.Transpose(p)), both.Transpose(p), in)
	}

	f := Compose(up, TransposerFunc(func(p Pitch) Pitch { p.Octave++; return p }))
	assert.Equal(t, "e''", f.Transpose(mustParse(t, "d'")).String())
}
