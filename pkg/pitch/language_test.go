package pitch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguagesRegistered(t *testing.T) {
	names := Languages()
	assert.GreaterOrEqual(t, len(names), 10)
	for _, name := range []string{"nederlands", "english", "deutsch", "norsk", "suomi",
		"svenska", "italiano", "catalan", "espanol", "portugues", "vlaams"} {
		l, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, l.Name)
	}
}

func TestWrite(t *testing.T) {
	tests := []struct {
		language string
		note     int
		alter    int
		want     string
	}{
		{"nederlands", 0, 2, "cis"},
		{"nederlands", 2, -2, "es"},
		{"nederlands", 5, -2, "as"},
		{"nederlands", 2, -4, "eses"},
		{"nederlands", 6, -1, "beh"},
		{"english", 2, -2, "ef"},
		{"english", 3, 4, "fss"},
		{"deutsch", 6, -2, "b"},
		{"deutsch", 6, 0, "h"},
		{"svenska", 6, -2, "b"},
		{"italiano", 4, 2, "sold"},
		{"vlaams", 3, 2, "fak"},
		{"catalan", 0, -2, "dob"},
	}

	for _, tt := range tests {
		t.Run(tt.language+"/"+tt.want, func(t *testing.T) {
			got, err := Write(tt.note, tt.alter, tt.language)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteQuarterToneUnavailable(t *testing.T) {
	_, err := Write(0, 1, "espanol")
	require.Error(t, err)

	var qt *QuarterToneAlterationUnavailable
	require.True(t, errors.As(err, &qt))
	assert.Equal(t, "espanol", qt.Language)
	assert.Equal(t, 1, qt.Alter)
	assert.Contains(t, err.Error(), "1/4")

	_, err = Write(0, 0, "klingon")
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	tests := []struct {
		language string
		text     string
		note     int
		alter    int
	}{
		{"nederlands", "c", 0, 0},
		{"nederlands", "fis", 3, 2},
		{"nederlands", "es", 2, -2},
		{"nederlands", "ees", 2, -2},
		{"nederlands", "eses", 2, -4},
		{"nederlands", "as", 5, -2},
		{"english", "cs", 0, 2},
		{"english", "bf", 6, -2},
		{"english", "csharp", 0, 2},
		{"english", "eflatflat", 2, -4},
		{"deutsch", "b", 6, -2},
		{"deutsch", "h", 6, 0},
		{"italiano", "sib", 6, -2},
		{"italiano", "sol", 4, 0},
		{"portugues", "dosqt", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.language+"/"+tt.text, func(t *testing.T) {
			note, alter, ok := Read(tt.text, tt.language)
			require.True(t, ok)
			assert.Equal(t, tt.note, note)
			assert.Equal(t, tt.alter, alter)
		})
	}
}

func TestReadRejects(t *testing.T) {
	for _, text := range []string{"major", "r", "s", "x", "cx", "Staff", ""} {
		_, _, ok := Read(text, "nederlands")
		assert.False(t, ok, text)
	}
	_, _, ok := Read("c", "klingon")
	assert.False(t, ok)
}

func TestReadWriteRoundTrip(t *testing.T) {
	for _, name := range Languages() {
		l, _ := Lookup(name)
		for note := 0; note < 7; note++ {
			for alter := -4; alter <= 4; alter++ {
				text, err := l.Write(note, alter)
				if err != nil {
					continue
				}
				n, a, ok := l.Read(text)
				require.True(t, ok, "%s: %q", name, text)
				assert.Equal(t, note, n, "%s: %q", name, text)
				assert.Equal(t, alter, a, "%s: %q", name, text)
			}
		}
	}
}
