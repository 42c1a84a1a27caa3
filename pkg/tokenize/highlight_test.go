package tokenize

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightLines(t *testing.T) {
	h := NewHighlighter()
	lines := []string{
		`\relative c' {`,
		`  #(define`,
		`   x) c`,
		`}`,
	}
	spans, states := h.Document(lines)

	assert.Equal(t, []Span{
		{0, 9, FormatCommand},
		{10, 2, FormatPitch},
		{13, 1, FormatDelimiter},
	}, spans[0])
	assert.Equal(t, []Span{
		{2, 1, FormatScheme},
		{3, 1, FormatScheme},
		{4, 6, FormatScheme},
	}, spans[1])
	assert.Equal(t, []Span{
		{3, 1, FormatScheme},
		{4, 1, FormatScheme},
		{6, 1, FormatPitch},
	}, spans[2])
	assert.Equal(t, []Span{{0, 1, FormatDelimiter}}, spans[3])

	assert.NotEqual(t, 0, states[0])
	assert.NotEqual(t, states[0], states[1])
	assert.Equal(t, states[0], states[2])
	assert.Equal(t, 0, states[3])
}

// Rehighlighting one line from its stored predecessor state gives the same
// result as highlighting the whole document again.
func TestHighlightSingleLine(t *testing.T) {
	h := NewHighlighter()
	lines := []string{`\markup \bold {`, `hello`, `} c`}
	spans, states := h.Document(lines)

	again, next := h.Line(states[0], lines[1])
	assert.Equal(t, spans[1], again)
	assert.Equal(t, states[1], next)
}

func TestStateTable(t *testing.T) {
	st := NewStateTable()
	assert.Equal(t, 1, st.Len())

	initial, ok := st.State(0)
	require.True(t, ok)
	assert.Equal(t, New().Freeze(), initial)
	assert.Equal(t, 0, st.ID(State{stack: "0.0.0.0;", language: "nederlands"}))

	_, ok = st.State(5)
	assert.False(t, ok)

	tz := New()
	tz.Thaw(initial)
	tz.SetLanguage("english")

	var wg sync.WaitGroup
	ids := make([]int, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = st.ID(tz.Freeze())
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, 1, id)
	}
	assert.Equal(t, 2, st.Len())
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatPitch, FormatOf(Pitch))
	assert.Equal(t, FormatComment, FormatOf(SchemeComment))
	assert.Equal(t, Format(""), FormatOf(Space))
}
