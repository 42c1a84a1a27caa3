package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/lyrewrite/pkg/tokenize"
)

func TestApply(t *testing.T) {
	src := "{ c d e }"
	l := New()
	l.Replace(4, 5, "dis")
	l.Insert(0, `\relative c' `)
	l.Remove(6, 8)
	l.Replace(2, 3, "c'")

	assert.Equal(t, `\relative c' { c' dis }`, l.Apply(src))
	assert.Equal(t, 4, l.Len())

	entries := l.Entries()
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].B, entries[i].A)
	}
}

func TestEmptyListIsIdentity(t *testing.T) {
	var l List
	assert.Equal(t, "abc ü", l.Apply("abc ü"))
	assert.Equal(t, "", l.Apply(""))
}

func TestReplaceToken(t *testing.T) {
	src := `{ cis' }`
	tokens := tokenize.Tokenize(src)
	l := New()
	for _, tok := range tokens {
		if tok.Kind == tokenize.Pitch {
			l.ReplaceToken(tok, "cs'")
		}
	}
	assert.Equal(t, `{ cs' }`, l.Apply(src))
}

func TestInsertOrder(t *testing.T) {
	l := New()
	l.Insert(1, "a")
	l.Insert(1, "b")
	l.Replace(1, 2, "X")
	assert.Equal(t, "0abX2", l.Apply("012"))
}

func TestOverlapPanics(t *testing.T) {
	tests := []struct {
		name string
		a, b int
	}{
		{"same range", 2, 4},
		{"inside", 3, 3},
		{"straddles start", 1, 3},
		{"straddles end", 3, 5},
		{"covers", 0, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			l.Replace(2, 4, "x")
			assert.Panics(t, func() { l.Replace(tt.a, tt.b, "y") })
		})
	}

	assert.Panics(t, func() { New().Replace(3, 2, "") })
	assert.Panics(t, func() { New().Replace(-1, 0, "") })
}

func TestAdjacentDoesNotOverlap(t *testing.T) {
	l := New()
	l.Replace(2, 4, "x")
	require.NotPanics(t, func() {
		l.Replace(0, 2, "a")
		l.Replace(4, 6, "b")
		l.Insert(4, "i")
	})
	assert.Equal(t, "axib", l.Apply("012345"))
}

func TestExtend(t *testing.T) {
	l := New()
	l.Replace(0, 1, "A")
	other := New()
	other.Replace(2, 3, "C")
	l.Extend(other)
	l.Extend(nil)
	assert.Equal(t, "AbC", l.Apply("abc"))
	assert.Panics(t, func() { l.Extend(other) })
}

func TestApplyBeyondTextPanics(t *testing.T) {
	l := New()
	l.Replace(2, 10, "")
	assert.Panics(t, func() { l.Apply("abc") })
}
