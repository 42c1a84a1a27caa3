// Package edit collects byte-range replacements over a source text and
// applies them in one go.
package edit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// Entry replaces Source[A:B] with Text.
type Entry struct {
	A, B int
	Text string
}

// List is an ordered set of non-overlapping replacements. The zero value
// is an empty list ready to use.
type List struct {
	entries []Entry
}

// New returns an empty list.
func New() *List { return &List{} }

// Replace replaces text[a:b] with r. It panics if a > b or if the range
// overlaps an entry already in the list.
func (l *List) Replace(a, b int, r string) {
	if a < 0 || a > b {
		panic(fmt.Sprintf("edit: invalid range [%d:%d]", a, b))
	}
	// insert after all entries sorting before or equal to (a, b)
	i := sort.Search(len(l.entries), func(i int) bool {
		e := l.entries[i]
		return e.A > a || (e.A == a && e.B > b)
	})
	if i > 0 {
		if prev := l.entries[i-1]; prev.B > a {
			panic(fmt.Sprintf("edit: [%d:%d] overlaps [%d:%d]", a, b, prev.A, prev.B))
		}
	}
	if i < len(l.entries) {
		if next := l.entries[i]; b > next.A {
			panic(fmt.Sprintf("edit: [%d:%d] overlaps [%d:%d]", a, b, next.A, next.B))
		}
	}
	l.entries = append(l.entries, Entry{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = Entry{A: a, B: b, Text: r}
}

// ReplaceToken replaces the text of tok.
func (l *List) ReplaceToken(tok tokenize.Token, r string) {
	l.Replace(tok.Offset, tok.End(), r)
}

// Insert inserts r at offset a.
func (l *List) Insert(a int, r string) { l.Replace(a, a, r) }

// Remove deletes text[a:b].
func (l *List) Remove(a, b int) { l.Replace(a, b, "") }

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in order.
func (l *List) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Extend adds all entries of other to l.
func (l *List) Extend(other *List) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		l.Replace(e.A, e.B, e.Text)
	}
}

// Apply returns text with all replacements made. It panics if an entry
// lies outside text.
func (l *List) Apply(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, e := range l.entries {
		if e.B > len(text) {
			panic(fmt.Sprintf("edit: [%d:%d] beyond end of text (%d)", e.A, e.B, len(text)))
		}
		b.WriteString(text[pos:e.A])
		b.WriteString(e.Text)
		pos = e.B
	}
	b.WriteString(text[pos:])
	return b.String()
}
