package tokenize

import "sync"

// Format is a highlighting category.
type Format string

const (
	FormatCommand   Format = "command"
	FormatString    Format = "string"
	FormatDelimiter Format = "delimiter"
	FormatComment   Format = "comment"
	FormatPitch     Format = "pitch"
	FormatScheme    Format = "scheme"
	FormatMarkup    Format = "markup"
)

var formats = map[Kind]Format{
	Command:          FormatCommand,
	Section:          FormatCommand,
	LyricMode:        FormatCommand,
	ChordMode:        FormatCommand,
	NoteMode:         FormatCommand,
	FigureMode:       FormatCommand,
	Context:          FormatCommand,
	Include:          FormatCommand,
	Language:         FormatCommand,
	Dynamic:          FormatCommand,
	String:           FormatString,
	IncludeFile:      FormatString,
	LanguageName:     FormatString,
	OpenDelimiter:    FormatDelimiter,
	CloseDelimiter:   FormatDelimiter,
	OpenBracket:      FormatDelimiter,
	CloseBracket:     FormatDelimiter,
	OpenChord:        FormatDelimiter,
	CloseChord:       FormatDelimiter,
	SchemeLily:       FormatDelimiter,
	EndSchemeLily:    FormatDelimiter,
	Comment:          FormatComment,
	SchemeComment:    FormatComment,
	Pitch:            FormatPitch,
	Scheme:           FormatScheme,
	SchemeWord:       FormatScheme,
	SchemeChar:       FormatScheme,
	SchemeOpenParen:  FormatScheme,
	SchemeCloseParen: FormatScheme,
	Markup:           FormatMarkup,
	MarkupCommand:    FormatMarkup,
	MarkupScore:      FormatMarkup,
}

// FormatOf returns the highlighting format of a token kind, or "".
func FormatOf(k Kind) Format { return formats[k] }

// Span is a highlighted range within a line.
type Span struct {
	Offset int
	Length int
	Format Format
}

// StateTable interns frozen tokenizer states as small integers, the way an
// editor stores a state per text block. Id 0 is the initial state.
type StateTable struct {
	mu     sync.Mutex
	ids    map[State]int
	states []State
}

func NewStateTable() *StateTable {
	return &StateTable{
		ids:    map[State]int{New().Freeze(): 0},
		states: []State{New().Freeze()},
	}
}

// ID returns the id of s, adding it if needed.
func (st *StateTable) ID(s State) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	if id, ok := st.ids[s]; ok {
		return id
	}
	id := len(st.states)
	st.states = append(st.states, s)
	st.ids[s] = id
	return id
}

// State returns the state with the given id.
func (st *StateTable) State(id int) (State, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if id < 0 || id >= len(st.states) {
		return State{}, false
	}
	return st.states[id], true
}

// Len returns the number of known states.
func (st *StateTable) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.states)
}

// Highlighter highlights text line by line. Each line is tokenized
// starting from the state the previous line ended in, so a single changed
// line can be rehighlighted without touching the rest of the document.
type Highlighter struct {
	table *StateTable
}

func NewHighlighter() *Highlighter {
	return &Highlighter{table: NewStateTable()}
}

// States returns the state table the highlighter uses.
func (h *Highlighter) States() *StateTable { return h.table }

// Line highlights one line given the state id the previous line ended in
// (0 for the first line). It returns the spans and the state id at the end
// of the line.
func (h *Highlighter) Line(prev int, line string) ([]Span, int) {
	t := New()
	if s, ok := h.table.State(prev); ok {
		t.Thaw(s)
	}
	var spans []Span
	sc := t.Tokens(line)
	for {
		tok, ok := sc.Next()
		if !ok {
			break
		}
		if f := formats[tok.Kind]; f != "" {
			spans = append(spans, Span{Offset: tok.Offset, Length: len(tok.Text), Format: f})
		}
	}
	return spans, h.table.ID(t.Freeze())
}

// Document highlights every line of a document and returns the spans of
// each line together with the state id each line ends in.
func (h *Highlighter) Document(lines []string) ([][]Span, []int) {
	spans := make([][]Span, len(lines))
	states := make([]int, len(lines))
	prev := 0
	for i, line := range lines {
		spans[i], prev = h.Line(prev, line)
		states[i] = prev
	}
	return spans, states
}
