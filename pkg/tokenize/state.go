package tokenize

import (
	"fmt"
	"strings"
)

// State is a frozen tokenizer state. States are comparable, so they can
// be used as map keys; equal states tokenize the same text identically.
// The zero State is the initial state.
type State struct {
	stack    string
	language string
}

// Freeze captures the tokenizer state.
func (t *Tokenizer) Freeze() State {
	var b strings.Builder
	for _, f := range t.stack {
		fmt.Fprintf(&b, "%d.%d.%d.%d;", f.mode, f.variant, f.level, f.argcount)
	}
	return State{stack: b.String(), language: t.language}
}

// Thaw restores a state captured with Freeze. A zero or malformed state
// resets the tokenizer.
func (t *Tokenizer) Thaw(s State) {
	t.Reset()
	if s.language != "" {
		t.language = s.language
	}
	var stack []frame
	for _, part := range strings.Split(s.stack, ";") {
		if part == "" {
			continue
		}
		var mode, v uint8
		var f frame
		if _, err := fmt.Sscanf(part, "%d.%d.%d.%d", &mode, &v, &f.level, &f.argcount); err != nil {
			return
		}
		f.mode, f.variant = Mode(mode), variant(v)
		stack = append(stack, f)
	}
	if len(stack) > 0 {
		t.stack = stack
	}
}

func (s State) String() string {
	return fmt.Sprintf("[%s] %s", s.stack, s.language)
}
