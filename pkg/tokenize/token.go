// Package tokenize splits LilyPond source text into tokens. The tokenizer
// keeps a stack of parser modes, so that Scheme, markup, lyrics and the like
// are recognised in context, and its state can be frozen and thawed to
// resume tokenizing at any line.
package tokenize

import (
	"fmt"

	"github.com/james-see/lyrewrite/pkg/pitch"
)

// Kind identifies the type of a token.
type Kind uint8

const (
	Unparsed Kind = iota
	Command
	String
	PitchWord
	Pitch
	Scheme
	Comment
	Space
	Markup
	OpenDelimiter
	CloseDelimiter
	OpenChord
	CloseChord
	Articulation
	Dynamic
	VoiceSeparator
	Digit
	EndSchemeLily
	SchemeOpenParen
	SchemeCloseParen
	SchemeChar
	SchemeWord
	SchemeComment
	SchemeLily
	OpenBracket
	CloseBracket
	MarkupScore
	MarkupCommand
	MarkupWord
	LyricMode
	LyricWord
	Section
	IncludeFile
	ChordMode
	NoteMode
	FigureMode
	Context
	Include
	Language
	LanguageName
)

var kindNames = map[Kind]string{
	Unparsed:         "Unparsed",
	Command:          "Command",
	String:           "String",
	PitchWord:        "PitchWord",
	Pitch:            "Pitch",
	Scheme:           "Scheme",
	Comment:          "Comment",
	Space:            "Space",
	Markup:           "Markup",
	OpenDelimiter:    "OpenDelimiter",
	CloseDelimiter:   "CloseDelimiter",
	OpenChord:        "OpenChord",
	CloseChord:       "CloseChord",
	Articulation:     "Articulation",
	Dynamic:          "Dynamic",
	VoiceSeparator:   "VoiceSeparator",
	Digit:            "Digit",
	EndSchemeLily:    "EndSchemeLily",
	SchemeOpenParen:  "SchemeOpenParen",
	SchemeCloseParen: "SchemeCloseParen",
	SchemeChar:       "SchemeChar",
	SchemeWord:       "SchemeWord",
	SchemeComment:    "SchemeComment",
	SchemeLily:       "SchemeLily",
	OpenBracket:      "OpenBracket",
	CloseBracket:     "CloseBracket",
	MarkupScore:      "MarkupScore",
	MarkupCommand:    "MarkupCommand",
	MarkupWord:       "MarkupWord",
	LyricMode:        "LyricMode",
	LyricWord:        "LyricWord",
	Section:          "Section",
	IncludeFile:      "IncludeFile",
	ChordMode:        "ChordMode",
	NoteMode:         "NoteMode",
	FigureMode:       "FigureMode",
	Context:          "Context",
	Include:          "Include",
	Language:         "Language",
	LanguageName:     "LanguageName",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// PitchInfo holds the decoded parts of a Pitch token.
type PitchInfo struct {
	Step        string // the pitch name as written
	Cautionary  string // "", "?" or "!"
	Octave      string // octave marks
	OctCheck    string // octave marks after "=", if HasOctCheck
	HasOctCheck bool
	Note        int
	Alter       int
}

// Token is a piece of LilyPond text.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
	Pitch  *PitchInfo // set for Pitch tokens
}

// End returns the offset just after the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// IsCommand reports whether t is the given backslash command, e.g. `\key`.
func (t Token) IsCommand(name string) bool {
	return t.Kind == Command && t.Text == name
}

// ToPitch returns the pitch denoted by a Pitch token, with the octave taken
// literally from its octave marks.
func (t Token) ToPitch() (pitch.Pitch, bool) {
	if t.Kind != Pitch || t.Pitch == nil {
		return pitch.Pitch{}, false
	}
	p := pitch.Pitch{
		Note:       t.Pitch.Note,
		Alter:      t.Pitch.Alter,
		Octave:     pitch.OctaveToNum(t.Pitch.Octave),
		Cautionary: t.Pitch.Cautionary,
	}
	if t.Pitch.HasOctCheck {
		p.HasOctaveCheck = true
		p.OctaveCheck = pitch.OctaveToNum(t.Pitch.OctCheck)
	}
	return p, true
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d", t.Kind, t.Text, t.Offset)
}
