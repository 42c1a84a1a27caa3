package tokenize

import (
	"github.com/james-see/lyrewrite/pkg/pitch"
)

// Mode is a parser mode; every mode recognises its own set of tokens.
type Mode uint8

const (
	ModeToplevel Mode = iota
	ModeScheme
	ModeMarkup
	ModeLyric
	ModeSection
	ModeInclude
)

// variant refines a frame's mode without changing its lexicon.
type variant uint8

const (
	plain variant = iota
	chords
	notes
	figures
	context
	includeFile
	languageName
)

// frame is one entry of the parser stack.
type frame struct {
	mode     Mode
	variant  variant
	level    int // open brackets inside this frame
	argcount int // arguments still expected; 0 means unlimited
}

// Depth locates the tokenizer in the nesting of parsers and brackets.
// Depths compare lexicographically.
type Depth struct {
	Frames int
	Level  int
}

// Less reports whether d is shallower than o.
func (d Depth) Less(o Depth) bool {
	if d.Frames != o.Frames {
		return d.Frames < o.Frames
	}
	return d.Level < o.Level
}

// Tokenizer turns text into tokens. It is not safe for concurrent use.
type Tokenizer struct {
	stack    []frame
	language string
}

// New returns a Tokenizer in its initial state: one top-level frame and
// the default pitch language.
func New() *Tokenizer {
	t := &Tokenizer{}
	t.Reset()
	return t
}

// Reset returns the tokenizer to its initial state.
func (t *Tokenizer) Reset() {
	t.stack = []frame{{mode: ModeToplevel}}
	t.language = pitch.DefaultLanguage
}

// Language is the pitch language currently used to recognise pitches.
func (t *Tokenizer) Language() string { return t.language }

// SetLanguage changes the pitch language. Unknown names are ignored.
func (t *Tokenizer) SetLanguage(name string) {
	if _, ok := pitch.Lookup(name); ok {
		t.language = name
	}
}

// Mode returns the mode on top of the parser stack.
func (t *Tokenizer) Mode() Mode { return t.top().mode }

// Depth returns the current nesting depth.
func (t *Tokenizer) Depth() Depth {
	return Depth{Frames: len(t.stack), Level: t.top().level}
}

// InChordMode reports whether the innermost music is entered as \chordmode.
func (t *Tokenizer) InChordMode() bool {
	return t.top().mode == ModeToplevel && t.top().variant == chords
}

func (t *Tokenizer) top() *frame { return &t.stack[len(t.stack)-1] }

func (t *Tokenizer) enter(m Mode, v variant, argcount int) {
	t.stack = append(t.stack, frame{mode: m, variant: v, argcount: argcount})
}

func (t *Tokenizer) leave() {
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

func (t *Tokenizer) inc() { t.top().level++ }

func (t *Tokenizer) dec() {
	for len(t.stack) > 1 && t.top().level == 0 {
		t.leave()
	}
	if t.top().level > 0 {
		t.top().level--
		t.endArgument()
	}
}

// endArgument is called when a complete argument has been read. Frames
// that expected a limited number of arguments are popped when satisfied.
func (t *Tokenizer) endArgument() {
	for len(t.stack) > 1 && t.top().level == 0 {
		switch f := t.top(); {
		case f.argcount > 1:
			f.argcount--
			return
		case f.argcount == 0:
			return
		default:
			t.leave()
		}
	}
}

// Tokens returns a Scanner over text, starting in the tokenizer's current
// state. The scanner changes the tokenizer's state as it goes.
func (t *Tokenizer) Tokens(text string) *Scanner {
	return &Scanner{t: t, text: text}
}

// Tokenize splits text into tokens using a fresh tokenizer. Concatenating
// the token texts yields text.
func Tokenize(text string) []Token {
	var tokens []Token
	s := New().Tokens(text)
	for {
		tok, ok := s.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Scanner yields the tokens of a text one by one.
type Scanner struct {
	t    *Tokenizer
	text string
	pos  int

	// a match found behind an unparsed gap, waiting to be emitted
	pending   bool
	pendKind  Kind
	pendStart int
	pendEnd   int
}

// Next returns the next token, or false at the end of the text.
func (s *Scanner) Next() (Token, bool) {
	if s.pending {
		s.pending = false
		return s.emit(s.pendKind, s.pendStart, s.pendEnd), true
	}
	if s.pos >= len(s.text) {
		return Token{}, false
	}
	kind, start, end, ok := lexicons[s.t.Mode()].find(s.text[s.pos:])
	if !ok {
		tok := Token{Kind: Unparsed, Text: s.text[s.pos:], Offset: s.pos}
		s.pos = len(s.text)
		return tok, true
	}
	start += s.pos
	end += s.pos
	if start > s.pos {
		tok := Token{Kind: Unparsed, Text: s.text[s.pos:start], Offset: s.pos}
		s.pos = start
		s.pending, s.pendKind, s.pendStart, s.pendEnd = true, kind, start, end
		return tok, true
	}
	return s.emit(kind, start, end), true
}

// Tokenizer returns the tokenizer driving s.
func (s *Scanner) Tokenizer() *Tokenizer { return s.t }

func (s *Scanner) emit(kind Kind, start, end int) Token {
	t := s.t
	tok := Token{Kind: kind, Offset: start}

	switch kind {
	case PitchWord:
		if f := t.top(); f.mode == ModeToplevel && f.variant != figures {
			if info, n := s.readPitch(start, end); info != nil {
				tok.Kind = Pitch
				tok.Pitch = info
				end = n
			}
		}
		t.endArgument()
	case Command, String, SchemeChar, SchemeWord, MarkupWord, LyricWord:
		t.endArgument()
	case IncludeFile:
		name := unquote(s.text[start:end])
		if t.top().variant == languageName {
			tok.Kind = LanguageName
			t.SetLanguage(name)
		} else if lang := languageFromInclude(name); lang != "" {
			t.SetLanguage(lang)
		}
		t.endArgument()
	case Scheme:
		t.enter(ModeScheme, plain, 1)
	case SchemeLily:
		t.enter(ModeToplevel, plain, 0)
	case EndSchemeLily:
		t.leave()
	case Markup:
		t.enter(ModeMarkup, plain, 1)
	case MarkupScore:
		t.enter(ModeToplevel, plain, 1)
	case MarkupCommand:
		args := 1
		if s.text[start:end] == `\combine` {
			args = 2
		}
		t.enter(ModeMarkup, plain, args)
	case LyricMode:
		args := 1
		if s.text[start:end] == `\lyricsto` {
			args = 2
		}
		t.enter(ModeLyric, plain, args)
	case ChordMode:
		t.enter(ModeToplevel, chords, 1)
	case NoteMode:
		t.enter(ModeToplevel, notes, 1)
	case FigureMode:
		t.enter(ModeToplevel, figures, 1)
	case Section:
		t.enter(ModeSection, plain, 1)
	case Context:
		t.enter(ModeSection, context, 1)
	case Include:
		t.enter(ModeInclude, includeFile, 1)
	case Language:
		t.enter(ModeInclude, languageName, 1)
	case OpenDelimiter, OpenBracket, SchemeOpenParen:
		t.inc()
	case CloseDelimiter, CloseBracket, SchemeCloseParen:
		t.dec()
	}

	tok.Text = s.text[start:end]
	s.pos = end
	return tok
}

// readPitch tries to read the word at text[start:end] as a pitch name in
// the current language, absorbing any cautionary sign, octave marks and
// octave check that follow it.
func (s *Scanner) readPitch(start, end int) (*PitchInfo, int) {
	step := s.text[start:end]
	note, alter, ok := pitch.Read(step, s.t.language)
	if !ok {
		return nil, end
	}
	info := &PitchInfo{Step: step, Note: note, Alter: alter}
	m := pitchSuffix.FindStringSubmatchIndex(s.text[end:])
	info.Cautionary = s.text[end+m[2] : end+m[3]]
	info.Octave = s.text[end+m[4] : end+m[5]]
	if m[6] >= 0 {
		info.HasOctCheck = true
		info.OctCheck = s.text[end+m[6] : end+m[7]]
	}
	return info, end + m[1]
}

func unquote(s string) string {
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	return s
}

// languageFromInclude returns the pitch language selected by including
// e.g. "deutsch.ly", or "" if the file is not a language file.
func languageFromInclude(file string) string {
	if len(file) < 4 || file[len(file)-3:] != ".ly" {
		return ""
	}
	name := file[:len(file)-3]
	if _, ok := pitch.Lookup(name); !ok {
		return ""
	}
	return name
}
