package tokenize

import (
	"fmt"
	"regexp"
	"strings"
)

type rule struct {
	kind Kind
	rx   string
}

// lexicon is the compiled alternation of the rules one parser mode knows.
type lexicon struct {
	re     *regexp.Regexp
	kinds  []Kind
	groups []int
}

func newLexicon(rules ...rule) *lexicon {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = fmt.Sprintf("(?P<r%d>%s)", i, r.rx)
	}
	re := regexp.MustCompile("(?s)" + strings.Join(parts, "|"))
	lx := &lexicon{re: re}
	for i, r := range rules {
		lx.kinds = append(lx.kinds, r.kind)
		lx.groups = append(lx.groups, re.SubexpIndex(fmt.Sprintf("r%d", i)))
	}
	return lx
}

// find returns the kind and bounds of the leftmost token in text.
func (lx *lexicon) find(text string) (kind Kind, start, end int, ok bool) {
	m := lx.re.FindStringSubmatchIndex(text)
	if m == nil {
		return 0, 0, 0, false
	}
	for i, g := range lx.groups {
		if m[2*g] >= 0 {
			return lx.kinds[i], m[0], m[1], true
		}
	}
	return 0, 0, 0, false
}

var (
	ruleComment          = rule{Comment, `%\{.*?%\}|%[^\n]*`}
	ruleString           = rule{String, `"(?:\\[\\"]|[^"])*"`}
	ruleIncompleteString = rule{String, `"(?:\\[\\"]|[^"])*$`}
	ruleSchemeLily       = rule{SchemeLily, `#\{`}
	ruleEndSchemeLily    = rule{EndSchemeLily, `#\}`}
	ruleScheme           = rule{Scheme, `#`}
	ruleSection          = rule{Section, `\\(?:with|layout|midi|paper|header)\b`}
	ruleLyricMode        = rule{LyricMode, `\\(?:lyricmode|(?:(?:old)?add)?lyrics|lyricsto)\b`}
	ruleChordMode        = rule{ChordMode, `\\(?:chords|chordmode)\b`}
	ruleFigureMode       = rule{FigureMode, `\\(?:figures|figuremode)\b`}
	ruleNoteMode         = rule{NoteMode, `\\(?:notes|notemode)\b`}
	ruleMarkup           = rule{Markup, `\\markup(?:lines)?\b`}
	ruleInclude          = rule{Include, `\\include\b`}
	ruleLanguage         = rule{Language, `\\language\b`}
	ruleCommand          = rule{Command, `\\[A-Za-z]+(?:-[A-Za-z]+)*`}
	ruleSpace            = rule{Space, `\s+`}
	ruleOpenBracket      = rule{OpenBracket, `\{`}
	ruleCloseBracket     = rule{CloseBracket, `\}`}
)

// rules available in every LilyPond (non-Scheme) mode
var baseRules = []rule{
	ruleComment,
	ruleString,
	ruleIncompleteString,
	ruleSchemeLily,
	ruleEndSchemeLily,
	ruleScheme,
	ruleSection,
	ruleLyricMode,
	ruleChordMode,
	ruleFigureMode,
	ruleNoteMode,
	ruleMarkup,
	ruleInclude,
	ruleLanguage,
	ruleCommand,
	ruleSpace,
}

func with(rules []rule, more ...rule) []rule {
	return append(append([]rule{}, rules...), more...)
}

var lexicons = map[Mode]*lexicon{
	ModeToplevel: newLexicon(with([]rule{
		{OpenDelimiter, `<<|\{`},
		{CloseDelimiter, `>>|\}`},
		{VoiceSeparator, `\\\\`},
		{Dynamic, `\\[<>!]`},
		{Articulation, `[-_^][_.>|+^-]`},
		{OpenChord, `<`},
		{CloseChord, `>`},
		{PitchWord, `[A-Za-z]+`},
		{Digit, `\d+`},
	}, baseRules...)...),

	ModeScheme: newLexicon(
		ruleString,
		ruleIncompleteString,
		rule{SchemeChar, `#\\(?:[a-z]+|.)`},
		rule{SchemeComment, `;[^\n]*|#!.*?!#`},
		rule{SchemeOpenParen, "(?:'|`|,@?|#)?\\("},
		rule{SchemeCloseParen, `\)`},
		ruleSchemeLily,
		rule{SchemeWord, `[^()"{}\s]+`},
		ruleSpace,
	),

	ModeMarkup: newLexicon(
		rule{MarkupScore, `\\score\b`},
		rule{MarkupCommand, `\\[A-Za-z]+(?:-[A-Za-z]+)*`},
		ruleOpenBracket,
		ruleCloseBracket,
		ruleComment,
		ruleString,
		ruleIncompleteString,
		ruleSchemeLily,
		ruleEndSchemeLily,
		ruleScheme,
		ruleSpace,
		rule{MarkupWord, `[^{}"\\\s]+`},
	),

	ModeLyric: newLexicon(with([]rule{
		ruleOpenBracket,
		ruleCloseBracket,
		{LyricWord, `[\pL\pM_]+`},
	}, baseRules...)...),

	ModeSection: newLexicon(with([]rule{
		ruleOpenBracket,
		ruleCloseBracket,
		{Context, `\\context\b`},
	}, baseRules...)...),

	ModeInclude: newLexicon(with([]rule{
		{IncludeFile, ruleString.rx},
	}, baseRules...)...),
}

// suffix a pitch name may carry: cautionary, octave marks, octave check
var pitchSuffix = regexp.MustCompile(`^([?!]?)([',]*)(?:=([',]*))?`)
