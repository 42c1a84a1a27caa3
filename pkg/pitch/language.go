package pitch

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLanguage is the pitch-name language LilyPond assumes.
const DefaultLanguage = "nederlands"

// Language describes the pitch names of one LilyPond input language.
type Language struct {
	Name         string
	Notes        [7]string   // names of c..b
	Alterations  [9]string   // suffix per quarter-tone alteration -4..4, "" if unavailable
	Replacements [][2]string // (full, short) spellings applied when writing
}

// QuarterToneAlterationUnavailable is returned when a pitch cannot be
// written because the language has no suffix for its alteration.
type QuarterToneAlterationUnavailable struct {
	Language string
	Alter    int
}

func (e *QuarterToneAlterationUnavailable) Error() string {
	return fmt.Sprintf("alteration %s not available in language %q",
		Pitch{Alter: e.Alter}.AlterRat().RatString(), e.Language)
}

var dutchAlterations = [9]string{"eses", "eseh", "es", "eh", "", "ih", "is", "isih", "isis"}

var languages = map[string]*Language{
	"nederlands": {
		Notes:        [7]string{"c", "d", "e", "f", "g", "a", "b"},
		Alterations:  dutchAlterations,
		Replacements: [][2]string{{"ees", "es"}, {"aes", "as"}},
	},
	"english": {
		Notes:       [7]string{"c", "d", "e", "f", "g", "a", "b"},
		Alterations: [9]string{"ff", "tqf", "f", "qf", "", "qs", "s", "tqs", "ss"},
	},
	"deutsch": {
		Notes:        [7]string{"c", "d", "e", "f", "g", "a", "h"},
		Alterations:  dutchAlterations,
		Replacements: [][2]string{{"ees", "es"}, {"aes", "as"}, {"hes", "b"}},
	},
	"svenska": {
		Notes:        [7]string{"c", "d", "e", "f", "g", "a", "h"},
		Alterations:  [9]string{"essess", "", "ess", "", "", "", "iss", "", "ississ"},
		Replacements: [][2]string{{"ees", "es"}, {"aes", "as"}, {"hess", "b"}},
	},
	"italiano": {
		Notes:       [7]string{"do", "re", "mi", "fa", "sol", "la", "si"},
		Alterations: [9]string{"bb", "bsb", "b", "sb", "", "sd", "d", "dsd", "dd"},
	},
	"espanol": {
		Notes:       [7]string{"do", "re", "mi", "fa", "sol", "la", "si"},
		Alterations: [9]string{"bb", "", "b", "", "", "", "s", "", "ss"},
	},
	"portugues": {
		Notes:       [7]string{"do", "re", "mi", "fa", "sol", "la", "si"},
		Alterations: [9]string{"bb", "btqt", "b", "bqt", "", "sqt", "s", "stqt", "ss"},
	},
	"vlaams": {
		Notes:       [7]string{"do", "re", "mi", "fa", "sol", "la", "si"},
		Alterations: [9]string{"bb", "", "b", "", "", "", "k", "", "kk"},
	},
}

var aliases = map[string]string{
	"norsk":   "deutsch",
	"suomi":   "deutsch",
	"catalan": "italiano",
}

func init() {
	for name, l := range languages {
		l.Name = name
	}
	for alias, target := range aliases {
		l := *languages[target]
		l.Name = alias
		languages[alias] = &l
	}
}

// Lookup returns the language with the given name.
func Lookup(name string) (*Language, bool) {
	l, ok := languages[name]
	return l, ok
}

// Languages returns the sorted names of all known languages.
func Languages() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write returns the name of the pitch (note, alter) in the given language.
func Write(note, alter int, language string) (string, error) {
	l, ok := languages[language]
	if !ok {
		return "", fmt.Errorf("unknown pitch language %q", language)
	}
	return l.Write(note, alter)
}

// Read parses a pitch name such as "fis" or "bes" in the given language.
func Read(text, language string) (note, alter int, ok bool) {
	l, found := languages[language]
	if !found {
		return 0, 0, false
	}
	return l.Read(text)
}

// Write returns the name of the pitch (note, alter).
func (l *Language) Write(note, alter int) (string, error) {
	name := l.Notes[note]
	if alter != 0 {
		if alter < -4 || alter > 4 || l.Alterations[alter+4] == "" {
			return "", &QuarterToneAlterationUnavailable{Language: l.Name, Alter: alter}
		}
		name += l.Alterations[alter+4]
	}
	for _, r := range l.Replacements {
		if strings.HasPrefix(name, r[0]) {
			name = r[1] + name[len(r[0]):]
			break
		}
	}
	return name, nil
}

// Read parses a pitch name. It also accepts the long English forms with
// "sharp" and "flat".
func (l *Language) Read(text string) (note, alter int, ok bool) {
	for _, r := range l.Replacements {
		if strings.HasPrefix(text, r[1]) {
			text = r[0] + text[len(r[1]):]
		}
	}
	if note, alter, ok = l.match(text); ok {
		return note, alter, true
	}
	folded := strings.ReplaceAll(strings.ReplaceAll(text, "flat", "f"), "sharp", "s")
	if folded == text {
		return 0, 0, false
	}
	return l.match(folded)
}

func (l *Language) match(text string) (int, int, bool) {
	for note, name := range l.Notes {
		if !strings.HasPrefix(text, name) {
			continue
		}
		suffix := text[len(name):]
		if suffix == "" {
			return note, 0, true
		}
		for i, acc := range l.Alterations {
			if acc != "" && acc == suffix {
				return note, i - 4, true
			}
		}
	}
	return 0, 0, false
}
