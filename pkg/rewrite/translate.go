package rewrite

import (
	"fmt"
	"strings"

	"github.com/james-see/lyrewrite/pkg/edit"
	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// Translate rewrites the pitch names at or after start in the target
// language. Pitches are read in the language in effect where they occur.
// Language includes (`\include "deutsch.ly"`) and `\language "deutsch"`
// commands are changed to name the target language, and includeChanged
// reports whether there was any; if not, the caller may want to add one.
// If a pitch cannot be written in the target language the error is
// returned and changes is not modified.
func Translate(text, target string, start int, changes *edit.List) (result *edit.List, includeChanged bool, err error) {
	if _, ok := pitch.Lookup(target); !ok {
		return changes, false, fmt.Errorf("unknown pitch language %q", target)
	}

	local := edit.New()
	sc := tokenize.New().Tokens(text)
	if start > 0 {
		for {
			tok, ok := sc.Next()
			if !ok || tok.End() >= start {
				break
			}
		}
	}

	for {
		tok, ok := sc.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case tokenize.IncludeFile:
			name := strings.Trim(tok.Text, `"`)
			if lang, found := strings.CutSuffix(name, ".ly"); found {
				if _, known := pitch.Lookup(lang); known {
					local.ReplaceToken(tok, `"`+target+`.ly"`)
					includeChanged = true
				}
			}
		case tokenize.LanguageName:
			if _, known := pitch.Lookup(strings.Trim(tok.Text, `"`)); known {
				local.ReplaceToken(tok, `"`+target+`"`)
				includeChanged = true
			}
		case tokenize.Pitch:
			name, werr := pitch.Write(tok.Pitch.Note, tok.Pitch.Alter, target)
			if werr != nil {
				return changes, false, werr
			}
			local.Replace(tok.Offset, tok.Offset+len(tok.Pitch.Step), name)
		}
	}

	if changes == nil {
		changes = edit.New()
	}
	changes.Extend(local)
	return changes, includeChanged, nil
}
