package rewrite

import (
	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// LanguageAndKey returns the pitch language in effect at the end of text
// and the pitch of its last \key signature, in the octave of middle C.
// Without a \key the key pitch is c'.
func LanguageAndKey(text string) (string, pitch.Pitch) {
	tz := tokenize.New()
	sc := tz.Tokens(text)
	key := pitch.C1()

	for {
		tok, ok := sc.Next()
		if !ok {
			break
		}
		if !tok.IsCommand(`\key`) {
			continue
		}
		for ok && (tok.Kind == tokenize.Space || tok.Kind == tokenize.Comment || tok.IsCommand(`\key`)) {
			tok, ok = sc.Next()
		}
		if p, isPitch := tok.ToPitch(); ok && isPitch {
			key = p
			key.Octave = 0
			key.HasOctaveCheck = false
		}
	}
	return tz.Language(), key
}
