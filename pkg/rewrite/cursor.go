// Package rewrite implements the pitch-rewriting passes over LilyPond
// source: relative to absolute, absolute to relative, transposition and
// pitch-name translation. Every pass reads the text once through the
// tokenizer and records its changes in an edit list.
package rewrite

import (
	"errors"
	"iter"

	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// ErrNoExpressionFound is returned by AbsoluteToRelative when the text
// (or the selected part of it) holds no music expression.
var ErrNoExpressionFound = errors.New("no music expression found")

// cursor walks the significant tokens of a text. Whitespace and comments
// are skipped, and every token is first offered to hook, which may consume
// a whole construct (a nested \relative block, say) and report it handled.
type cursor struct {
	tz   *tokenize.Tokenizer
	sc   *tokenize.Scanner
	hook func(tokenize.Token) bool

	start       int
	inSelection bool

	err error
}

func newCursor(text string, start int) *cursor {
	tz := tokenize.New()
	return &cursor{
		tz:          tz,
		sc:          tz.Tokens(text),
		start:       start,
		inSelection: start <= 0,
	}
}

// raw returns the next token that is not whitespace or a comment. It
// reports false at the end of the text or once the walk has failed.
func (c *cursor) raw() (tokenize.Token, bool) {
	for c.err == nil {
		tok, ok := c.sc.Next()
		if !ok {
			return tok, false
		}
		if tok.Kind == tokenize.Space || tok.Kind == tokenize.Comment {
			continue
		}
		if !c.inSelection && tok.Offset >= c.start {
			c.inSelection = true
		}
		return tok, true
	}
	return tokenize.Token{}, false
}

// next returns the next token not handled by the hook.
func (c *cursor) next() (tokenize.Token, bool) {
	for {
		tok, ok := c.raw()
		if !ok {
			return tok, false
		}
		if c.hook != nil && c.hook(tok) {
			continue
		}
		return tok, true
	}
}

// skip discards n tokens.
func (c *cursor) skip(n int) {
	for ; n > 0; n-- {
		if _, ok := c.next(); !ok {
			return
		}
	}
}

// skipToStart walks the tokens that end before the selection, keeping the
// tokenizer state but producing nothing. The token reaching the selection
// start is consumed too.
func (c *cursor) skipToStart() {
	if c.start <= 0 {
		return
	}
	for {
		tok, ok := c.sc.Next()
		if !ok || tok.End() >= c.start {
			c.inSelection = true
			return
		}
	}
}

// all yields every remaining token.
func (c *cursor) all() iter.Seq[tokenize.Token] {
	return func(yield func(tokenize.Token) bool) {
		for {
			tok, ok := c.next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// consume yields tokens until the tokenizer depth drops below the depth at
// the time of the call, i.e. until the current construct is closed.
func (c *cursor) consume() iter.Seq[tokenize.Token] {
	return func(yield func(tokenize.Token) bool) {
		depth := c.tz.Depth()
		for {
			tok, ok := c.next()
			if !ok || !yield(tok) {
				return
			}
			if c.tz.Depth().Less(depth) {
				return
			}
		}
	}
}

// drain consumes the current construct without looking at it.
func (c *cursor) drain() {
	for range c.consume() {
	}
}

// eatContextPrefix skips `\new Type`, `\context Type = "name"` and music
// mode switches in front of a music expression and returns the first token
// after them. modes lists the mode kinds to skip.
func (c *cursor) eatContextPrefix(tok tokenize.Token, modes ...tokenize.Kind) (tokenize.Token, bool) {
	ok := true
	for ok {
		switch {
		case tok.IsCommand(`\new`) || tok.IsCommand(`\context`):
			c.skip(1)
			if tok, ok = c.next(); ok && tok.Text == "=" {
				c.skip(1)
				tok, ok = c.next()
			}
		case isKind(tok, modes...):
			tok, ok = c.next()
		default:
			return tok, true
		}
	}
	return tok, false
}

func (c *cursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func isKind(tok tokenize.Token, kinds ...tokenize.Kind) bool {
	for _, k := range kinds {
		if tok.Kind == k {
			return true
		}
	}
	return false
}

// withOctave writes the pitch token with its octave marks replaced,
// keeping the step and cautionary sign as written. Any octave check is
// dropped.
func withOctave(tok tokenize.Token, octave int) string {
	return tok.Pitch.Step + tok.Pitch.Cautionary + pitch.NumToOctave(octave)
}
