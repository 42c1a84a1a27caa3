// Package converter runs rewriting passes over LilyPond files
package converter

import (
	"github.com/james-see/lyrewrite/pkg/edit"
)

// Pass is a single rewriting operation over LilyPond source
type Pass interface {
	Name() string
	Description() string
	// Apply adds the pass's edits for text, from offset start on, to changes
	Apply(text string, start int, changes *edit.List) (*edit.List, error)
}

// Result holds the result of a conversion
type Result struct {
	Text  string
	Edits []edit.Entry
	Pass  string
}

// Converter applies a pass to LilyPond documents
type Converter struct {
	pass     Pass
	encoding Encoding
	start    int
}

// New creates a new Converter with the specified pass
func New(pass Pass) *Converter {
	return &Converter{pass: pass, encoding: UTF8}
}

// GetPass returns the current pass
func (c *Converter) GetPass() Pass {
	return c.pass
}

// SetPass sets the pass for conversion
func (c *Converter) SetPass(pass Pass) {
	c.pass = pass
}

// SetEncoding sets the file encoding used by ConvertFile
func (c *Converter) SetEncoding(enc Encoding) {
	c.encoding = enc
}

// SetStart restricts the conversion to text from byte offset start on
func (c *Converter) SetStart(start int) {
	c.start = start
}
