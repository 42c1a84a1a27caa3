package converter

import (
	"errors"
	"fmt"

	"github.com/james-see/lyrewrite/pkg/edit"
	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/rewrite"
)

// ErrBadArgument marks errors caused by invalid pass options rather than
// by the document
var ErrBadArgument = errors.New("bad argument")

// Pass names
const (
	PassRelToAbs  = "rel2abs"
	PassAbsToRel  = "abs2rel"
	PassTranspose = "transpose"
	PassTranslate = "translate"
)

// Options configures the passes that take arguments
type Options struct {
	From        string // transpose from this pitch
	To          string // transpose to this pitch
	Language    string // translate to this pitch language
	AddLanguage bool   // translate: add \language when the document has none
}

// RelativeToAbsolute converts \relative music to absolute pitches
type RelativeToAbsolute struct{}

// Name returns the pass name
func (RelativeToAbsolute) Name() string { return PassRelToAbs }

// Description returns a short description
func (RelativeToAbsolute) Description() string {
	return "Convert \\relative music to absolute pitches"
}

// Apply runs the pass
func (RelativeToAbsolute) Apply(text string, start int, changes *edit.List) (*edit.List, error) {
	return rewrite.RelativeToAbsolute(text, start, changes), nil
}

// AbsoluteToRelative converts music expressions to \relative music
type AbsoluteToRelative struct{}

// Name returns the pass name
func (AbsoluteToRelative) Name() string { return PassAbsToRel }

// Description returns a short description
func (AbsoluteToRelative) Description() string {
	return "Convert absolute music expressions to \\relative music"
}

// Apply runs the pass
func (AbsoluteToRelative) Apply(text string, start int, changes *edit.List) (*edit.List, error) {
	return rewrite.AbsoluteToRelative(text, start, changes)
}

// Transpose transposes music by the interval between two pitches, which are
// read in the pitch language of the document
type Transpose struct {
	From, To string
}

// Name returns the pass name
func (Transpose) Name() string { return PassTranspose }

// Description returns a short description
func (t Transpose) Description() string {
	if t.From == "" {
		return "Transpose music by an interval"
	}
	return fmt.Sprintf("Transpose music from %s to %s", t.From, t.To)
}

// Transposer builds the transposer for a document in the given language
func (t Transpose) Transposer(language string) (pitch.Transposer, error) {
	from, err := pitch.Parse(t.From, language)
	if err != nil {
		return nil, fmt.Errorf("%w: transpose from: %v", ErrBadArgument, err)
	}
	to, err := pitch.Parse(t.To, language)
	if err != nil {
		return nil, fmt.Errorf("%w: transpose to: %v", ErrBadArgument, err)
	}
	return pitch.NewInterval(from, to), nil
}

// Apply runs the pass
func (t Transpose) Apply(text string, start int, changes *edit.List) (*edit.List, error) {
	language, _ := rewrite.LanguageAndKey(text)
	tr, err := t.Transposer(language)
	if err != nil {
		return changes, err
	}
	return rewrite.Transpose(text, tr, start, changes)
}

// Translate rewrites pitch names in another language
type Translate struct {
	Language    string
	AddLanguage bool
}

// Name returns the pass name
func (Translate) Name() string { return PassTranslate }

// Description returns a short description
func (t Translate) Description() string {
	if t.Language == "" {
		return "Translate pitch names to another language"
	}
	return "Translate pitch names to " + t.Language
}

// Apply runs the pass
func (t Translate) Apply(text string, start int, changes *edit.List) (*edit.List, error) {
	changes, _, err := t.ApplyReport(text, start, changes)
	return changes, err
}

// ApplyReport runs the pass and also reports whether a language include or
// \language command was rewritten
func (t Translate) ApplyReport(text string, start int, changes *edit.List) (*edit.List, bool, error) {
	if _, ok := pitch.Lookup(t.Language); !ok {
		return changes, false, fmt.Errorf("%w: unknown pitch language %q", ErrBadArgument, t.Language)
	}
	local, includeChanged, err := rewrite.Translate(text, t.Language, start, nil)
	if err != nil {
		return changes, false, err
	}
	if !includeChanged && t.AddLanguage && t.Language != pitch.DefaultLanguage {
		local.Insert(0, fmt.Sprintf("\\language %q\n", t.Language))
	}
	if changes == nil {
		changes = edit.New()
	}
	changes.Extend(local)
	return changes, includeChanged, nil
}

// NewPass creates the pass with the given name
func NewPass(name string, opts Options) (Pass, error) {
	switch name {
	case PassRelToAbs:
		return RelativeToAbsolute{}, nil
	case PassAbsToRel:
		return AbsoluteToRelative{}, nil
	case PassTranspose:
		if opts.From == "" || opts.To == "" {
			return nil, fmt.Errorf("%w: transpose needs a from and a to pitch", ErrBadArgument)
		}
		return Transpose{From: opts.From, To: opts.To}, nil
	case PassTranslate:
		if _, ok := pitch.Lookup(opts.Language); !ok {
			return nil, fmt.Errorf("%w: unknown pitch language %q", ErrBadArgument, opts.Language)
		}
		return Translate{Language: opts.Language, AddLanguage: opts.AddLanguage}, nil
	default:
		return nil, fmt.Errorf("%w: unknown pass %q", ErrBadArgument, name)
	}
}

// GetSupportedPasses returns the names of all passes
func GetSupportedPasses() []string {
	return []string{
		PassRelToAbs,
		PassAbsToRel,
		PassTranspose,
		PassTranslate,
	}
}
