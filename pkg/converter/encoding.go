package converter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding is the character encoding of a LilyPond file
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Latin1      Encoding = "latin1"
	Windows1252 Encoding = "windows-1252"
)

// ParseEncoding returns the encoding with the given name
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return Latin1, nil
	case "windows-1252", "cp1252":
		return Windows1252, nil
	default:
		return "", fmt.Errorf("%w: unknown encoding %q", ErrBadArgument, name)
	}
}

// GetSupportedEncodings returns the names of all encodings
func GetSupportedEncodings() []string {
	return []string{string(UTF8), string(Latin1), string(Windows1252)}
}

func (e Encoding) charmap() *charmap.Charmap {
	switch e {
	case Latin1:
		return charmap.ISO8859_1
	case Windows1252:
		return charmap.Windows1252
	}
	return nil
}

// Decode converts file contents to text. UTF-8 input is passed through
// byte for byte.
func (e Encoding) Decode(data []byte) (string, error) {
	cm := e.charmap()
	if cm == nil {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid UTF-8")
		}
		return string(data), nil
	}
	out, _, err := transform.Bytes(cm.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encode converts text to file contents
func (e Encoding) Encode(text string) ([]byte, error) {
	cm := e.charmap()
	if cm == nil {
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(cm.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("text not representable in %s: %w", e, err)
	}
	return out, nil
}

// Transformer returns the transformer that encodes MIDI meta text
func (e Encoding) Transformer() transform.Transformer {
	if cm := e.charmap(); cm != nil {
		return cm.NewEncoder()
	}
	return transform.Nop
}
