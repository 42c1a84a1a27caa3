package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/lyrewrite/pkg/edit"
)

// Format represents a file format
type Format string

const (
	FormatLilyPond Format = "lilypond"
	FormatMIDI     Format = "midi"
	FormatUnknown  Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".ly", ".ily", ".lyi":
		return FormatLilyPond
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}
	if len(data) == 0 {
		return FormatUnknown
	}
	// Anything else is taken to be LilyPond text
	return FormatLilyPond
}

// Convert applies the pass to text
func (c *Converter) Convert(text string) (*Result, error) {
	if c.pass == nil {
		return nil, errors.New("no pass configured")
	}
	if c.start < 0 || c.start > len(text) {
		return nil, fmt.Errorf("%w: start offset %d outside text of %d bytes", ErrBadArgument, c.start, len(text))
	}

	changes, err := c.pass.Apply(text, c.start, edit.New())
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", c.pass.Name(), err)
	}
	return &Result{
		Text:  changes.Apply(text),
		Edits: changes.Entries(),
		Pass:  c.pass.Name(),
	}, nil
}

// ConvertFile converts a LilyPond file, writing the result to outputPath
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}
	if inputFormat != FormatLilyPond {
		return fmt.Errorf("unsupported input format: %s", inputFormat)
	}

	text, err := c.encoding.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode input file: %w", err)
	}

	outputFormat := DetectFormat(outputPath)
	if c.pass == nil && outputFormat != FormatMIDI {
		return errors.New("no pass configured")
	}

	// A MIDI output renders the converted text, or the input as is when
	// there is no pass
	if c.pass != nil {
		res, err := c.Convert(text)
		if err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
		text = res.Text
	}

	var outputData []byte
	if outputFormat == FormatMIDI {
		outputData, err = c.SketchMIDI(text)
	} else {
		outputData, err = c.encoding.Encode(text)
	}
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// SketchMIDI resolves relative music in text and renders its pitches as a
// MIDI file, one sixteenth step per note or chord
func (c *Converter) SketchMIDI(text string) ([]byte, error) {
	sketch := BuildSketch(text)
	if len(sketch.Steps) == 0 {
		return nil, errors.New("no pitches found")
	}
	return NewMIDIConverter().GenerateMIDI(sketch, c.encoding.Transformer())
}

// OutputPath returns the default output file for a pass: song.ly becomes
// song.rel2abs.ly
func OutputPath(inputPath, passName string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	if ext == "" {
		ext = ".ly"
	}
	return base + "." + passName + ext
}
