package converter

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"test.mid", FormatMIDI},
		{"test.midi", FormatMIDI},
		{"test.ly", FormatLilyPond},
		{"test.ily", FormatLilyPond},
		{"TEST.LY", FormatLilyPond},
		{"test.txt", FormatUnknown},
		{"test", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"MIDI file", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"LilyPond text", []byte(`\version "2.24.0"`), FormatLilyPond},
		{"Empty", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectFormatFromContent(tt.data)
			if result != tt.expected {
				t.Errorf("DetectFormatFromContent() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestConverterSetPass(t *testing.T) {
	conv := New(RelativeToAbsolute{})
	if conv == nil {
		t.Fatal("New() returned nil")
	}
	if conv.GetPass().Name() != PassRelToAbs {
		t.Errorf("GetPass() = %q, want %q", conv.GetPass().Name(), PassRelToAbs)
	}

	conv.SetPass(AbsoluteToRelative{})
	if conv.GetPass().Name() != PassAbsToRel {
		t.Errorf("GetPass() after SetPass = %q, want %q", conv.GetPass().Name(), PassAbsToRel)
	}
}

func TestNewPass(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{PassRelToAbs, Options{}, false},
		{PassAbsToRel, Options{}, false},
		{PassTranspose, Options{From: "c", To: "d"}, false},
		{PassTranspose, Options{From: "c"}, true},
		{PassTranslate, Options{Language: "english"}, false},
		{PassTranslate, Options{Language: "klingon"}, true},
		{"retrograde", Options{}, true},
	}

	for _, tt := range tests {
		pass, err := NewPass(tt.name, tt.opts)
		if tt.wantErr {
			if !errors.Is(err, ErrBadArgument) {
				t.Errorf("NewPass(%q, %+v) error = %v, want ErrBadArgument", tt.name, tt.opts, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewPass(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if pass.Name() != tt.name {
			t.Errorf("NewPass(%q).Name() = %q", tt.name, pass.Name())
		}
	}
}

func TestGetSupportedPasses(t *testing.T) {
	passes := GetSupportedPasses()
	expected := []string{"rel2abs", "abs2rel", "transpose", "translate"}
	if !reflect.DeepEqual(passes, expected) {
		t.Errorf("GetSupportedPasses() = %v, want %v", passes, expected)
	}
	for _, name := range passes {
		if _, err := NewPass(name, Options{From: "c", To: "d", Language: "english"}); err != nil {
			t.Errorf("NewPass(%q) failed: %v", name, err)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		pass Pass
		in   string
		want string
	}{
		{"rel2abs", RelativeToAbsolute{}, `\relative c' { c d e }`, `{ c' d' e' }`},
		{"abs2rel", AbsoluteToRelative{}, `{ c' d' e' }`, `\relative c' { c d e }`},
		{"transpose", Transpose{From: "c", To: "d"}, `{ c' e' }`, `{ d' fis' }`},
		{"transpose in document language", Transpose{From: "c", To: "ef"}, `\language "english" { c d }`, `\language "english" { ef f }`},
		{"translate", Translate{Language: "english"}, `\language "nederlands" { fis }`, `\language "english" { fs }`},
		{"translate adds language", Translate{Language: "english", AddLanguage: true}, `{ fis }`, "\\language \"english\"\n{ fs }"},
		{"translate without language", Translate{Language: "english"}, `{ fis }`, `{ fs }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(tt.pass).Convert(tt.in)
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}
			if res.Text != tt.want {
				t.Errorf("Convert() = %q, want %q", res.Text, tt.want)
			}
			if res.Pass != tt.pass.Name() {
				t.Errorf("Result.Pass = %q, want %q", res.Pass, tt.pass.Name())
			}
		})
	}
}

func TestConvertErrors(t *testing.T) {
	if _, err := New(nil).Convert("{ c }"); err == nil {
		t.Error("Convert() without a pass should fail")
	}

	conv := New(RelativeToAbsolute{})
	conv.SetStart(10)
	if _, err := conv.Convert("{ c }"); !errors.Is(err, ErrBadArgument) {
		t.Errorf("Convert() with start beyond text error = %v, want ErrBadArgument", err)
	}

	if _, err := New(Transpose{From: "x", To: "d"}).Convert("{ c }"); !errors.Is(err, ErrBadArgument) {
		t.Errorf("Convert() with bad pitch error = %v, want ErrBadArgument", err)
	}

	if _, err := New(AbsoluteToRelative{}).Convert(`\header { title = "x" }`); err == nil {
		t.Error("abs2rel without music should fail")
	}
}

func TestConvertStart(t *testing.T) {
	text := `\relative c' { c } \relative c' { d }`
	conv := New(RelativeToAbsolute{})
	conv.SetStart(19)
	res, err := conv.Convert(text)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	want := `\relative c' { c } { d' }`
	if res.Text != want {
		t.Errorf("Convert() = %q, want %q", res.Text, want)
	}
	if len(res.Edits) == 0 {
		t.Error("Result.Edits should not be empty")
	}
}

func TestEncoding(t *testing.T) {
	enc, err := ParseEncoding("ISO-8859-1")
	if err != nil {
		t.Fatalf("ParseEncoding() error: %v", err)
	}
	if enc != Latin1 {
		t.Errorf("ParseEncoding() = %q, want %q", enc, Latin1)
	}
	if _, err := ParseEncoding("ebcdic"); !errors.Is(err, ErrBadArgument) {
		t.Errorf("ParseEncoding(ebcdic) error = %v, want ErrBadArgument", err)
	}

	data, err := Latin1.Encode("Étude")
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if string(data) != "\xc9tude" {
		t.Errorf("Encode() = %q, want %q", data, "\xc9tude")
	}
	text, err := Latin1.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if text != "Étude" {
		t.Errorf("Decode() = %q, want %q", text, "Étude")
	}

	if _, err := UTF8.Decode([]byte{0xff}); err == nil {
		t.Error("UTF8.Decode() of invalid input should fail")
	}
	if _, err := Latin1.Encode("日本"); err == nil {
		t.Error("Latin1.Encode() of unrepresentable text should fail")
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.ly")
	if err := os.WriteFile(in, []byte("\\header { title = \"\xc9tude\" }\n\\relative c' { c d }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	conv := New(RelativeToAbsolute{})
	conv.SetEncoding(Latin1)
	out := OutputPath(in, PassRelToAbs)
	if err := conv.ConvertFile(in, out); err != nil {
		t.Fatalf("ConvertFile() error: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "\\header { title = \"\xc9tude\" }\n{ c' d' }\n"
	if string(got) != want {
		t.Errorf("ConvertFile() wrote %q, want %q", got, want)
	}

	midiOut := filepath.Join(dir, "song.mid")
	sketcher := New(nil)
	sketcher.SetEncoding(Latin1)
	if err := sketcher.ConvertFile(in, midiOut); err != nil {
		t.Fatalf("ConvertFile() to MIDI error: %v", err)
	}
	sketch, err := NewMIDIConverter().ParseMIDIFile(midiOut)
	if err != nil {
		t.Fatalf("ParseMIDIFile() error: %v", err)
	}
	if len(sketch.Steps) != 2 || sketch.Steps[0].Keys[0] != 60 || sketch.Steps[1].Keys[0] != 62 {
		t.Errorf("MIDI steps = %+v, want c' d'", sketch.Steps)
	}
	if sketch.Name != "\xc9tude" {
		t.Errorf("MIDI track name = %q, want Latin-1 %q", sketch.Name, "\xc9tude")
	}

	if err := sketcher.ConvertFile(in, filepath.Join(dir, "out.ly")); err == nil {
		t.Error("ConvertFile() to LilyPond without a pass should fail")
	}
	if err := conv.ConvertFile(filepath.Join(dir, "missing.ly"), out); err == nil {
		t.Error("ConvertFile() of a missing file should fail")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, pass, want string
	}{
		{"song.ly", "rel2abs", "song.rel2abs.ly"},
		{"dir/part.ily", "transpose", "dir/part.transpose.ily"},
		{"song", "translate", "song.translate.ly"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.pass); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.in, tt.pass, got, tt.want)
		}
	}
}
