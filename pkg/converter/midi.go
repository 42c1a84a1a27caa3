package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/text/transform"
)

// MIDIConverter renders sketches as standard MIDI files and reads them back
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
		tempo:           DefaultTempo,
	}
}

// ParseMIDIFile reads a MIDI file and extracts its steps
func (m *MIDIConverter) ParseMIDIFile(filename string) (*Sketch, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.ParseMIDI(data)
}

// ParseMIDI parses MIDI data written by GenerateMIDI. Note-ons are grouped
// into sixteenth steps; steps without a note-on are rests.
func (m *MIDIConverter) ParseMIDI(data []byte) (*Sketch, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		m.ticksPerQuarter = mt.Resolution()
	}
	ticksPerStep := int64(m.ticksPerQuarter) / 4

	sketch := &Sketch{Tempo: m.tempo}
	var lastTick int64 = -1

	for _, track := range s.Tracks {
		var currentTick int64
		for _, ev := range track {
			currentTick += int64(ev.Delta)
			msg := ev.Message

			// Tempo meta message (FF 51 03 tt tt tt)
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if microsecondsPerBeat > 0 {
					m.tempo = 60000000.0 / float64(microsecondsPerBeat)
					sketch.Tempo = m.tempo
				}
				continue
			}

			// Track name meta message (FF 03 len text)
			if len(msg) >= 3 && msg[0] == 0xFF && msg[1] == 0x03 && sketch.Name == "" {
				if n := int(msg[2]); n < 0x80 && len(msg) >= 3+n {
					sketch.Name = string(msg[3 : 3+n])
				}
				continue
			}

			// Note On: 0x9n nn vv, with velocity 0 standing for a note-off
			if len(msg) < 3 || msg[0] < 0x90 || msg[0] > 0x9F || msg[2] == 0 {
				continue
			}
			step := currentTick / ticksPerStep
			for int64(len(sketch.Steps)) <= step {
				sketch.Steps = append(sketch.Steps, Step{})
			}
			st := &sketch.Steps[step]
			st.Keys = append(st.Keys, msg[1])
			st.Velocity = msg[2]
			lastTick = currentTick
		}
	}

	if lastTick < 0 {
		return nil, errors.New("no notes found")
	}
	return sketch, nil
}

// GenerateMIDI creates MIDI data from a Sketch. Every step lasts a
// sixteenth note; the track name is encoded with enc.
func (m *MIDIConverter) GenerateMIDI(sketch *Sketch, enc transform.Transformer) ([]byte, error) {
	if sketch == nil {
		return nil, errors.New("nil sketch")
	}
	if enc == nil {
		enc = transform.Nop
	}

	tempo := sketch.Tempo
	if tempo <= 0 {
		tempo = DefaultTempo
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track

	if sketch.Name != "" {
		name, _, err := transform.Bytes(enc, []byte(sketch.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to encode track name: %w", err)
		}
		if len(name) > 0x7F {
			name = name[:0x7F]
		}
		meta := append([]byte{0xFF, 0x03, byte(len(name))}, name...)
		track.Add(0, smf.Message(meta))
	}

	microsecondsPerBeat := uint32(60000000.0 / tempo)
	tempoData := smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	})
	track.Add(0, tempoData)

	// 4/4
	timeSigData := smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08})
	track.Add(0, timeSigData)

	ticksPerStep := uint32(m.ticksPerQuarter) / 4
	noteLength := (ticksPerStep * 3) / 4
	if noteLength == 0 {
		noteLength = ticksPerStep - 1
	}

	channel := uint8(0)
	var currentTick uint32

	for i, step := range sketch.Steps {
		if step.IsRest() {
			continue
		}
		velocity := step.Velocity
		if velocity == 0 {
			velocity = 100
		}

		stepTick := uint32(i) * ticksPerStep
		delta := stepTick - currentTick
		for _, key := range step.Keys {
			track.Add(delta, midi.NoteOn(channel, key, velocity))
			delta = 0
		}
		delta = noteLength
		for _, key := range step.Keys {
			track.Add(delta, midi.NoteOff(channel, key))
			delta = 0
		}
		currentTick = stepTick + noteLength
	}

	// Pad trailing rests so the file lasts as long as the sketch
	if total := uint32(len(sketch.Steps)) * ticksPerStep; currentTick < total {
		track.Add(total-currentTick, smf.Message([]byte{0xFF, 0x06, 0x00}))
	}

	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile writes a sketch to a MIDI file
func (m *MIDIConverter) WriteMIDIFile(sketch *Sketch, enc transform.Transformer, filename string) error {
	data, err := m.GenerateMIDI(sketch, enc)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
