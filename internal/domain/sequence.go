package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

var ErrInvalidTempo = errors.New("tempo must be between 20 and 300 BPM")

// Tempo bounds in beats per minute.
const (
	MinTempo     = 20
	MaxTempo     = 300
	DefaultTempo = 120
)

// ScaleInfo names the tonal context a sequence or pattern was generated
// in: a key (pitch class, no octave) and a scale type.
type ScaleInfo struct {
	Key       string           `json:"key"`
	ScaleType theory.ScaleType `json:"scale_type"`
}

// RootPitch resolves the key at octave 4.
func (s ScaleInfo) RootPitch() (theory.Pitch, error) {
	pitch, err := theory.ParsePitch(fmt.Sprintf("%s4", s.Key))
	if err != nil {
		return theory.Pitch{}, fmt.Errorf("%w: %q", ErrInvalidKey, s.Key)
	}
	return pitch, nil
}

// Validate checks key and scale type.
func (s ScaleInfo) Validate() error {
	if _, err := s.RootPitch(); err != nil {
		return err
	}
	if !s.ScaleType.Valid() {
		return fmt.Errorf("%w: %q", theory.ErrInvalidScaleType, string(s.ScaleType))
	}
	return nil
}

// Contains reports whether a note's pitch class belongs to the scale.
func (s ScaleInfo) Contains(note Note) (bool, error) {
	root, err := s.RootPitch()
	if err != nil {
		return false, err
	}
	pitches, err := s.ScaleType.ScaleNotes(root)
	if err != nil {
		return false, err
	}
	for _, p := range pitches {
		midi, err := p.MIDI()
		if err != nil {
			continue
		}
		if midi%12 == note.MIDINumber%12 {
			return true, nil
		}
	}
	return false, nil
}

// NoteSequence is a flat, playable run of notes: the output format of
// the generators and the import/export payload.
type NoteSequence struct {
	ID                string               `json:"id,omitempty"`
	Name              string               `json:"name"`
	Notes             []Note               `json:"notes"`
	Duration          float64              `json:"duration"`
	Tempo             int                  `json:"tempo"`
	TimeSignature     theory.TimeSignature `json:"time_signature"`
	Metadata          map[string]any       `json:"metadata,omitempty"`
	ScaleInfo         *ScaleInfo           `json:"scale_info,omitempty"`
	ProgressionName   string               `json:"progression_name,omitempty"`
	NotePatternName   string               `json:"note_pattern_name,omitempty"`
	RhythmPatternName string               `json:"rhythm_pattern_name,omitempty"`
}

// UnmarshalJSON decodes over the sequence defaults (4 beats, 120 BPM,
// 4/4).
func (s *NoteSequence) UnmarshalJSON(data []byte) error {
	type alias NoteSequence
	tmp := alias{
		Duration:      4.0,
		Tempo:         DefaultTempo,
		TimeSignature: theory.TimeSignature{Numerator: 4, Denominator: 4},
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*s = NoteSequence(tmp)
	return nil
}

// NewNoteSequence builds a sequence with the documented defaults (4 beats,
// 120 BPM, 4/4) and its declared duration set to the notes' total.
func NewNoteSequence(name string, notes []Note) (NoteSequence, error) {
	s := NoteSequence{
		Name:          name,
		Notes:         notes,
		Duration:      4.0,
		Tempo:         DefaultTempo,
		TimeSignature: theory.TimeSignature{Numerator: 4, Denominator: 4},
	}
	if total := s.TotalDuration(); total > 0 {
		s.Duration = total
	}
	if err := s.Validate(); err != nil {
		return NoteSequence{}, err
	}
	return s, nil
}

// Validate runs the construction rules. Duration consistency with the
// note total is a pipeline concern, not a construction failure.
func (s NoteSequence) Validate() error {
	if s.Tempo < MinTempo || s.Tempo > MaxTempo {
		return fmt.Errorf("%w: %d", ErrInvalidTempo, s.Tempo)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, s.Duration)
	}
	if _, err := theory.NewTimeSignature(s.TimeSignature.Numerator, s.TimeSignature.Denominator); err != nil {
		return err
	}
	if s.ScaleInfo != nil {
		if err := s.ScaleInfo.Validate(); err != nil {
			return err
		}
	}
	for i, note := range s.Notes {
		if err := note.Validate(); err != nil {
			return fmt.Errorf("notes[%d]: %w", i, err)
		}
	}
	return nil
}

// TotalDuration sums the notes' durations.
func (s NoteSequence) TotalDuration() float64 {
	total := 0.0
	for _, note := range s.Notes {
		total += note.Duration
	}
	return total
}

// EndPosition is the latest note offset plus its duration.
func (s NoteSequence) EndPosition() float64 {
	end := 0.0
	for _, note := range s.Notes {
		if stop := note.Position + note.Duration; stop > end {
			end = stop
		}
	}
	return end
}

// Transpose returns a new sequence with every note shifted, keeping
// timing, tempo and metadata.
func (s NoteSequence) Transpose(semitones int) (NoteSequence, error) {
	out := s
	out.Notes = make([]Note, len(s.Notes))
	for i, note := range s.Notes {
		moved, err := note.Transpose(semitones)
		if err != nil {
			return NoteSequence{}, err
		}
		out.Notes[i] = moved
	}
	return out, nil
}
