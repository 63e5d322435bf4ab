package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

var ErrInvalidKey = errors.New("invalid key")

// ChordProgressionItem places one chord inside a progression.
type ChordProgressionItem struct {
	Chord    Chord   `json:"chord"`
	Duration float64 `json:"duration"`
	Position float64 `json:"position"`
}

// NewChordProgressionItem validates duration and position up front.
func NewChordProgressionItem(chord Chord, duration, position float64) (ChordProgressionItem, error) {
	item := ChordProgressionItem{Chord: chord, Duration: duration, Position: position}
	if err := item.Validate(); err != nil {
		return ChordProgressionItem{}, err
	}
	return item, nil
}

// Validate checks the item's chord and placement.
func (i ChordProgressionItem) Validate() error {
	if err := i.Chord.Validate(); err != nil {
		return err
	}
	if i.Duration <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, i.Duration)
	}
	if i.Position < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, i.Position)
	}
	return nil
}

// Transpose shifts the item's chord, keeping its placement.
func (i ChordProgressionItem) Transpose(semitones int) (ChordProgressionItem, error) {
	chord, err := i.Chord.Transpose(semitones)
	if err != nil {
		return ChordProgressionItem{}, err
	}
	i.Chord = chord
	return i, nil
}

// ChordProgression is an ordered, timed sequence of chords in a key.
// Name uniqueness is enforced by the storage layer, not the model.
type ChordProgression struct {
	ID            string                 `json:"id,omitempty"`
	Name          string                 `json:"name"`
	Key           string                 `json:"key"`
	ScaleType     theory.ScaleType       `json:"scale_type"`
	Items         []ChordProgressionItem `json:"items"`
	Pattern       []string               `json:"pattern,omitempty"`
	TotalDuration float64                `json:"total_duration"`
	Description   string                 `json:"description,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Complexity    float64                `json:"complexity"`
}

// UnmarshalJSON decodes over the progression defaults (key of C major,
// four beats, complexity 0.5).
func (p *ChordProgression) UnmarshalJSON(data []byte) error {
	type alias ChordProgression
	tmp := alias{
		Key:           "C",
		ScaleType:     theory.ScaleMajor,
		TotalDuration: 4.0,
		Complexity:    DefaultComplexity,
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*p = ChordProgression(tmp)
	return nil
}

// NewChordProgression builds an empty validated progression in a key.
func NewChordProgression(name, key string, scaleType theory.ScaleType) (ChordProgression, error) {
	p := ChordProgression{
		Name:          name,
		Key:           key,
		ScaleType:     scaleType,
		TotalDuration: 4.0,
		Complexity:    DefaultComplexity,
	}
	if err := p.Validate(); err != nil {
		return ChordProgression{}, err
	}
	return p, nil
}

// KeyPitch resolves the progression's key to a pitch class at octave 4.
func (p ChordProgression) KeyPitch() (theory.Pitch, error) {
	pitch, err := theory.ParsePitch(fmt.Sprintf("%s4", p.Key))
	if err != nil {
		return theory.Pitch{}, fmt.Errorf("%w: %q", ErrInvalidKey, p.Key)
	}
	return pitch, nil
}

// Validate runs the construction rules over the progression and its items.
func (p ChordProgression) Validate() error {
	if err := ValidatePatternName(p.Name); err != nil {
		return err
	}
	if _, err := p.KeyPitch(); err != nil {
		return err
	}
	if !p.ScaleType.Valid() {
		return fmt.Errorf("%w: %q", theory.ErrInvalidScaleType, string(p.ScaleType))
	}
	if p.TotalDuration < 0 {
		return fmt.Errorf("%w: total %v", ErrInvalidDuration, p.TotalDuration)
	}
	if p.Complexity < 0 || p.Complexity > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidComplexity, p.Complexity)
	}
	for i, item := range p.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

// AddChord returns a new progression with the chord appended at the
// running position (the sum of existing durations) and total_duration
// extended to cover it.
func (p ChordProgression) AddChord(chord Chord, duration float64) (ChordProgression, error) {
	position := 0.0
	for _, item := range p.Items {
		position += item.Duration
	}
	return p.AddChordAt(chord, duration, position)
}

// AddChordAt returns a new progression with the chord placed explicitly.
func (p ChordProgression) AddChordAt(chord Chord, duration, position float64) (ChordProgression, error) {
	item, err := NewChordProgressionItem(chord, duration, position)
	if err != nil {
		return ChordProgression{}, err
	}

	out := p
	out.Items = append(append([]ChordProgressionItem(nil), p.Items...), item)
	if end := position + duration; end > out.TotalDuration {
		out.TotalDuration = end
	}
	return out, nil
}

// ChordAt returns the chord sounding at a beat position, scanning
// [position, position+duration) per item.
func (p ChordProgression) ChordAt(position float64) (Chord, bool) {
	for _, item := range p.Items {
		if position >= item.Position && position < item.Position+item.Duration {
			return item.Chord, true
		}
	}
	return Chord{}, false
}

// Symbols renders the items as chord symbols, in order.
func (p ChordProgression) Symbols() []string {
	symbols := make([]string, len(p.Items))
	for i, item := range p.Items {
		symbols[i] = item.Chord.Symbol()
	}
	return symbols
}

// Transpose shifts every chord and the key itself, preserving structure.
func (p ChordProgression) Transpose(semitones int) (ChordProgression, error) {
	keyPitch, err := p.KeyPitch()
	if err != nil {
		return ChordProgression{}, err
	}
	newKey, err := keyPitch.Transpose(semitones)
	if err != nil {
		return ChordProgression{}, err
	}

	out := p
	out.Key = newKey.Letter + string(newKey.Accidental)
	out.Items = make([]ChordProgressionItem, len(p.Items))
	for i, item := range p.Items {
		moved, err := item.Transpose(semitones)
		if err != nil {
			return ChordProgression{}, err
		}
		out.Items[i] = moved
	}
	return out, nil
}
