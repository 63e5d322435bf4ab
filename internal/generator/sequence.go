// Package generator derives note sequences and chord progressions from
// stored patterns. Every transform is pure: callers get new values and
// input patterns are never mutated.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

const accentVelocityBoost = 16

var (
	ErrEmptyProgression = errors.New("chord progression cannot be empty")
	ErrSequenceInvalid  = errors.New("generated sequence failed validation")
)

// SequenceGenerator realizes a chord progression into a note sequence.
// The note pattern contributes its melodic direction, the rhythm
// pattern supplies the grid. Rand feeds the random direction; it may be
// nil for deterministic directions.
type SequenceGenerator struct {
	Progression   domain.ChordProgression
	NotePattern   domain.NotePattern
	RhythmPattern domain.RhythmPattern
	Level         validation.Level
	Rand          *rand.Rand
}

// Generate expands every chord, lays the notes onto the rhythm grid,
// optionally transposes, then validates the result. An invalid sequence
// is an error at STRICT; at lower levels it is returned as generated.
func (g SequenceGenerator) Generate(name string, scaleInfo *domain.ScaleInfo, transpose int) (domain.NoteSequence, error) {
	if len(g.Progression.Items) == 0 {
		return domain.NoteSequence{}, ErrEmptyProgression
	}

	var notes []domain.Note
	for _, item := range g.Progression.Items {
		expanded, err := g.expandChord(item.Chord)
		if err != nil {
			return domain.NoteSequence{}, err
		}
		notes = append(notes, expanded...)
	}

	notes = g.applyRhythm(notes)

	if transpose != 0 {
		for i := range notes {
			shifted, err := notes[i].Transpose(transpose)
			if err != nil {
				return domain.NoteSequence{}, fmt.Errorf("transpose note %d: %w", i, err)
			}
			notes[i] = shifted
		}
	}

	ts := g.RhythmPattern.TimeSignature
	if ts.Numerator == 0 {
		ts = theory.TimeSignature{Numerator: 4, Denominator: 4}
	}

	seq := domain.NoteSequence{
		Name:              name,
		Notes:             notes,
		Tempo:             domain.DefaultTempo,
		TimeSignature:     ts,
		ScaleInfo:         scaleInfo,
		ProgressionName:   g.Progression.Name,
		NotePatternName:   g.NotePattern.Name,
		RhythmPatternName: g.RhythmPattern.Name,
	}
	seq.Duration = seq.TotalDuration()

	result := validation.ValidateNoteSequence(seq, g.Level)
	if !result.IsValid && g.Level.AtLeast(validation.LevelStrict) {
		return domain.NoteSequence{}, fmt.Errorf("%w: %s", ErrSequenceInvalid, violationSummary(result))
	}
	return seq, nil
}

// expandChord produces the root note at octave 4 followed by one note
// per quality interval, so the root is restated by the zero offset. The
// note pattern's direction then reshapes the member order.
func (g SequenceGenerator) expandChord(chord domain.Chord) ([]domain.Note, error) {
	root, err := domain.ParseNote(fmt.Sprintf("%s%d", chord.Root, domain.DefaultOctave),
		domain.DefaultDuration, domain.DefaultVelocity)
	if err != nil {
		return nil, fmt.Errorf("expand chord %q: %w", chord.Symbol(), err)
	}

	members := []domain.Note{root}
	for _, interval := range chord.Quality.Intervals() {
		member, err := domain.NoteFromMIDI(root.MIDINumber+interval,
			domain.DefaultDuration, domain.DefaultVelocity)
		if err != nil {
			return nil, fmt.Errorf("expand chord %q: %w", chord.Symbol(), err)
		}
		members = append(members, member)
	}

	direction := g.NotePattern.Data.Direction
	if direction == "" {
		return members, nil
	}
	return theory.ApplyDirection(direction, members, g.Rand)
}

// applyRhythm lays the melodic notes onto the rhythm pattern's grid,
// cycling through the pattern when the melody is longer. Accented hits
// push velocity up by 16, capped at 127. Without a rhythm pattern the
// notes run end to end.
func (g SequenceGenerator) applyRhythm(notes []domain.Note) []domain.Note {
	pattern := g.RhythmPattern.Pattern
	position := 0.0

	if len(pattern) == 0 {
		for i := range notes {
			notes[i].Position = position
			position += notes[i].Duration
		}
		return notes
	}

	for i := range notes {
		hit := pattern[i%len(pattern)]
		notes[i].Duration = hit.Duration
		notes[i].Position = position + hit.Position
		if hit.Accent {
			velocity := notes[i].Velocity + accentVelocityBoost
			if velocity > 127 {
				velocity = 127
			}
			notes[i].Velocity = velocity
		}
		position += hit.Duration
	}
	return notes
}

func violationSummary(result validation.Result) string {
	parts := make([]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Code, v.Message))
	}
	return strings.Join(parts, "; ")
}
