package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

// Field defaults shared by notes and rhythm notes.
const (
	DefaultVelocity = 64
	DefaultDuration = 1.0
	DefaultOctave   = 4
)

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidVelocity = errors.New("velocity must be between 0 and 127")
	ErrInvalidPosition = errors.New("position must not be negative")
	ErrInvalidOctave   = errors.New("octave must be between -1 and 10")
	ErrMIDIMismatch    = errors.New("midi number inconsistent with spelling")
)

// Note is an immutable spelled note with performance fields. The stored
// MIDI number is always consistent with (letter, accidental, octave);
// constructors derive it and Validate rejects a stored value that
// disagrees.
type Note struct {
	NoteName   string            `json:"note_name"`
	Accidental theory.Accidental `json:"accidental,omitempty"`
	Octave     int               `json:"octave"`
	Duration   float64           `json:"duration"`
	Velocity   int               `json:"velocity"`
	Position   float64           `json:"position"`
	MIDINumber int               `json:"midi_number"`
}

// NewNote builds a note from a spelled pitch, deriving the MIDI number.
func NewNote(pitch theory.Pitch, duration float64, velocity int) (Note, error) {
	n := Note{
		NoteName:   pitch.Letter,
		Accidental: pitch.Accidental,
		Octave:     pitch.Octave,
		Duration:   duration,
		Velocity:   velocity,
	}
	if err := n.normalize(); err != nil {
		return Note{}, err
	}
	return n, nil
}

// ParseNote builds a note from a spelled name like "C#4".
func ParseNote(name string, duration float64, velocity int) (Note, error) {
	pitch, err := theory.ParsePitch(name)
	if err != nil {
		return Note{}, err
	}
	return NewNote(pitch, duration, velocity)
}

// NoteFromMIDI spells a MIDI number (sharps preferred) into a note.
func NoteFromMIDI(midi int, duration float64, velocity int) (Note, error) {
	pitch, err := theory.PitchFromMIDI(midi)
	if err != nil {
		return Note{}, err
	}
	return NewNote(pitch, duration, velocity)
}

// Pitch returns the spelled pitch of the note.
func (n Note) Pitch() theory.Pitch {
	return theory.Pitch{Letter: n.NoteName, Accidental: n.Accidental, Octave: n.Octave}
}

// UnmarshalJSON decodes over the documented field defaults (octave 4,
// one beat, velocity 64) and derives the MIDI number from the spelling
// when the document omits it, so partial documents coerce the same way
// full ones do.
func (n *Note) UnmarshalJSON(data []byte) error {
	type alias Note
	tmp := alias{Octave: DefaultOctave, Duration: DefaultDuration, Velocity: DefaultVelocity}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.MIDINumber == 0 {
		// Unspellable names stay at 0 and are reported by Validate.
		pitch := theory.Pitch{Letter: tmp.NoteName, Accidental: tmp.Accidental, Octave: tmp.Octave}
		if midi, err := pitch.MIDI(); err == nil {
			tmp.MIDINumber = midi
		}
	}
	*n = Note(tmp)
	return nil
}

// normalize derives the MIDI number (when absent) and validates the
// whole note.
func (n *Note) normalize() error {
	midi, err := n.Pitch().MIDI()
	if err != nil {
		return err
	}
	if n.MIDINumber == 0 {
		n.MIDINumber = midi
	}
	return n.Validate()
}

// Validate checks every structural invariant of the note.
func (n Note) Validate() error {
	if n.Octave < -1 || n.Octave > 10 {
		return fmt.Errorf("%w: %d", ErrInvalidOctave, n.Octave)
	}
	midi, err := n.Pitch().MIDI()
	if err != nil {
		return err
	}
	if n.MIDINumber != 0 && n.MIDINumber != midi {
		return fmt.Errorf("%w: stored %d, spelled %s is %d", ErrMIDIMismatch, n.MIDINumber, n.Pitch(), midi)
	}
	if n.Duration <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, n.Duration)
	}
	if n.Velocity < 0 || n.Velocity > 127 {
		return fmt.Errorf("%w: %d", ErrInvalidVelocity, n.Velocity)
	}
	if n.Position < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, n.Position)
	}
	return nil
}

// At returns a copy of the note placed at the given position.
func (n Note) At(position float64) (Note, error) {
	if position < 0 {
		return Note{}, fmt.Errorf("%w: %v", ErrInvalidPosition, position)
	}
	n.Position = position
	return n, nil
}

// Transpose returns a new note shifted by semitones, respelled from the
// resulting MIDI number; duration, velocity and position carry over.
func (n Note) Transpose(semitones int) (Note, error) {
	pitch, err := theory.PitchFromMIDI(n.MIDINumber + semitones)
	if err != nil {
		return Note{}, err
	}
	out, err := NewNote(pitch, n.Duration, n.Velocity)
	if err != nil {
		return Note{}, err
	}
	out.Position = n.Position
	return out, nil
}

// Enharmonic returns the alternate spelling of the same sounding note.
func (n Note) Enharmonic() (Note, error) {
	pitch, err := n.Pitch().Enharmonic()
	if err != nil {
		return Note{}, err
	}
	out, err := NewNote(pitch, n.Duration, n.Velocity)
	if err != nil {
		return Note{}, err
	}
	out.Position = n.Position
	return out, nil
}

// IsEnharmonic reports whether both notes sound the same pitch.
func (n Note) IsEnharmonic(other Note) bool {
	return n.MIDINumber == other.MIDINumber
}

// String renders the spelled name, e.g. "C#4".
func (n Note) String() string {
	return n.Pitch().String()
}
