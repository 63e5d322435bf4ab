package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

var (
	ErrInvalidChordRoot   = errors.New("invalid chord root")
	ErrInvalidChordOctave = errors.New("chord octave must be between 0 and 8")
)

// Chord is a root pitch class plus a quality. Member notes are derived
// from the quality's interval table, never stored authoritatively.
type Chord struct {
	Root     string              `json:"root"`
	Quality  theory.ChordQuality `json:"quality"`
	Duration float64             `json:"duration"`
	Velocity int                 `json:"velocity"`
	Octave   *int                `json:"octave,omitempty"`
}

// NewChord validates the root spelling and quality; duration and velocity
// take the usual defaults when zero-valued.
func NewChord(root string, quality theory.ChordQuality) (Chord, error) {
	c := Chord{
		Root:     root,
		Quality:  quality,
		Duration: DefaultDuration,
		Velocity: DefaultVelocity,
	}
	if err := c.Validate(); err != nil {
		return Chord{}, err
	}
	c.Root = normalizeRoot(root)
	return c, nil
}

// ChordFromSymbol parses a compact symbol like "Am7" or "Bbmaj7" through
// the lossy suffix table (unknown suffixes become plain major).
func ChordFromSymbol(symbol string) (Chord, error) {
	root, quality, err := theory.ParseChordSymbol(symbol)
	if err != nil {
		return Chord{}, fmt.Errorf("%w: %q", ErrInvalidChordRoot, symbol)
	}
	return NewChord(root, quality)
}

func normalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return root
	}
	return strings.ToUpper(root[:1]) + root[1:]
}

// UnmarshalJSON decodes over the documented defaults (major quality, one
// beat, velocity 64).
func (c *Chord) UnmarshalJSON(data []byte) error {
	type alias Chord
	tmp := alias{Quality: theory.QualityMajor, Duration: DefaultDuration, Velocity: DefaultVelocity}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*c = Chord(tmp)
	return nil
}

// rootPitch spells the chord root at its octave (default 4).
func (c Chord) rootPitch() (theory.Pitch, error) {
	octave := DefaultOctave
	if c.Octave != nil {
		octave = *c.Octave
	}
	return theory.ParsePitch(fmt.Sprintf("%s%d", normalizeRoot(c.Root), octave))
}

// Validate checks the chord's structural invariants.
func (c Chord) Validate() error {
	if _, err := c.rootPitch(); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidChordRoot, c.Root)
	}
	if !c.Quality.Valid() {
		return fmt.Errorf("%w: %q", theory.ErrInvalidChordQuality, c.Quality)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, c.Duration)
	}
	if c.Velocity < 0 || c.Velocity > 127 {
		return fmt.Errorf("%w: %d", ErrInvalidVelocity, c.Velocity)
	}
	if c.Octave != nil && (*c.Octave < 0 || *c.Octave > 8) {
		return fmt.Errorf("%w: %d", ErrInvalidChordOctave, *c.Octave)
	}
	return nil
}

// RootMIDI returns the MIDI number of the chord root.
func (c Chord) RootMIDI() (int, error) {
	pitch, err := c.rootPitch()
	if err != nil {
		return 0, err
	}
	return pitch.MIDI()
}

// Notes derives the member notes by stacking the quality's intervals on
// the root, carrying the chord's duration and velocity.
func (c Chord) Notes() ([]Note, error) {
	rootMIDI, err := c.RootMIDI()
	if err != nil {
		return nil, err
	}
	members, err := c.Quality.MemberMIDI(rootMIDI)
	if err != nil {
		return nil, err
	}
	notes := make([]Note, 0, len(members))
	for _, midi := range members {
		note, err := NoteFromMIDI(midi, c.Duration, c.Velocity)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// Transpose returns a new chord whose root is shifted by semitones; the
// quality and performance fields carry over.
func (c Chord) Transpose(semitones int) (Chord, error) {
	rootMIDI, err := c.RootMIDI()
	if err != nil {
		return Chord{}, err
	}
	pitch, err := theory.PitchFromMIDI(rootMIDI + semitones)
	if err != nil {
		return Chord{}, err
	}
	out := c
	out.Root = fmt.Sprintf("%s%s", pitch.Letter, pitch.Accidental)
	return out, nil
}

// Symbol renders the compact chord symbol, e.g. "Am7".
func (c Chord) Symbol() string {
	return normalizeRoot(c.Root) + c.Quality.Suffix()
}
