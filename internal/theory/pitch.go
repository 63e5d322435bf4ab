package theory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Accidental is a pitch modifier applied to a note letter.
type Accidental string

const (
	Natural     Accidental = ""
	Sharp       Accidental = "#"
	Flat        Accidental = "b"
	DoubleSharp Accidental = "##"
	DoubleFlat  Accidental = "bb"
)

var (
	ErrInvalidNoteName   = errors.New("invalid note name")
	ErrInvalidAccidental = errors.New("invalid accidental")
	ErrMIDIOutOfRange    = errors.New("midi number out of range")
)

// Semitone offsets from C for the natural note letters.
var noteBases = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// Pitch-class spellings. Sharps are the preferred spelling for black keys;
// flats are the alternate.
var (
	sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

var accidentalOffsets = map[Accidental]int{
	Natural:     0,
	Sharp:       1,
	Flat:        -1,
	DoubleSharp: 2,
	DoubleFlat:  -2,
}

// ParseAccidental returns the Accidental for a wire string ("", "#", "b",
// "##", "bb").
func ParseAccidental(s string) (Accidental, error) {
	a := Accidental(s)
	if _, ok := accidentalOffsets[a]; !ok {
		return Natural, fmt.Errorf("%w: %q", ErrInvalidAccidental, s)
	}
	return a, nil
}

// Offset returns the semitone adjustment this accidental applies.
func (a Accidental) Offset() int {
	return accidentalOffsets[a]
}

// IsDouble reports whether the accidental is a double sharp or double flat.
func (a Accidental) IsDouble() bool {
	return a == DoubleSharp || a == DoubleFlat
}

// Valid reports whether the accidental is one of the five known values.
func (a Accidental) Valid() bool {
	_, ok := accidentalOffsets[a]
	return ok
}

// Combine resolves the result of stacking another accidental on this one.
// Natural is the identity on both sides; sharp and flat cancel; two of the
// same simple accidental promote to the double form; once a double is
// involved, the first double wins. Anything unresolved falls back to the
// receiver.
func (a Accidental) Combine(b Accidental) Accidental {
	if a == Natural {
		return b
	}
	if b == Natural {
		return a
	}
	if a.IsDouble() {
		return a
	}
	if b.IsDouble() {
		return b
	}
	switch {
	case a == Sharp && b == Sharp:
		return DoubleSharp
	case a == Flat && b == Flat:
		return DoubleFlat
	case (a == Sharp && b == Flat) || (a == Flat && b == Sharp):
		return Natural
	}
	return a
}

// Pitch is a spelled pitch: a note letter, an accidental, and an octave.
// Octave numbering follows the middle-C convention (C4 = MIDI 60).
type Pitch struct {
	Letter     string
	Accidental Accidental
	Octave     int
}

// NewPitch builds a Pitch, rejecting unknown letters and accidentals.
func NewPitch(letter string, accidental Accidental, octave int) (Pitch, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if _, ok := noteBases[letter]; !ok {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidNoteName, letter)
	}
	if !accidental.Valid() {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidAccidental, accidental)
	}
	return Pitch{Letter: letter, Accidental: accidental, Octave: octave}, nil
}

// ParsePitch parses a spelled pitch like "C4", "F#3" or "Bb-1".
// Format: letter A-G, optional accidental (#, b, ##, bb), signed octave.
func ParsePitch(name string) (Pitch, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidNoteName, name)
	}

	letter := strings.ToUpper(name[:1])
	if _, ok := noteBases[letter]; !ok {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidNoteName, name)
	}

	rest := name[1:]
	accidental := Natural
	for _, a := range []Accidental{DoubleSharp, DoubleFlat, Sharp, Flat} {
		if strings.HasPrefix(rest, string(a)) {
			accidental = a
			rest = rest[len(a):]
			break
		}
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Pitch{}, fmt.Errorf("%w: %q has no octave", ErrInvalidNoteName, name)
	}

	return Pitch{Letter: letter, Accidental: accidental, Octave: octave}, nil
}

// MIDI computes the MIDI note number for the pitch:
// base[letter] + accidental offset + 12*(octave+1), so C4 = 60.
func (p Pitch) MIDI() (int, error) {
	base, ok := noteBases[p.Letter]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNoteName, p.Letter)
	}
	if !p.Accidental.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAccidental, p.Accidental)
	}
	midi := base + p.Accidental.Offset() + 12*(p.Octave+1)
	if midi < 0 || midi > 127 {
		return 0, fmt.Errorf("%w: %s -> %d", ErrMIDIOutOfRange, p, midi)
	}
	return midi, nil
}

// PitchFromMIDI spells a MIDI note number. Black keys come back as sharps
// (the preferred spelling); naturals come back without an accidental.
// Octave = midi/12 - 1, so 60 -> C4.
func PitchFromMIDI(midi int) (Pitch, error) {
	if midi < 0 || midi > 127 {
		return Pitch{}, fmt.Errorf("%w: %d", ErrMIDIOutOfRange, midi)
	}
	pc := midi % 12
	octave := midi/12 - 1
	name := sharpNames[pc]
	letter := name[:1]
	accidental := Natural
	if len(name) > 1 {
		accidental = Sharp
	}
	return Pitch{Letter: letter, Accidental: accidental, Octave: octave}, nil
}

// String renders the pitch in wire form, e.g. "C#4".
func (p Pitch) String() string {
	return fmt.Sprintf("%s%s%d", p.Letter, p.Accidental, p.Octave)
}

// Transpose returns the pitch shifted by the given number of semitones,
// respelled from the resulting MIDI number.
func (p Pitch) Transpose(semitones int) (Pitch, error) {
	midi, err := p.MIDI()
	if err != nil {
		return Pitch{}, err
	}
	return PitchFromMIDI(midi + semitones)
}

// Enharmonic returns the alternate spelling of the same sounding pitch:
// C#4 <-> Db4. Naturally spelled pitches are their own enharmonic; oddly
// spelled naturals (B#, Cb, doubles) resolve to the natural spelling.
func (p Pitch) Enharmonic() (Pitch, error) {
	midi, err := p.MIDI()
	if err != nil {
		return Pitch{}, err
	}
	pc := midi % 12
	octave := midi/12 - 1

	sharp, flat := sharpNames[pc], flatNames[pc]
	if sharp == flat {
		// White key: the natural spelling is the only alternate.
		return Pitch{Letter: sharp, Accidental: Natural, Octave: octave}, nil
	}
	if p.String() == fmt.Sprintf("%s%d", sharp, octave) {
		return ParsePitch(fmt.Sprintf("%s%d", flat, octave))
	}
	return ParsePitch(fmt.Sprintf("%s%d", sharp, octave))
}

// IsEnharmonic reports whether two pitches sound the same (equal MIDI
// numbers) regardless of spelling.
func IsEnharmonic(a, b Pitch) bool {
	am, errA := a.MIDI()
	bm, errB := b.MIDI()
	if errA != nil || errB != nil {
		return false
	}
	return am == bm
}
