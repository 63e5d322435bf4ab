package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

func TestNewChordDefaults(t *testing.T) {
	chord, err := NewChord("c#", theory.QualityMinor)
	require.NoError(t, err)
	assert.Equal(t, "C#", chord.Root)
	assert.Equal(t, theory.QualityMinor, chord.Quality)
	assert.Equal(t, 1.0, chord.Duration)
	assert.Equal(t, 64, chord.Velocity)
	assert.Nil(t, chord.Octave)
}

func TestNewChordRejectsBadRoot(t *testing.T) {
	_, err := NewChord("H", theory.QualityMajor)
	assert.Error(t, err)

	_, err = NewChord("", theory.QualityMajor)
	assert.Error(t, err)

	_, err = NewChord("C", theory.ChordQuality("WOBBLY"))
	assert.Error(t, err)
}

func TestChordNotes(t *testing.T) {
	chord, err := NewChord("C", theory.QualityMajor)
	require.NoError(t, err)
	chord.Duration = 2.0
	chord.Velocity = 90

	notes, err := chord.Notes()
	require.NoError(t, err)
	require.Len(t, notes, 3)

	wantMIDI := []int{60, 64, 67}
	for i, note := range notes {
		assert.Equal(t, wantMIDI[i], note.MIDINumber, "member %d", i)
		assert.Equal(t, 2.0, note.Duration, "member %d", i)
		assert.Equal(t, 90, note.Velocity, "member %d", i)
	}
	assert.Equal(t, "C4", notes[0].String())
	assert.Equal(t, "E4", notes[1].String())
	assert.Equal(t, "G4", notes[2].String())
}

func TestChordNotesAtOctave(t *testing.T) {
	chord, err := NewChord("A", theory.QualityMinorSeventh)
	require.NoError(t, err)
	octave := 2
	chord.Octave = &octave

	notes, err := chord.Notes()
	require.NoError(t, err)
	require.Len(t, notes, 4)
	assert.Equal(t, "A2", notes[0].String())
	assert.Equal(t, []int{45, 48, 52, 55}, []int{
		notes[0].MIDINumber, notes[1].MIDINumber, notes[2].MIDINumber, notes[3].MIDINumber,
	})
}

func TestChordValidateOctaveBounds(t *testing.T) {
	chord, err := NewChord("C", theory.QualityMajor)
	require.NoError(t, err)

	for _, octave := range []int{0, 8} {
		o := octave
		chord.Octave = &o
		assert.NoError(t, chord.Validate(), "octave %d", octave)
	}
	for _, octave := range []int{-1, 9} {
		o := octave
		chord.Octave = &o
		assert.Error(t, chord.Validate(), "octave %d", octave)
	}
}

func TestChordFromSymbol(t *testing.T) {
	tests := []struct {
		symbol  string
		root    string
		quality theory.ChordQuality
	}{
		{"C", "C", theory.QualityMajor},
		{"Am", "A", theory.QualityMinor},
		{"Am7", "A", theory.QualityMinorSeventh},
		{"Cmaj7", "C", theory.QualityMajorSeventh},
		{"G7", "G", theory.QualityDominantSeventh},
		{"Bbm7b5", "Bb", theory.QualityHalfDiminishedSeventh},
		// The extended-alterations bucket collapses to the plain dominant.
		{"C9", "C", theory.QualityDominantSeventh},
		{"E7b9", "E", theory.QualityDominantSeventh},
		// Unknown suffixes fall back to major rather than failing.
		{"Cweird", "C", theory.QualityMajor},
	}

	for _, tt := range tests {
		chord, err := ChordFromSymbol(tt.symbol)
		require.NoError(t, err, tt.symbol)
		assert.Equal(t, tt.root, chord.Root, tt.symbol)
		assert.Equal(t, tt.quality, chord.Quality, tt.symbol)
	}

	_, err := ChordFromSymbol("")
	assert.Error(t, err)
	_, err = ChordFromSymbol("Hm7")
	assert.Error(t, err)
}

func TestChordSymbolRoundTrip(t *testing.T) {
	for _, symbol := range []string{"C", "Am", "Am7", "Cmaj7", "G7", "F#dim", "Bsus4"} {
		chord, err := ChordFromSymbol(symbol)
		require.NoError(t, err, symbol)
		assert.Equal(t, symbol, chord.Symbol(), symbol)
	}
}

func TestChordTranspose(t *testing.T) {
	chord, err := ChordFromSymbol("Am")
	require.NoError(t, err)
	chord.Duration = 2.0

	up, err := chord.Transpose(2)
	require.NoError(t, err)
	assert.Equal(t, "B", up.Root)
	assert.Equal(t, theory.QualityMinor, up.Quality)
	assert.Equal(t, 2.0, up.Duration)
	assert.Equal(t, "Bm", up.Symbol())

	flatward, err := chord.Transpose(1)
	require.NoError(t, err)
	assert.Equal(t, "A#", flatward.Root) // sharps preferred on respell
}

func TestChordValidateBounds(t *testing.T) {
	chord, err := NewChord("C", theory.QualityMajor)
	require.NoError(t, err)

	bad := chord
	bad.Duration = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidDuration)

	bad = chord
	bad.Velocity = 200
	assert.ErrorIs(t, bad.Validate(), ErrInvalidVelocity)
}
