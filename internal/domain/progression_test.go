package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

func simpleProgression(t *testing.T) ChordProgression {
	t.Helper()
	prog, err := NewChordProgression("Pop Changes", "C", theory.ScaleMajor)
	require.NoError(t, err)

	for _, symbol := range []string{"C", "G", "Am", "F"} {
		chord, err := ChordFromSymbol(symbol)
		require.NoError(t, err)
		prog, err = prog.AddChord(chord, 4.0)
		require.NoError(t, err)
	}
	return prog
}

func TestAddChordRunningPosition(t *testing.T) {
	prog := simpleProgression(t)

	require.Len(t, prog.Items, 4)
	wantPositions := []float64{0, 4, 8, 12}
	for i, item := range prog.Items {
		assert.Equal(t, wantPositions[i], item.Position, "item %d", i)
		assert.Equal(t, 4.0, item.Duration, "item %d", i)
	}
	assert.Equal(t, 16.0, prog.TotalDuration)
	assert.Equal(t, []string{"C", "G", "Am", "F"}, prog.Symbols())
}

func TestAddChordDoesNotMutateReceiver(t *testing.T) {
	prog, err := NewChordProgression("Base", "C", theory.ScaleMajor)
	require.NoError(t, err)

	chord, err := ChordFromSymbol("C")
	require.NoError(t, err)
	grown, err := prog.AddChord(chord, 4.0)
	require.NoError(t, err)

	assert.Empty(t, prog.Items)
	assert.Len(t, grown.Items, 1)
}

func TestAddChordAtKeepsTotal(t *testing.T) {
	prog := simpleProgression(t)

	chord, err := ChordFromSymbol("Dm")
	require.NoError(t, err)

	// Placing inside the existing span must not shrink total_duration.
	placed, err := prog.AddChordAt(chord, 2.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 16.0, placed.TotalDuration)

	// Placing past the end extends it.
	extended, err := prog.AddChordAt(chord, 4.0, 20.0)
	require.NoError(t, err)
	assert.Equal(t, 24.0, extended.TotalDuration)
}

func TestChordAt(t *testing.T) {
	prog := simpleProgression(t)

	chord, ok := prog.ChordAt(0)
	require.True(t, ok)
	assert.Equal(t, "C", chord.Symbol())

	chord, ok = prog.ChordAt(3.999)
	require.True(t, ok)
	assert.Equal(t, "C", chord.Symbol())

	chord, ok = prog.ChordAt(4)
	require.True(t, ok)
	assert.Equal(t, "G", chord.Symbol())

	chord, ok = prog.ChordAt(15.5)
	require.True(t, ok)
	assert.Equal(t, "F", chord.Symbol())

	_, ok = prog.ChordAt(16)
	assert.False(t, ok)
	_, ok = prog.ChordAt(-1)
	assert.False(t, ok)
}

func TestChordProgressionValidate(t *testing.T) {
	prog := simpleProgression(t)
	assert.NoError(t, prog.Validate())

	bad := prog
	bad.Key = "H"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidKey)

	bad = prog
	bad.Name = "!"
	assert.Error(t, bad.Validate())

	bad = prog
	bad.ScaleType = "WONKY"
	assert.ErrorIs(t, bad.Validate(), theory.ErrInvalidScaleType)

	bad = prog
	bad.Complexity = 1.5
	assert.ErrorIs(t, bad.Validate(), ErrInvalidComplexity)
}

func TestChordProgressionItemValidate(t *testing.T) {
	chord, err := ChordFromSymbol("C")
	require.NoError(t, err)

	_, err = NewChordProgressionItem(chord, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = NewChordProgressionItem(chord, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestProgressionTranspose(t *testing.T) {
	prog := simpleProgression(t)

	up, err := prog.Transpose(2)
	require.NoError(t, err)
	assert.Equal(t, "D", up.Key)
	assert.Equal(t, []string{"D", "A", "Bm", "G"}, up.Symbols())

	// Structure carries over untouched.
	assert.Equal(t, prog.TotalDuration, up.TotalDuration)
	for i := range prog.Items {
		assert.Equal(t, prog.Items[i].Position, up.Items[i].Position, "item %d", i)
	}

	// Flat keys respell with sharps.
	one, err := prog.Transpose(1)
	require.NoError(t, err)
	assert.Equal(t, "C#", one.Key)
}
