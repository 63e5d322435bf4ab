package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

func cMajorProgression(t *testing.T, numerals ...string) domain.ChordProgression {
	t.Helper()
	gen := ProgressionGenerator{Key: "C", ScaleType: theory.ScaleMajor, Level: validation.LevelNormal}
	prog, err := gen.FromRomanPattern("Test Progression", numerals)
	require.NoError(t, err)
	return prog
}

func fourOnFloor(t *testing.T, accents ...int) domain.RhythmPattern {
	t.Helper()
	pattern := domain.DefaultRhythmPattern()
	pattern.Name = "Four on the Floor"
	for _, p := range []float64{0, 1, 2, 3} {
		note := domain.DefaultRhythmNote()
		note.Position = p
		pattern.Pattern = append(pattern.Pattern, note)
	}
	for _, i := range accents {
		pattern.Pattern[i].Accent = true
	}
	return pattern
}

func TestGenerateExpandsChords(t *testing.T) {
	gen := SequenceGenerator{
		Progression:   cMajorProgression(t, "I"),
		RhythmPattern: fourOnFloor(t),
		Level:         validation.LevelNormal,
	}

	seq, err := gen.Generate("Generated", nil, 0)
	require.NoError(t, err)

	require.Len(t, seq.Notes, 4)
	midi := make([]int, len(seq.Notes))
	for i, n := range seq.Notes {
		midi[i] = n.MIDINumber
	}
	assert.Equal(t, []int{60, 60, 64, 67}, midi)

	for _, n := range seq.Notes {
		assert.Equal(t, 64, n.Velocity)
		assert.Equal(t, 1.0, n.Duration)
	}
	assert.Equal(t, 4.0, seq.Duration)
	assert.Equal(t, "Test Progression", seq.ProgressionName)
	assert.Equal(t, "Four on the Floor", seq.RhythmPatternName)
	assert.Equal(t, domain.DefaultTempo, seq.Tempo)
}

func TestGenerateRhythmPlacement(t *testing.T) {
	gen := SequenceGenerator{
		Progression:   cMajorProgression(t, "I"),
		RhythmPattern: fourOnFloor(t),
		Level:         validation.LevelNormal,
	}

	seq, err := gen.Generate("Generated", nil, 0)
	require.NoError(t, err)

	positions := make([]float64, len(seq.Notes))
	for i, n := range seq.Notes {
		positions[i] = n.Position
	}
	assert.Equal(t, []float64{0, 2, 4, 6}, positions)
}

func TestGenerateAccentBoostsVelocity(t *testing.T) {
	gen := SequenceGenerator{
		Progression:   cMajorProgression(t, "I"),
		RhythmPattern: fourOnFloor(t, 0, 2),
		Level:         validation.LevelNormal,
	}

	seq, err := gen.Generate("Generated", nil, 0)
	require.NoError(t, err)

	velocities := make([]int, len(seq.Notes))
	for i, n := range seq.Notes {
		velocities[i] = n.Velocity
	}
	assert.Equal(t, []int{80, 64, 80, 64}, velocities)
}

func TestGenerateTranspose(t *testing.T) {
	gen := SequenceGenerator{
		Progression:   cMajorProgression(t, "I"),
		RhythmPattern: fourOnFloor(t),
		Level:         validation.LevelNormal,
	}

	seq, err := gen.Generate("Generated", nil, 2)
	require.NoError(t, err)

	require.NotEmpty(t, seq.Notes)
	assert.Equal(t, 62, seq.Notes[0].MIDINumber)
	assert.Equal(t, "D", seq.Notes[0].NoteName)
}

func TestGenerateDescendingDirection(t *testing.T) {
	pattern := domain.NotePattern{Name: "Falling Arpeggio", Data: domain.DefaultNotePatternData()}
	pattern.Data.Direction = theory.DirectionDescending

	gen := SequenceGenerator{
		Progression:   cMajorProgression(t, "I"),
		NotePattern:   pattern,
		RhythmPattern: fourOnFloor(t),
		Level:         validation.LevelNormal,
	}

	seq, err := gen.Generate("Generated", nil, 0)
	require.NoError(t, err)

	midi := make([]int, len(seq.Notes))
	for i, n := range seq.Notes {
		midi[i] = n.MIDINumber
	}
	assert.Equal(t, []int{67, 64, 60, 60}, midi)
	assert.Equal(t, "Falling Arpeggio", seq.NotePatternName)
}

func TestGenerateRandomDirectionIsSeedable(t *testing.T) {
	pattern := domain.NotePattern{Name: "Shuffled", Data: domain.DefaultNotePatternData()}
	pattern.Data.Direction = theory.DirectionRandom

	build := func(seed int64) domain.NoteSequence {
		gen := SequenceGenerator{
			Progression:   cMajorProgression(t, "I", "IV"),
			NotePattern:   pattern,
			RhythmPattern: fourOnFloor(t),
			Level:         validation.LevelNormal,
			Rand:          rand.New(rand.NewSource(seed)),
		}
		seq, err := gen.Generate("Generated", nil, 0)
		require.NoError(t, err)
		return seq
	}

	assert.Equal(t, build(42).Notes, build(42).Notes)
}

func TestGenerateWithoutRhythmRunsEndToEnd(t *testing.T) {
	gen := SequenceGenerator{
		Progression: cMajorProgression(t, "I"),
		Level:       validation.LevelNormal,
	}

	seq, err := gen.Generate("Generated", nil, 0)
	require.NoError(t, err)

	positions := make([]float64, len(seq.Notes))
	for i, n := range seq.Notes {
		positions[i] = n.Position
	}
	assert.Equal(t, []float64{0, 1, 2, 3}, positions)
	assert.Equal(t, "4/4", seq.TimeSignature.String())
}

func TestGenerateEmptyProgression(t *testing.T) {
	gen := SequenceGenerator{RhythmPattern: fourOnFloor(t), Level: validation.LevelNormal}

	_, err := gen.Generate("Generated", nil, 0)
	assert.ErrorIs(t, err, ErrEmptyProgression)
}

func TestGenerateStrictFailsOnLargeInterval(t *testing.T) {
	pattern := domain.NotePattern{Name: "Falling Arpeggio", Data: domain.DefaultNotePatternData()}
	pattern.Data.Direction = theory.DirectionDescending

	gen := SequenceGenerator{
		Progression:   cMajorProgression(t, "I", "V"),
		NotePattern:   pattern,
		RhythmPattern: fourOnFloor(t),
		Level:         validation.LevelStrict,
	}

	_, err := gen.Generate("Generated", nil, 0)
	require.ErrorIs(t, err, ErrSequenceInvalid)
	assert.Contains(t, err.Error(), "LARGE_INTERVAL")

	gen.Level = validation.LevelNormal
	seq, err := gen.Generate("Generated", nil, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, seq.Notes)
}

func TestGenerateCarriesScaleInfo(t *testing.T) {
	info := &domain.ScaleInfo{Key: "C", ScaleType: theory.ScaleMajor}
	gen := SequenceGenerator{
		Progression:   cMajorProgression(t, "I", "IV"),
		RhythmPattern: fourOnFloor(t),
		Level:         validation.LevelNormal,
	}

	seq, err := gen.Generate("Generated", info, 0)
	require.NoError(t, err)
	assert.Equal(t, info, seq.ScaleInfo)
}
