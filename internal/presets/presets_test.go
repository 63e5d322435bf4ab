package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

func progressionByName(t *testing.T, name string) domain.ChordProgression {
	t.Helper()
	progressions, err := ChordProgressions()
	require.NoError(t, err)
	for _, prog := range progressions {
		if prog.Name == name {
			return prog
		}
	}
	t.Fatalf("no stock progression named %q", name)
	return domain.ChordProgression{}
}

func notePatternByName(t *testing.T, name string) domain.NotePattern {
	t.Helper()
	patterns, err := NotePatterns()
	require.NoError(t, err)
	for _, pattern := range patterns {
		if pattern.Name == name {
			return pattern
		}
	}
	t.Fatalf("no stock note pattern named %q", name)
	return domain.NotePattern{}
}

func rhythmPatternByName(t *testing.T, name string) domain.RhythmPattern {
	t.Helper()
	patterns, err := RhythmPatterns()
	require.NoError(t, err)
	for _, pattern := range patterns {
		if pattern.Name == name {
			return pattern
		}
	}
	t.Fatalf("no stock rhythm pattern named %q", name)
	return domain.RhythmPattern{}
}

func TestCommonProgressionsIsACopy(t *testing.T) {
	walks := CommonProgressions()
	require.Len(t, walks, 6)
	assert.Equal(t, []string{"I", "IV", "V"}, walks["I-IV-V"])

	walks["I-IV-V"][0] = "vii"
	delete(walks, "ii-V-I")

	fresh := CommonProgressions()
	assert.Equal(t, []string{"I", "IV", "V"}, fresh["I-IV-V"])
	assert.Contains(t, fresh, "ii-V-I")
}

func TestProgressionNamesSorted(t *testing.T) {
	names := ProgressionNames()
	assert.Equal(t, []string{
		"I-IV-V", "I-V-IV", "I-V-vi-IV", "I-vi-IV-V", "ii-V-I", "ii-V-I-IV",
	}, names)
}

func TestChordProgressionsRealizesRomanWalks(t *testing.T) {
	progressions, err := ChordProgressions()
	require.NoError(t, err)
	require.Len(t, progressions, 8)

	tonic := progressionByName(t, "I-IV-V")
	assert.Equal(t, DefaultKey, tonic.Key)
	assert.Equal(t, theory.ScaleMajor, tonic.ScaleType)
	assert.Equal(t, []string{"C", "F", "G"}, tonic.Symbols())
	assert.Equal(t, []string{"I", "IV", "V"}, tonic.Pattern)
	assert.Contains(t, tonic.Tags, "default")

	turnaround := progressionByName(t, "ii-V-I")
	assert.Equal(t, []string{"Dm", "G", "C"}, turnaround.Symbols())
}

func TestChordProgressionsSymbolPresets(t *testing.T) {
	pop := progressionByName(t, "Pop")
	assert.Equal(t, []string{"C", "G", "Am", "F"}, pop.Symbols())
	assert.NotEmpty(t, pop.Description)

	jazz := progressionByName(t, "Jazz")
	assert.Equal(t, []string{"Cmaj7", "Dm7", "G7", "Cmaj7"}, jazz.Symbols())
}

func TestChordProgressionsPassValidation(t *testing.T) {
	progressions, err := ChordProgressions()
	require.NoError(t, err)
	for _, prog := range progressions {
		result := validation.ValidateChordProgression(prog, validation.LevelNormal)
		assert.True(t, result.IsValid, "%s: %+v", prog.Name, result.Violations)
	}
}

func TestNotePatternsCatalog(t *testing.T) {
	patterns, err := NotePatterns()
	require.NoError(t, err)
	require.Len(t, patterns, 6)

	triad := notePatternByName(t, DefaultNotePatternName)
	assert.Equal(t, []int{0, 4, 7}, triad.Data.Intervals)
	assert.Equal(t, theory.DirectionAscending, triad.Data.Direction)
	assert.Empty(t, triad.Pattern)

	notes, err := triad.Notes(nil)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, 60, notes[0].MIDINumber)
	assert.Equal(t, 64, notes[1].MIDINumber)
	assert.Equal(t, 67, notes[2].MIDINumber)
}

func TestNotePatternsDescendingScaleDescends(t *testing.T) {
	descending := notePatternByName(t, "Descending Scale")
	assert.Equal(t, theory.DirectionDescending, descending.Data.Direction)

	notes, err := descending.Notes(nil)
	require.NoError(t, err)
	require.Len(t, notes, 8)
	assert.Equal(t, 72, notes[0].MIDINumber)
	assert.Equal(t, 60, notes[len(notes)-1].MIDINumber)
	for i := 1; i < len(notes); i++ {
		assert.Less(t, notes[i].MIDINumber, notes[i-1].MIDINumber)
	}
}

func TestNotePatternsPassValidation(t *testing.T) {
	patterns, err := NotePatterns()
	require.NoError(t, err)
	for _, pattern := range patterns {
		result := validation.ValidateNotePattern(pattern, validation.LevelStrict)
		assert.True(t, result.IsValid, "%s: %+v", pattern.Name, result.Violations)
	}
}

func TestRhythmPatternsCatalog(t *testing.T) {
	patterns, err := RhythmPatterns()
	require.NoError(t, err)
	require.Len(t, patterns, 4)

	basic := rhythmPatternByName(t, DefaultRhythmPatternName)
	require.Len(t, basic.Pattern, 4)
	assert.Equal(t, "4/4", basic.TimeSignature.String())
	assert.InDelta(t, 4.0, basic.TotalDuration(), 1e-9)
	for i, note := range basic.Pattern {
		assert.Equal(t, float64(i), note.Position)
		assert.Equal(t, 1.0, note.Duration)
		assert.Equal(t, 100, note.Velocity)
	}

	swing := rhythmPatternByName(t, "swing_8ths")
	assert.True(t, swing.SwingEnabled)
	assert.Equal(t, domain.DefaultSwingRatio, swing.SwingRatio)
	require.Len(t, swing.Pattern, 8)
	assert.Equal(t, 3.5, swing.Pattern[7].Position)

	waltz := rhythmPatternByName(t, "waltz_3_4")
	assert.Equal(t, "3/4", waltz.TimeSignature.String())
	require.Len(t, waltz.Pattern, 3)
	assert.True(t, waltz.Pattern[0].Accent)

	compound := rhythmPatternByName(t, "compound_6_8")
	assert.Equal(t, "6/8", compound.TimeSignature.String())
	require.Len(t, compound.Pattern, 6)
	assert.True(t, compound.Pattern[0].Accent)
	assert.True(t, compound.Pattern[3].Accent)
	assert.False(t, compound.Pattern[1].Accent)
}

func TestRhythmPatternsPassStrictValidation(t *testing.T) {
	patterns, err := RhythmPatterns()
	require.NoError(t, err)
	for _, pattern := range patterns {
		result := validation.ValidateRhythmPattern(pattern, validation.LevelStrict)
		assert.True(t, result.IsValid, "%s: %+v", pattern.Name, result.Violations)
	}
}

func TestAllBundlesTheCatalog(t *testing.T) {
	catalog, err := All()
	require.NoError(t, err)
	assert.Len(t, catalog.Progressions, 8)
	assert.Len(t, catalog.NotePatterns, 6)
	assert.Len(t, catalog.RhythmPatterns, 4)
}

func TestDefaultNamesResolveToCatalogEntries(t *testing.T) {
	assert.Contains(t, CommonProgressions(), DefaultProgressionName)
	progressionByName(t, DefaultProgressionName)
	notePatternByName(t, DefaultNotePatternName)
	rhythmPatternByName(t, DefaultRhythmPatternName)
}
