package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

func progressionOf(t *testing.T, symbols ...string) domain.ChordProgression {
	t.Helper()
	prog, err := domain.NewChordProgression("Test Progression", "C", theory.ScaleMajor)
	require.NoError(t, err)
	for _, symbol := range symbols {
		chord, err := domain.ChordFromSymbol(symbol)
		require.NoError(t, err)
		prog, err = prog.AddChord(chord, 1.0)
		require.NoError(t, err)
	}
	return prog
}

func TestValidateChordProgressionValidAtEveryLevel(t *testing.T) {
	prog := progressionOf(t, "C", "F", "G", "C")
	for _, level := range []Level{LevelBasic, LevelNormal, LevelStrict} {
		t.Run(level.String(), func(t *testing.T) {
			result := ValidateChordProgression(prog, level)
			assert.True(t, result.IsValid, "violations: %v", result.Violations)
		})
	}
}

func TestValidateChordProgressionFromMap(t *testing.T) {
	result := ValidateChordProgression(map[string]any{
		"name": "Pop Hooks",
		"items": []any{
			map[string]any{"chord": map[string]any{"root": "C"}, "duration": 2.0, "position": 0.0},
			map[string]any{"chord": map[string]any{"root": "G"}, "duration": 2.0, "position": 2.0},
		},
	}, LevelNormal)

	assert.True(t, result.IsValid, "violations: %v", result.Violations)
}

func TestValidateChordProgressionBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.ChordProgression)
		path   string
	}{
		{"key", func(p *domain.ChordProgression) { p.Key = "H" }, "key"},
		{"scale type", func(p *domain.ChordProgression) { p.ScaleType = "KLINGON" }, "scale_type"},
		{"complexity", func(p *domain.ChordProgression) { p.Complexity = 1.5 }, "complexity"},
		{"name", func(p *domain.ChordProgression) { p.Name = "!" }, "name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog := progressionOf(t, "C", "F", "G", "C")
			tc.mutate(&prog)

			result := ValidateChordProgression(prog, LevelStrict)

			assert.False(t, result.IsValid)
			require.Len(t, result.Violations, 1)
			assert.Equal(t, tc.path, result.Violations[0].Path)
		})
	}
}

func TestValidateChordProgressionStructuralGate(t *testing.T) {
	prog := progressionOf(t, "C", "C")
	prog.Items[1].Duration = -1

	result := ValidateChordProgression(prog, LevelStrict)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, CodeValidationError, result.Violations[0].Code)
	assert.Equal(t, "items[1]", result.Violations[0].Path)
}

func TestValidateChordProgressionTooShort(t *testing.T) {
	prog := progressionOf(t, "C")

	normal := ValidateChordProgression(prog, LevelNormal)
	assert.True(t, normal.IsValid, "violations: %v", normal.Violations)

	strict := ValidateChordProgression(prog, LevelStrict)
	assert.False(t, strict.IsValid)
	require.Len(t, strict.Violations, 1)
	assert.Equal(t, CodeProgressionLength, strict.Violations[0].Code)
}

func TestValidateChordProgressionTooLong(t *testing.T) {
	symbols := make([]string, 17)
	for i := range symbols {
		if i%2 == 0 {
			symbols[i] = "C"
		} else {
			symbols[i] = "G"
		}
	}
	prog := progressionOf(t, symbols...)

	strict := ValidateChordProgression(prog, LevelStrict)

	assert.False(t, strict.IsValid)
	require.Len(t, strict.Violations, 1)
	assert.Equal(t, CodeProgressionLength, strict.Violations[0].Code)
	assert.Contains(t, strict.Violations[0].Message, "maximum length of 16")
}

func TestValidateChordProgressionRepeats(t *testing.T) {
	prog := progressionOf(t, "C", "C")

	strict := ValidateChordProgression(prog, LevelStrict)

	assert.False(t, strict.IsValid)
	codes := violationCodes(strict)
	assert.Contains(t, codes, CodeChordVariety)
	assert.Contains(t, codes, CodeVoiceLeading)
	assert.Contains(t, codes, CodeNonStandardCadence)
	assert.Len(t, strict.Violations, 3)
}

func TestValidateChordProgressionCadence(t *testing.T) {
	prog := progressionOf(t, "C", "F", "Am")

	normal := ValidateChordProgression(prog, LevelNormal)
	assert.True(t, normal.IsValid, "violations: %v", normal.Violations)

	strict := ValidateChordProgression(prog, LevelStrict)
	assert.False(t, strict.IsValid)
	require.Len(t, strict.Violations, 1)
	assert.Equal(t, CodeNonStandardCadence, strict.Violations[0].Code)
}

func TestValidateChordProgressionCadenceSkipsNonDiatonic(t *testing.T) {
	prog := progressionOf(t, "C", "F", "Am")
	prog.ScaleType = theory.ScaleChromatic

	strict := ValidateChordProgression(prog, LevelStrict)

	assert.True(t, strict.IsValid, "violations: %v", strict.Violations)
}

func TestValidateChordProgressionDominantCadenceInMinor(t *testing.T) {
	prog, err := domain.NewChordProgression("Minor Cadence", "A", theory.ScaleMinor)
	require.NoError(t, err)
	for _, symbol := range []string{"Am", "Dm", "Em", "Am"} {
		chord, err := domain.ChordFromSymbol(symbol)
		require.NoError(t, err)
		prog, err = prog.AddChord(chord, 1.0)
		require.NoError(t, err)
	}

	strict := ValidateChordProgression(prog, LevelStrict)

	assert.True(t, strict.IsValid, "violations: %v", strict.Violations)
}
