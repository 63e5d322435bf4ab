package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

func backbeatMap(positions ...float64) map[string]any {
	hits := make([]any, 0, len(positions))
	for _, p := range positions {
		hits = append(hits, map[string]any{"position": p})
	}
	return map[string]any{"name": "Basic Rock", "pattern": hits}
}

func typedRhythmPattern(t *testing.T, positions ...float64) domain.RhythmPattern {
	t.Helper()
	pattern := domain.DefaultRhythmPattern()
	pattern.Name = "Basic Rock"
	for _, p := range positions {
		note := domain.DefaultRhythmNote()
		note.Position = p
		pattern.Pattern = append(pattern.Pattern, note)
	}
	return pattern
}

func TestValidateRhythmPatternValidAtEveryLevel(t *testing.T) {
	input := backbeatMap(0, 1, 2, 3)
	for _, level := range []Level{LevelBasic, LevelNormal, LevelStrict} {
		t.Run(level.String(), func(t *testing.T) {
			result := ValidateRhythmPattern(input, level)
			assert.True(t, result.IsValid, "violations: %v", result.Violations)
		})
	}
}

func TestValidateRhythmPatternEmptyReturnsEarly(t *testing.T) {
	result := ValidateRhythmPattern(map[string]any{"name": "Basic Rock"}, LevelStrict)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, CodeEmptyPattern, result.Violations[0].Code)
}

func TestValidateRhythmPatternShortBar(t *testing.T) {
	result := ValidateRhythmPattern(backbeatMap(0, 1), LevelBasic)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	violation := result.Violations[0]
	assert.Equal(t, CodePatternDuration, violation.Code)
	assert.Contains(t, violation.Message, "at least 4 beats")
}

func TestValidateRhythmPatternUnknownMeterOnWire(t *testing.T) {
	input := map[string]any{
		"name":           "Odd Meter Groove",
		"pattern":        []any{map[string]any{"position": 0.0}},
		"time_signature": "5/4",
	}
	result := ValidateRhythmPattern(input, LevelNormal)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, CodeValidationError, result.Violations[0].Code)
}

func TestValidateRhythmPatternUnknownMeterTyped(t *testing.T) {
	pattern := typedRhythmPattern(t, 0, 1)
	pattern.TimeSignature = theory.TimeSignature{Numerator: 5, Denominator: 4}

	result := ValidateRhythmPattern(pattern, LevelNormal)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, CodeInvalidField, result.Violations[0].Code)
	assert.Equal(t, "time_signature", result.Violations[0].Path)
}

func TestValidateRhythmPatternCompoundAccents(t *testing.T) {
	pattern := typedRhythmPattern(t, 0, 1, 2, 3, 4, 5)
	ts, err := theory.NewTimeSignature(6, 8)
	require.NoError(t, err)
	pattern.TimeSignature = ts
	pattern.Pattern[0].Accent = true

	result := ValidateRhythmPattern(pattern, LevelNormal)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	violation := result.Violations[0]
	assert.Equal(t, CodeMissingAccent, violation.Code)
	assert.Equal(t, "pattern[3]", violation.Path)
}

func TestValidateRhythmPatternCompoundTooShort(t *testing.T) {
	pattern := typedRhythmPattern(t, 0, 5)
	ts, err := theory.NewTimeSignature(6, 8)
	require.NoError(t, err)
	pattern.TimeSignature = ts
	pattern.Pattern[0].Accent = true

	result := ValidateRhythmPattern(pattern, LevelNormal)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, CodePatternTooShort, result.Violations[0].Code)
}

func TestValidateRhythmPatternAccumulatesViolations(t *testing.T) {
	pattern := typedRhythmPattern(t, 0, 1)
	pattern.Name = "DJ Mix!!"
	pattern.SwingRatio = 0.9
	pattern.Complexity = 2

	result := ValidateRhythmPattern(pattern, LevelBasic)

	assert.False(t, result.IsValid)
	codes := violationCodes(result)
	assert.Contains(t, codes, CodeInvalidName)
	assert.Contains(t, codes, CodePatternDuration)
	assert.Contains(t, codes, CodeInvalidField)
	assert.Len(t, result.Violations, 4)
}

func TestValidateRhythmPatternFeelBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.RhythmPattern)
		path   string
	}{
		{"complexity", func(p *domain.RhythmPattern) { p.Complexity = 1.5 }, "complexity"},
		{"swing ratio", func(p *domain.RhythmPattern) { p.SwingRatio = 0.4 }, "swing_ratio"},
		{"humanize", func(p *domain.RhythmPattern) { p.HumanizeAmount = -0.1 }, "humanize_amount"},
		{"variation", func(p *domain.RhythmPattern) { p.VariationProbability = 1.2 }, "variation_probability"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pattern := typedRhythmPattern(t, 0, 1, 2, 3)
			tc.mutate(&pattern)

			result := ValidateRhythmPattern(pattern, LevelBasic)

			assert.False(t, result.IsValid)
			require.Len(t, result.Violations, 1)
			assert.Equal(t, CodeInvalidField, result.Violations[0].Code)
			assert.Equal(t, tc.path, result.Violations[0].Path)
		})
	}
}

func TestValidateRhythmPatternBadGrooveTemplate(t *testing.T) {
	pattern := typedRhythmPattern(t, 0, 1, 2, 3)
	pattern.GrooveTemplate = &domain.GrooveTemplate{Timing: []float64{0.1}, Velocity: []float64{1.0, 0.9}}

	result := ValidateRhythmPattern(pattern, LevelBasic)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "groove_template", result.Violations[0].Path)
}

func TestValidateRhythmPatternNoteOrder(t *testing.T) {
	pattern := typedRhythmPattern(t, 1, 0, 2, 3)

	basic := ValidateRhythmPattern(pattern, LevelBasic)
	assert.True(t, basic.IsValid, "violations: %v", basic.Violations)

	normal := ValidateRhythmPattern(pattern, LevelNormal)
	assert.False(t, normal.IsValid)
	require.Len(t, normal.Violations, 1)
	violation := normal.Violations[0]
	assert.Equal(t, CodeOutOfOrder, violation.Code)
	assert.Equal(t, "pattern[1]", violation.Path)
}

func TestValidateRhythmPatternBrokenNote(t *testing.T) {
	pattern := typedRhythmPattern(t, 0, 1, 2, 3)
	pattern.Pattern[2].Velocity = 300

	result := ValidateRhythmPattern(pattern, LevelBasic)

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, CodeValidationError, result.Violations[0].Code)
	assert.Equal(t, "pattern[2]", result.Violations[0].Path)
}
