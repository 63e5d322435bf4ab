package validation

import (
	"fmt"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

// ValidateRhythmPattern grades a rhythm pattern. Unlike construction,
// which fails on the first broken rule, the pipeline reports every
// broken rule at once.
func ValidateRhythmPattern(input any, level Level) Result {
	pattern, err := coerce[domain.RhythmPattern](input)
	if err != nil {
		return coercionFailure(err)
	}

	result := NewResult()

	if err := domain.ValidatePatternName(pattern.Name); err != nil {
		result.Add(CodeInvalidName, err.Error(), "name")
	}

	if len(pattern.Pattern) == 0 {
		result.Add(CodeEmptyPattern, "Pattern cannot be empty", "pattern")
		return result
	}

	ts := pattern.TimeSignature
	meterKnown := true
	if _, err := theory.NewTimeSignature(ts.Numerator, ts.Denominator); err != nil {
		result.Add(CodeInvalidField, err.Error(), "time_signature")
		meterKnown = false
	}

	for i, note := range pattern.Pattern {
		if err := note.Validate(); err != nil {
			result.Add(CodeValidationError, err.Error(), fmt.Sprintf("pattern[%d]", i))
		}
	}

	if meterKnown {
		validateBarSpan(&result, pattern)
		if ts.IsCompound() {
			validateCompoundAccents(&result, pattern)
		}
	}

	validateFeelBounds(&result, pattern)

	if pattern.GrooveTemplate != nil {
		if err := pattern.GrooveTemplate.Validate(); err != nil {
			result.Add(CodeInvalidField, err.Error(), "groove_template")
		}
	}

	if level.AtLeast(LevelNormal) {
		validateNoteOrder(&result, pattern)
	}
	return result
}

// validateBarSpan flags patterns whose last onset lands before the
// final beat of the bar.
func validateBarSpan(result *Result, pattern domain.RhythmPattern) {
	beats := pattern.TimeSignature.Beats()
	last := pattern.Pattern[len(pattern.Pattern)-1].Position
	if last < float64(beats-1) {
		result.Addf(CodePatternDuration, "pattern",
			"pattern duration must be at least %d beats: last position %.2f < %d",
			beats, last, beats-1)
	}
}

// validateCompoundAccents reports every unaccented or missing
// group-of-three downbeat for 6/8, 9/8 and 12/8.
func validateCompoundAccents(result *Result, pattern domain.RhythmPattern) {
	n := pattern.TimeSignature.Numerator
	for i := 0; i < n; i += 3 {
		if i >= len(pattern.Pattern) {
			result.Addf(CodePatternTooShort, "pattern",
				"pattern too short for compound meter %s: needs a note at index %d",
				pattern.TimeSignature, i)
			continue
		}
		if !pattern.Pattern[i].Accent {
			result.Addf(CodeMissingAccent, fmt.Sprintf("pattern[%d]", i),
				"compound meter %s requires an accent at index %d", pattern.TimeSignature, i)
		}
	}
}

func validateFeelBounds(result *Result, pattern domain.RhythmPattern) {
	if pattern.Complexity < 0 || pattern.Complexity > 1 {
		result.Addf(CodeInvalidField, "complexity",
			"complexity must be between 0 and 1: %v", pattern.Complexity)
	}
	if pattern.SwingRatio < 0.5 || pattern.SwingRatio > 0.75 {
		result.Addf(CodeInvalidField, "swing_ratio",
			"swing ratio must be between 0.5 and 0.75: %v", pattern.SwingRatio)
	}
	if pattern.HumanizeAmount < 0 || pattern.HumanizeAmount > 1 {
		result.Addf(CodeInvalidField, "humanize_amount",
			"humanize amount must be between 0 and 1: %v", pattern.HumanizeAmount)
	}
	if pattern.VariationProbability < 0 || pattern.VariationProbability > 1 {
		result.Addf(CodeInvalidField, "variation_probability",
			"variation probability must be between 0 and 1: %v", pattern.VariationProbability)
	}
}

func validateNoteOrder(result *Result, pattern domain.RhythmPattern) {
	for i := 1; i < len(pattern.Pattern); i++ {
		if pattern.Pattern[i].Position < pattern.Pattern[i-1].Position {
			result.Addf(CodeOutOfOrder, fmt.Sprintf("pattern[%d]", i),
				"notes must be ordered by position: %.2f before %.2f",
				pattern.Pattern[i].Position, pattern.Pattern[i-1].Position)
		}
	}
}
