package validation

import (
	"fmt"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
)

// Consonant intervals (mod 12): unison/octave, thirds, fourth, fifth,
// sixths.
var consonantIntervals = map[int]bool{0: true, 3: true, 4: true, 7: true, 8: true, 9: true}

// ValidateNotePattern grades a note pattern. Input may be a typed
// domain.NotePattern or any loose shape (map, raw JSON) that coerces
// into one.
func ValidateNotePattern(input any, level Level) Result {
	pattern, err := coerce[domain.NotePattern](input)
	if err != nil {
		return coercionFailure(err)
	}

	result := NewResult()

	if err := domain.ValidatePatternName(pattern.Name); err != nil {
		result.Add(CodeInvalidName, err.Error(), "name")
	}

	if len(pattern.Pattern) == 0 && len(pattern.Data.Intervals) == 0 {
		result.Add(CodeEmptyPattern, "Pattern cannot be empty", "pattern")
		return result
	}

	if err := pattern.Data.Validate(); err != nil {
		result.Add(CodeValidationError, err.Error(), "data")
	}
	for i, note := range pattern.Pattern {
		if err := note.Validate(); err != nil {
			result.Add(CodeValidationError, err.Error(), fmt.Sprintf("pattern[%d]", i))
		}
	}
	if !result.IsValid {
		return result
	}

	validateNoteRange(&result, pattern)
	validateScaleCompatibility(&result, pattern)

	if level.AtLeast(LevelNormal) {
		validateVoiceLeading(&result, pattern)
	}
	if level.AtLeast(LevelStrict) {
		validateConsonance(&result, pattern)
		validatePatternParallelMotion(&result, pattern)
	}
	return result
}

func validateNoteRange(result *Result, pattern domain.NotePattern) {
	lo, hi := pattern.Data.OctaveRange[0], pattern.Data.OctaveRange[1]
	for _, note := range pattern.Pattern {
		if note.Octave < lo || note.Octave > hi {
			result.Addf(CodeOctaveRange, "note_range",
				"Note %s is outside allowed octave range (%d-%d)", note, lo, hi)
		}
	}
}

func validateScaleCompatibility(result *Result, pattern domain.NotePattern) {
	if pattern.ScaleInfo == nil {
		return
	}
	info := *pattern.ScaleInfo
	if err := info.Validate(); err != nil {
		result.Add(CodeValidationError, err.Error(), "scale_info")
		return
	}
	for _, note := range pattern.Pattern {
		ok, err := info.Contains(note)
		if err != nil {
			result.Add(CodeValidationError, err.Error(), "scale_compatibility")
			return
		}
		if !ok {
			result.Addf(CodeScaleCompatibility, "scale_compatibility",
				"Note %s is not compatible with scale %s %s", note, info.Key, info.ScaleType)
		}
	}
}

func validateVoiceLeading(result *Result, pattern domain.NotePattern) {
	if len(pattern.Pattern) < 2 {
		return
	}
	maxJump := pattern.Data.MaxIntervalJump
	for i := 0; i < len(pattern.Pattern)-1; i++ {
		current, currentOK := noteMIDI(pattern.Pattern[i])
		next, nextOK := noteMIDI(pattern.Pattern[i+1])
		if !currentOK || !nextOK {
			continue
		}
		interval := next - current
		if interval < 0 {
			interval = -interval
		}
		if interval > maxJump {
			result.Addf(CodeVoiceLeading, "voice_leading",
				"Voice leading violation: interval %d exceeds maximum %d", interval, maxJump)
		}
	}
}

func validateConsonance(result *Result, pattern domain.NotePattern) {
	for i := 0; i < len(pattern.Pattern)-1; i++ {
		current, next := pattern.Pattern[i], pattern.Pattern[i+1]
		currentMIDI, currentOK := noteMIDI(current)
		nextMIDI, nextOK := noteMIDI(next)
		if !currentOK || !nextOK {
			continue
		}
		interval := nextMIDI - currentMIDI
		if interval < 0 {
			interval = -interval
		}
		if !consonantIntervals[interval%12] {
			result.Addf(CodeStrictValidation, "strict_validation",
				"Dissonant interval %d between %s and %s", interval%12, current, next)
		}
	}
}

func validatePatternParallelMotion(result *Result, pattern domain.NotePattern) {
	for i := 0; i+2 < len(pattern.Pattern); i++ {
		a, aok := noteMIDI(pattern.Pattern[i])
		b, bok := noteMIDI(pattern.Pattern[i+1])
		c, cok := noteMIDI(pattern.Pattern[i+2])
		if !aok || !bok || !cok {
			continue
		}
		first := b - a
		second := c - b
		if first == second && first != 0 {
			result.Addf(CodeStrictValidation, "strict_validation",
				"Parallel motion detected at position %d", i)
		}
	}
}
