package validation

import (
	"fmt"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
)

const (
	minProgressionChords = 2
	maxProgressionChords = 16
)

// ValidateChordProgression grades a chord progression. STRICT adds the
// arrangement rules: length bounds, chord variety, consecutive
// repeats and the closing cadence.
func ValidateChordProgression(input any, level Level) Result {
	prog, err := coerce[domain.ChordProgression](input)
	if err != nil {
		return coercionFailure(err)
	}

	result := NewResult()

	if err := domain.ValidatePatternName(prog.Name); err != nil {
		result.Add(CodeInvalidName, err.Error(), "name")
	}
	if _, err := prog.KeyPitch(); err != nil {
		result.Addf(CodeInvalidField, "key", "Invalid key: %s", prog.Key)
	}
	if !prog.ScaleType.Valid() {
		result.Addf(CodeInvalidField, "scale_type", "Invalid scale type: %s", prog.ScaleType)
	}
	if prog.Complexity < 0 || prog.Complexity > 1 {
		result.Addf(CodeInvalidField, "complexity",
			"complexity must be between 0 and 1: %v", prog.Complexity)
	}

	for i, item := range prog.Items {
		if err := item.Validate(); err != nil {
			result.Add(CodeValidationError, err.Error(), fmt.Sprintf("items[%d]", i))
		}
	}
	if !result.IsValid {
		return result
	}

	if level.AtLeast(LevelStrict) {
		validateProgressionArrangement(&result, prog)
	}
	return result
}

func validateProgressionArrangement(result *Result, prog domain.ChordProgression) {
	n := len(prog.Items)
	if n < minProgressionChords {
		result.Addf(CodeProgressionLength, "items",
			"Progression must contain at least %d chords", minProgressionChords)
		return
	}
	if n > maxProgressionChords {
		result.Addf(CodeProgressionLength, "items",
			"Progression exceeds maximum length of %d chords", maxProgressionChords)
	}

	unique := map[string]bool{}
	for _, item := range prog.Items {
		unique[item.Chord.Root+"|"+string(item.Chord.Quality)] = true
	}
	if len(unique) < 2 {
		result.Add(CodeChordVariety, "Progression should use more than one unique chord", "items")
	}

	for i := 0; i < n-1; i++ {
		current, next := prog.Items[i].Chord, prog.Items[i+1].Chord
		if current.Root == next.Root && current.Quality == next.Quality {
			result.Addf(CodeVoiceLeading, fmt.Sprintf("items[%d]", i),
				"Potential voice leading issue between chords %d and %d", i, i+1)
		}
	}

	validateCadence(result, prog)
}

// validateCadence expects an authentic close: dominant-degree root into
// the tonic. Only checked for diatonic scale types, where "dominant"
// is well defined.
func validateCadence(result *Result, prog domain.ChordProgression) {
	if !prog.ScaleType.IsDiatonic() || len(prog.Items) < 2 {
		return
	}
	keyPitch, err := prog.KeyPitch()
	if err != nil {
		return
	}
	dominant, err := prog.ScaleType.DegreePitch(keyPitch, 5)
	if err != nil {
		return
	}

	tonicMIDI, err := keyPitch.MIDI()
	if err != nil {
		return
	}
	dominantMIDI, err := dominant.MIDI()
	if err != nil {
		return
	}

	last := prog.Items[len(prog.Items)-1].Chord
	penultimate := prog.Items[len(prog.Items)-2].Chord
	lastMIDI, err := last.RootMIDI()
	if err != nil {
		return
	}
	penultimateMIDI, err := penultimate.RootMIDI()
	if err != nil {
		return
	}

	authentic := lastMIDI%12 == tonicMIDI%12 && penultimateMIDI%12 == dominantMIDI%12
	if !authentic {
		result.Add(CodeNonStandardCadence, "Non-standard cadence detected", "cadence")
	}
}
