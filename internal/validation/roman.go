package validation

import (
	"fmt"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

// RomanNumeralData is the wire shape of a roman numeral chord spec:
// the numeral itself plus optional accidental, inversion and a
// secondary-function target (V/V and friends).
type RomanNumeralData struct {
	Numeral    string            `json:"numeral"`
	Accidental string            `json:"accidental,omitempty"`
	Inversion  *int              `json:"inversion,omitempty"`
	Secondary  *RomanNumeralData `json:"secondary,omitempty"`
}

// ValidateRomanNumeral grades a roman numeral spec. Secondary chords
// are only descended into at STRICT.
func ValidateRomanNumeral(input any, level Level) Result {
	data, err := coerce[RomanNumeralData](input)
	if err != nil {
		return coercionFailure(err)
	}

	result := NewResult()
	validateRomanData(&result, data, "", level)
	return result
}

func validateRomanData(result *Result, data RomanNumeralData, prefix string, level Level) {
	if data.Numeral == "" {
		result.Add(CodeMissingField, "Missing required field: numeral", prefix+"numeral")
		return
	}
	if !theory.IsRomanNumeral(data.Numeral) {
		result.Addf(CodeInvalidField, prefix+"numeral", "Invalid roman numeral: %s", data.Numeral)
	}
	if data.Accidental != "" && data.Accidental != "#" && data.Accidental != "b" {
		result.Addf(CodeInvalidField, prefix+"accidental", "Invalid accidental: %s", data.Accidental)
	}
	if data.Inversion != nil && (*data.Inversion < 0 || *data.Inversion > 3) {
		result.Addf(CodeInvalidField, prefix+"inversion",
			"Inversion must be between 0 and 3: %d", *data.Inversion)
	}

	if data.Secondary != nil && level.AtLeast(LevelStrict) {
		validateRomanData(result, *data.Secondary, prefix+"secondary.", level)
	}
}

// RomanChordSymbol resolves a numeral to a concrete chord symbol in
// the given key, e.g. ii in C MAJOR is Dm. Used by the progression
// generator and exposed through the validation preview endpoint.
func RomanChordSymbol(key string, scale theory.ScaleType, numeral string) (string, error) {
	root, err := theory.ParsePitch(key + "4")
	if err != nil {
		return "", fmt.Errorf("parse key %q: %w", key, err)
	}
	degree, err := theory.RomanDegree(numeral)
	if err != nil {
		return "", err
	}
	pitch, err := scale.DegreePitch(root, degree)
	if err != nil {
		return "", err
	}
	quality, err := theory.RomanQuality(scale, numeral)
	if err != nil {
		return "", err
	}
	name := pitch.Letter + string(pitch.Accidental)
	return name + quality.Suffix(), nil
}
