package theory

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRomanNumeral = errors.New("invalid roman numeral")

// Roman numeral <-> scale degree tables. Case carries meaning (uppercase
// major-ish, lowercase minor-ish), so both spellings are listed.
var romanDegrees = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5, "VI": 6, "VII": 7,
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5, "vi": 6, "vii": 7,
}

var degreeRomans = map[int]string{
	1: "I", 2: "II", 3: "III", 4: "IV", 5: "V", 6: "VI", 7: "VII",
}

// Degree qualities per key family and numeral spelling, as used when a
// progression is generated from a roman-numeral pattern.
var romanQualities = map[ScaleType]map[string]ChordQuality{
	ScaleMajor: {
		"I": QualityMajor, "II": QualityMinor, "III": QualityMinor,
		"IV": QualityMajor, "V": QualityMajor, "VI": QualityMinor,
		"VII": QualityDiminished,
		"i":   QualityMinor, "ii": QualityMinor, "iii": QualityMinor,
		"iv": QualityMinor, "v": QualityMinor, "vi": QualityMinor,
		"vii": QualityDiminished,
	},
	ScaleMinor: {
		"I": QualityMinor, "II": QualityDiminished, "III": QualityMajor,
		"IV": QualityMinor, "V": QualityMinor, "VI": QualityMajor,
		"VII": QualityMajor,
		"i":   QualityMinor, "ii": QualityDiminished, "iii": QualityMajor,
		"iv": QualityMinor, "v": QualityMinor, "vi": QualityMajor,
		"vii": QualityMajor,
	},
}

// RomanDegree resolves a roman numeral (either case) to its 1-based scale
// degree.
func RomanDegree(numeral string) (int, error) {
	degree, ok := romanDegrees[strings.TrimSpace(numeral)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRomanNumeral, numeral)
	}
	return degree, nil
}

// DegreeRoman renders a 1-based scale degree as an uppercase roman numeral.
func DegreeRoman(degree int) (string, error) {
	numeral, ok := degreeRomans[degree]
	if !ok {
		return "", fmt.Errorf("%w: degree %d", ErrInvalidRomanNumeral, degree)
	}
	return numeral, nil
}

// IsRomanNumeral reports whether the string is a recognized numeral.
func IsRomanNumeral(numeral string) bool {
	_, ok := romanDegrees[strings.TrimSpace(numeral)]
	return ok
}

// RomanQuality returns the chord quality a numeral implies in the given
// scale family. Minor-family scales (natural, harmonic, melodic) use the
// minor table; everything else uses the major table.
func RomanQuality(scale ScaleType, numeral string) (ChordQuality, error) {
	numeral = strings.TrimSpace(numeral)
	if !IsRomanNumeral(numeral) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRomanNumeral, numeral)
	}
	family := ScaleMajor
	switch scale {
	case ScaleMinor, ScaleHarmonicMinor, ScaleMelodicMinor:
		family = ScaleMinor
	}
	return romanQualities[family][numeral], nil
}
