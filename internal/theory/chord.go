package theory

import (
	"errors"
	"fmt"
	"strings"
)

// ChordQuality tags a chord flavor; the semitone offsets live in
// qualityIntervals.
type ChordQuality string

const (
	QualityMajor                 ChordQuality = "MAJOR"
	QualityMinor                 ChordQuality = "MINOR"
	QualityDiminished            ChordQuality = "DIMINISHED"
	QualityAugmented             ChordQuality = "AUGMENTED"
	QualityDominant              ChordQuality = "DOMINANT"
	QualityDominantSeventh       ChordQuality = "DOMINANT_SEVENTH"
	QualityMajorSeventh          ChordQuality = "MAJOR_SEVENTH"
	QualityMinorSeventh          ChordQuality = "MINOR_SEVENTH"
	QualityHalfDiminished        ChordQuality = "HALF_DIMINISHED"
	QualityHalfDiminishedSeventh ChordQuality = "HALF_DIMINISHED_SEVENTH"
	QualityDiminishedSeventh     ChordQuality = "DIMINISHED_SEVENTH"
	QualitySuspendedSecond       ChordQuality = "SUSPENDED_SECOND"
	QualitySuspendedFourth       ChordQuality = "SUSPENDED_FOURTH"
	QualityMinorNinth            ChordQuality = "MINOR_NINTH"
	QualityMajorNinth            ChordQuality = "MAJOR_NINTH"
)

var ErrInvalidChordQuality = errors.New("invalid chord quality")

// Semitone offsets from the chord root for each quality.
var qualityIntervals = map[ChordQuality][]int{
	QualityMajor:                 {0, 4, 7},
	QualityMinor:                 {0, 3, 7},
	QualityDiminished:            {0, 3, 6},
	QualityAugmented:             {0, 4, 8},
	QualityDominant:              {0, 4, 7, 10},
	QualityDominantSeventh:       {0, 4, 7, 10},
	QualityMajorSeventh:          {0, 4, 7, 11},
	QualityMinorSeventh:          {0, 3, 7, 10},
	QualityHalfDiminished:        {0, 3, 6, 10},
	QualityHalfDiminishedSeventh: {0, 3, 6, 10},
	QualityDiminishedSeventh:     {0, 3, 6, 9},
	QualitySuspendedSecond:       {0, 2, 7},
	QualitySuspendedFourth:       {0, 5, 7},
	QualityMinorNinth:            {0, 3, 7, 10, 14},
	QualityMajorNinth:            {0, 4, 7, 11, 14},
}

// Case-sensitive aliases checked before the canonical-name match, so a
// bare "m" stays minor while "M" is major.
var qualityAliases = map[string]ChordQuality{
	"M":    QualityMajor,
	"maj":  QualityMajor,
	"MAJ":  QualityMajor,
	"m":    QualityMinor,
	"min":  QualityMinor,
	"MIN":  QualityMinor,
	"dim":  QualityDiminished,
	"DIM":  QualityDiminished,
	"°":    QualityDiminished,
	"aug":  QualityAugmented,
	"AUG":  QualityAugmented,
	"+":    QualityAugmented,
	"dom":  QualityDominant,
	"DOM":  QualityDominant,
	"7":    QualityDominantSeventh,
	"dom7": QualityDominantSeventh,
	"DOM7": QualityDominantSeventh,
	"maj7": QualityMajorSeventh,
	"MAJ7": QualityMajorSeventh,
	"M7":   QualityMajorSeventh,
	"m7":   QualityMinorSeventh,
	"min7": QualityMinorSeventh,
	"MIN7": QualityMinorSeventh,
	"ø":    QualityHalfDiminished,
	"ø7":   QualityHalfDiminishedSeventh,
	"m7b5": QualityHalfDiminishedSeventh,
	"dim7": QualityDiminishedSeventh,
	"DIM7": QualityDiminishedSeventh,
	"°7":   QualityDiminishedSeventh,
	"sus2": QualitySuspendedSecond,
	"sus4": QualitySuspendedFourth,
	"m9":   QualityMinorNinth,
	"min9": QualityMinorNinth,
	"maj9": QualityMajorNinth,
	"M9":   QualityMajorNinth,
}

// Lossy chord-symbol suffix table. Extended dominants (9, 7b9, 7#5, 7#9)
// collapse into DOMINANT_SEVENTH and unrecognized suffixes fall back to
// MAJOR; both are intentional simplifications carried over from the data
// this service imports.
var symbolSuffixes = map[string]ChordQuality{
	"":      QualityMajor,
	"maj":   QualityMajor,
	"5":     QualityMajor,
	"maj7":  QualityMajorSeventh,
	"m":     QualityMinor,
	"min":   QualityMinor,
	"m7":    QualityMinorSeventh,
	"min7":  QualityMinorSeventh,
	"dim":   QualityDiminished,
	"dim7":  QualityDiminishedSeventh,
	"aug":   QualityAugmented,
	"7":     QualityDominantSeventh,
	"9":     QualityDominantSeventh,
	"7b9":   QualityDominantSeventh,
	"7#5":   QualityDominantSeventh,
	"7#9":   QualityDominantSeventh,
	"sus4":  QualitySuspendedFourth,
	"7sus4": QualitySuspendedFourth,
	"sus2":  QualitySuspendedSecond,
	"m7b5":  QualityHalfDiminishedSeventh,
}

// Valid reports whether the quality is one of the known tags.
func (q ChordQuality) Valid() bool {
	_, ok := qualityIntervals[q]
	return ok
}

// Intervals returns the semitone offsets from the root for this quality.
// The slice is a copy.
func (q ChordQuality) Intervals() []int {
	intervals := qualityIntervals[q]
	out := make([]int, len(intervals))
	copy(out, intervals)
	return out
}

// MemberMIDI expands the quality from a root MIDI number into the chord's
// member notes, in interval order.
func (q ChordQuality) MemberMIDI(rootMIDI int) ([]int, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChordQuality, q)
	}
	notes := make([]int, 0, len(qualityIntervals[q]))
	for _, interval := range qualityIntervals[q] {
		midi := rootMIDI + interval
		if midi < 0 || midi > 127 {
			return nil, fmt.Errorf("%w: chord member %d", ErrMIDIOutOfRange, midi)
		}
		notes = append(notes, midi)
	}
	return notes, nil
}

// ParseChordQuality resolves a loose quality string: exact alias first
// (case-sensitive), then case-insensitive canonical name. Unknown strings
// are an error — the lossy MAJOR default belongs to ParseChordSymbol only.
func ParseChordQuality(s string) (ChordQuality, error) {
	trimmed := strings.TrimSpace(s)
	if q, ok := qualityAliases[trimmed]; ok {
		return q, nil
	}
	canonical := ChordQuality(strings.ToUpper(trimmed))
	if canonical.Valid() {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChordQuality, s)
}

// ParseChordSymbol splits a chord symbol like "Cmaj7", "Dm7b5" or "F#9"
// into its root pitch class and quality. The first rune is the letter
// root, an immediately following # or b extends it, and the remaining
// suffix goes through the lossy table (unknown suffixes default to MAJOR).
func ParseChordSymbol(symbol string) (root string, quality ChordQuality, err error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return "", "", fmt.Errorf("%w: empty chord symbol", ErrInvalidNoteName)
	}

	letter := strings.ToUpper(symbol[:1])
	if _, ok := noteBases[letter]; !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidNoteName, symbol)
	}
	root = letter
	idx := 1
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		root += string(symbol[1])
		idx = 2
	}

	suffix := symbol[idx:]
	if q, ok := symbolSuffixes[suffix]; ok {
		return root, q, nil
	}
	return root, QualityMajor, nil
}

// Symbol suffixes for rendering a chord back to its compact form.
var renderSuffixes = map[ChordQuality]string{
	QualityMajor:                 "",
	QualityMinor:                 "m",
	QualityDiminished:            "dim",
	QualityAugmented:             "aug",
	QualityDominant:              "7",
	QualityDominantSeventh:       "7",
	QualityMajorSeventh:          "maj7",
	QualityMinorSeventh:          "m7",
	QualityHalfDiminished:        "m7b5",
	QualityHalfDiminishedSeventh: "m7b5",
	QualityDiminishedSeventh:     "dim7",
	QualitySuspendedSecond:       "sus2",
	QualitySuspendedFourth:       "sus4",
	QualityMinorNinth:            "m9",
	QualityMajorNinth:            "maj9",
}

// Suffix returns the compact symbol suffix for the quality ("", "m",
// "maj7", ...).
func (q ChordQuality) Suffix() string {
	return renderSuffixes[q]
}
