package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

var (
	ErrEmptyRomanPattern  = errors.New("roman numeral pattern cannot be empty")
	ErrUnknownGenre       = errors.New("unknown genre")
	ErrProgressionInvalid = errors.New("generated progression failed validation")
)

type genreChord struct {
	degree  int
	quality theory.ChordQuality
}

// genrePatterns are the stock degree walks offered by the generate
// endpoint.
var genrePatterns = map[string][]genreChord{
	"pop": {
		{1, theory.QualityMajor},
		{4, theory.QualityMajor},
		{5, theory.QualityMajor},
		{1, theory.QualityMajor},
	},
	"jazz": {
		{2, theory.QualityMinor},
		{5, theory.QualityDominantSeventh},
		{1, theory.QualityMajorSeventh},
		{4, theory.QualityMajorSeventh},
	},
	"blues": {
		{1, theory.QualityDominantSeventh},
		{4, theory.QualityDominantSeventh},
		{5, theory.QualityDominantSeventh},
		{1, theory.QualityDominantSeventh},
	},
	"classical": {
		{1, theory.QualityMajor},
		{5, theory.QualityMajor},
		{4, theory.QualityMajor},
		{1, theory.QualityMajor},
	},
}

// Genres lists the stock genre walks in stable order.
func Genres() []string {
	return []string{"blues", "classical", "jazz", "pop"}
}

// ProgressionGenerator builds chord progressions in a key from roman
// numeral patterns or stock genre walks.
type ProgressionGenerator struct {
	Key       string
	ScaleType theory.ScaleType
	Level     validation.Level
}

// FromRomanPattern resolves numerals like ["ii", "V", "I"] into chords
// one beat apart, qualities taken from the scale family's table.
func (g ProgressionGenerator) FromRomanPattern(name string, numerals []string) (domain.ChordProgression, error) {
	if len(numerals) == 0 {
		return domain.ChordProgression{}, ErrEmptyRomanPattern
	}

	prog, err := domain.NewChordProgression(name, g.Key, g.ScaleType)
	if err != nil {
		return domain.ChordProgression{}, err
	}
	prog.Pattern = append([]string(nil), numerals...)

	root, err := prog.KeyPitch()
	if err != nil {
		return domain.ChordProgression{}, err
	}

	position := 0.0
	for _, numeral := range numerals {
		degree, err := theory.RomanDegree(numeral)
		if err != nil {
			return domain.ChordProgression{}, err
		}
		quality, err := theory.RomanQuality(g.ScaleType, numeral)
		if err != nil {
			return domain.ChordProgression{}, err
		}
		chord, err := g.degreeChord(root, degree, quality)
		if err != nil {
			return domain.ChordProgression{}, err
		}
		prog, err = prog.AddChordAt(chord, 1.0, position)
		if err != nil {
			return domain.ChordProgression{}, err
		}
		position += 1.0
	}
	return g.finish(prog)
}

// FromGenre builds one of the stock genre walks in the generator's key.
func (g ProgressionGenerator) FromGenre(name, genre string) (domain.ChordProgression, error) {
	pattern, ok := genrePatterns[strings.ToLower(strings.TrimSpace(genre))]
	if !ok {
		return domain.ChordProgression{}, fmt.Errorf("%w: %q", ErrUnknownGenre, genre)
	}

	prog, err := domain.NewChordProgression(name, g.Key, g.ScaleType)
	if err != nil {
		return domain.ChordProgression{}, err
	}

	root, err := prog.KeyPitch()
	if err != nil {
		return domain.ChordProgression{}, err
	}

	position := 0.0
	for _, gc := range pattern {
		chord, err := g.degreeChord(root, gc.degree, gc.quality)
		if err != nil {
			return domain.ChordProgression{}, err
		}
		prog, err = prog.AddChordAt(chord, 1.0, position)
		if err != nil {
			return domain.ChordProgression{}, err
		}
		position += 1.0
	}
	return g.finish(prog)
}

func (g ProgressionGenerator) degreeChord(root theory.Pitch, degree int, quality theory.ChordQuality) (domain.Chord, error) {
	pitch, err := g.ScaleType.DegreePitch(root, degree)
	if err != nil {
		return domain.Chord{}, err
	}
	return domain.NewChord(pitch.Letter+string(pitch.Accidental), quality)
}

func (g ProgressionGenerator) finish(prog domain.ChordProgression) (domain.ChordProgression, error) {
	result := validation.ValidateChordProgression(prog, g.Level)
	if !result.IsValid && g.Level.AtLeast(validation.LevelStrict) {
		return domain.ChordProgression{}, fmt.Errorf("%w: %s", ErrProgressionInvalid, violationSummary(result))
	}
	return prog, nil
}
