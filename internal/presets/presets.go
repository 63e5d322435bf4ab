// Package presets ships the stock chord progressions, note patterns and
// rhythm patterns seeded into a fresh database, plus the defaults used
// when a generate request leaves a part unnamed.
package presets

import (
	"fmt"
	"sort"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/generator"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

// Defaults applied when a generate request names no parts.
const (
	DefaultKey               = "C"
	DefaultScaleType         = theory.ScaleMajor
	DefaultProgressionName   = "I-IV-V"
	DefaultNotePatternName   = "Simple Triad"
	DefaultRhythmPatternName = "basic_4_4"
)

var defaultTags = []string{"default"}

// commonProgressions maps stock progression names to their roman walks.
var commonProgressions = map[string][]string{
	"I-IV-V":    {"I", "IV", "V"},
	"I-V-vi-IV": {"I", "V", "vi", "IV"},
	"ii-V-I":    {"ii", "V", "I"},
	"I-vi-IV-V": {"I", "vi", "IV", "V"},
	"I-V-IV":    {"I", "V", "IV"},
	"ii-V-I-IV": {"ii", "V", "I", "IV"},
}

// symbolPresets are stock progressions spelled in chord symbols instead
// of roman numerals.
var symbolPresets = []struct {
	name        string
	symbols     []string
	description string
}{
	{"Pop", []string{"C", "G", "Am", "F"}, "Four-chord pop loop"},
	{"Jazz", []string{"Cmaj7", "Dm7", "G7", "Cmaj7"}, "Seventh-chord turnaround"},
}

var notePatternPresets = []struct {
	name        string
	intervals   []int
	direction   theory.PatternDirection
	description string
}{
	{"Simple Triad", []int{0, 4, 7}, theory.DirectionAscending, "Major triad pattern"},
	{"Minor Triad", []int{0, 3, 7}, theory.DirectionAscending, "Minor triad pattern"},
	{"Triad Arpeggio", []int{0, 4, 7, 12}, theory.DirectionAscending, "Major triad arpeggio"},
	{"Pentatonic", []int{0, 2, 4, 7, 9}, theory.DirectionAscending, "Pentatonic scale pattern"},
	{"Ascending Scale", []int{0, 2, 4, 5, 7, 9, 11, 12}, theory.DirectionAscending, "Basic ascending scale pattern"},
	{"Descending Scale", []int{0, 2, 4, 5, 7, 9, 11, 12}, theory.DirectionDescending, "Basic descending scale pattern"},
}

// CommonProgressions returns the stock roman walks keyed by name. The
// result is a copy; callers may mutate it.
func CommonProgressions() map[string][]string {
	out := make(map[string][]string, len(commonProgressions))
	for name, numerals := range commonProgressions {
		out[name] = append([]string(nil), numerals...)
	}
	return out
}

// ProgressionNames lists the stock roman-walk names, sorted.
func ProgressionNames() []string {
	names := make([]string, 0, len(commonProgressions))
	for name := range commonProgressions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChordProgressions builds the stock progressions: every common roman
// walk realized in the default key, plus the chord-symbol presets.
func ChordProgressions() ([]domain.ChordProgression, error) {
	gen := generator.ProgressionGenerator{
		Key:       DefaultKey,
		ScaleType: DefaultScaleType,
		Level:     validation.LevelNormal,
	}

	out := make([]domain.ChordProgression, 0, len(commonProgressions)+len(symbolPresets))
	for _, name := range ProgressionNames() {
		prog, err := gen.FromRomanPattern(name, commonProgressions[name])
		if err != nil {
			return nil, fmt.Errorf("progression %q: %w", name, err)
		}
		prog.Tags = append([]string(nil), defaultTags...)
		out = append(out, prog)
	}

	for _, preset := range symbolPresets {
		prog, err := domain.NewChordProgression(preset.name, DefaultKey, DefaultScaleType)
		if err != nil {
			return nil, fmt.Errorf("progression %q: %w", preset.name, err)
		}
		prog.Description = preset.description
		prog.Tags = append([]string(nil), defaultTags...)
		for _, symbol := range preset.symbols {
			chord, err := domain.ChordFromSymbol(symbol)
			if err != nil {
				return nil, fmt.Errorf("progression %q: %w", preset.name, err)
			}
			prog, err = prog.AddChord(chord, domain.DefaultDuration)
			if err != nil {
				return nil, fmt.Errorf("progression %q: %w", preset.name, err)
			}
		}
		out = append(out, prog)
	}
	return out, nil
}

// NotePatterns builds the stock melodic shapes. Each stores intervals
// only; notes expand lazily against the configured root.
func NotePatterns() ([]domain.NotePattern, error) {
	out := make([]domain.NotePattern, 0, len(notePatternPresets))
	for _, preset := range notePatternPresets {
		data := domain.DefaultNotePatternData()
		data.Intervals = append([]int(nil), preset.intervals...)
		data.Direction = preset.direction

		pattern := domain.NotePattern{
			Name:        preset.name,
			Description: preset.description,
			Tags:        append([]string(nil), defaultTags...),
			Complexity:  domain.DefaultComplexity,
			Data:        data,
		}
		if err := pattern.Validate(); err != nil {
			return nil, fmt.Errorf("note pattern %q: %w", preset.name, err)
		}
		out = append(out, pattern)
	}
	return out, nil
}

// RhythmPatterns builds the stock grooves: straight quarters, swung
// eighths, a waltz bar and an accented compound 6/8.
func RhythmPatterns() ([]domain.RhythmPattern, error) {
	basic := domain.DefaultRhythmPattern()
	basic.Name = DefaultRhythmPatternName
	basic.Description = "Basic 4/4 rhythm pattern with quarter notes"
	basic.Tags = []string{"default", "basic"}
	basic.Pattern = evenHits(4, 1.0)

	swing := domain.DefaultRhythmPattern()
	swing.Name = "swing_8ths"
	swing.Description = "Swung eighth notes"
	swing.Style = "swing"
	swing.Tags = []string{"swing"}
	swing.SwingEnabled = true
	swing.Pattern = evenHits(8, 0.5)

	waltz := domain.DefaultRhythmPattern()
	waltz.Name = "waltz_3_4"
	waltz.Description = "Classic waltz rhythm in 3/4"
	waltz.Style = "waltz"
	waltz.Tags = []string{"waltz"}
	waltz.TimeSignature = theory.TimeSignature{Numerator: 3, Denominator: 4}
	waltz.Pattern = evenHits(3, 1.0)
	waltz.Pattern[0].Accent = true

	compound := domain.DefaultRhythmPattern()
	compound.Name = "compound_6_8"
	compound.Description = "Compound 6/8 groove with accented beat groups"
	compound.Style = "compound"
	compound.Tags = []string{"compound"}
	compound.TimeSignature = theory.TimeSignature{Numerator: 6, Denominator: 8}
	compound.Pattern = evenHits(6, 1.0)
	compound.Pattern[0].Accent = true
	compound.Pattern[3].Accent = true

	patterns := []domain.RhythmPattern{basic, swing, waltz, compound}
	for _, pattern := range patterns {
		if err := pattern.Validate(); err != nil {
			return nil, fmt.Errorf("rhythm pattern %q: %w", pattern.Name, err)
		}
	}
	return patterns, nil
}

// evenHits lays out count notes back to back, each duration beats long,
// at preset velocity 100.
func evenHits(count int, duration float64) []domain.RhythmNote {
	notes := make([]domain.RhythmNote, count)
	for i := range notes {
		note := domain.DefaultRhythmNote()
		note.Position = float64(i) * duration
		note.Duration = duration
		note.Velocity = 100
		notes[i] = note
	}
	return notes
}

// Catalog bundles everything the database seeder inserts.
type Catalog struct {
	Progressions   []domain.ChordProgression
	NotePatterns   []domain.NotePattern
	RhythmPatterns []domain.RhythmPattern
}

// All builds the complete built-in catalog.
func All() (Catalog, error) {
	progressions, err := ChordProgressions()
	if err != nil {
		return Catalog{}, err
	}
	notePatterns, err := NotePatterns()
	if err != nil {
		return Catalog{}, err
	}
	rhythmPatterns, err := RhythmPatterns()
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{
		Progressions:   progressions,
		NotePatterns:   notePatterns,
		RhythmPatterns: rhythmPatterns,
	}, nil
}
