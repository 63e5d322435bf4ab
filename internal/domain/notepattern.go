package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

var (
	ErrInvalidPatternName  = errors.New("pattern name must start with a letter and contain only letters, digits, spaces, underscores and hyphens")
	ErrPatternNameLength   = errors.New("pattern name must be between 2 and 100 characters")
	ErrInvalidOctaveRange  = errors.New("octave range must satisfy 0 <= low <= high <= 8")
	ErrInvalidIntervalJump = errors.New("max interval jump must be positive")
	ErrNoPatternContent    = errors.New("note pattern has no notes or intervals")
)

// Octave-range and interval limits shared by pattern validation.
const (
	MinPatternOctave       = 0
	MaxPatternOctave       = 8
	DefaultMaxIntervalJump = 12
)

var patternNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9\s_-]*$`)

// ValidatePatternName enforces the shared naming rule for stored patterns
// and progressions: 2..100 characters, leading letter, then letters,
// digits, spaces, underscores or hyphens. Underscores keep stock names
// like "basic_4_4" legal.
func ValidatePatternName(name string) error {
	if len(name) < 2 || len(name) > 100 {
		return fmt.Errorf("%w: %q", ErrPatternNameLength, name)
	}
	if !patternNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPatternName, name)
	}
	return nil
}

// NotePatternData configures how a pattern's notes are produced and
// constrained. Intervals are semitone offsets from the root; when the
// pattern stores no explicit notes they are expanded lazily.
type NotePatternData struct {
	Key                 string                  `json:"key"`
	RootNote            string                  `json:"root_note"`
	ScaleType           theory.ScaleType        `json:"scale_type"`
	Direction           theory.PatternDirection `json:"direction"`
	Octave              int                     `json:"octave"`
	OctaveRange         [2]int                  `json:"octave_range"`
	MaxIntervalJump     int                     `json:"max_interval_jump"`
	Intervals           []int                   `json:"intervals,omitempty"`
	AllowChromatic      bool                    `json:"allow_chromatic"`
	UseScaleMode        bool                    `json:"use_scale_mode"`
	UseChordTones       bool                    `json:"use_chord_tones"`
	RestartOnChord      bool                    `json:"restart_on_chord"`
	AllowParallelMotion bool                    `json:"allow_parallel_motion"`
}

// DefaultNotePatternData returns the documented defaults: C major,
// ascending, octave 4 within range [2,6], max jump of an octave.
func DefaultNotePatternData() NotePatternData {
	return NotePatternData{
		Key:                 "C",
		RootNote:            "C",
		ScaleType:           theory.ScaleMajor,
		Direction:           theory.DirectionAscending,
		Octave:              DefaultOctave,
		OctaveRange:         [2]int{2, 6},
		MaxIntervalJump:     DefaultMaxIntervalJump,
		UseScaleMode:        true,
		UseChordTones:       true,
		AllowParallelMotion: true,
	}
}

// Validate checks the configuration's field-level legality.
func (d NotePatternData) Validate() error {
	lo, hi := d.OctaveRange[0], d.OctaveRange[1]
	if lo > hi || lo < MinPatternOctave || hi > MaxPatternOctave {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidOctaveRange, lo, hi)
	}
	if d.MaxIntervalJump <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIntervalJump, d.MaxIntervalJump)
	}
	if !d.ScaleType.Valid() {
		return fmt.Errorf("%w: %q", theory.ErrInvalidScaleType, string(d.ScaleType))
	}
	if !d.Direction.Valid() {
		return fmt.Errorf("%w: %q", theory.ErrUnknownPatternDirection, string(d.Direction))
	}
	return nil
}

// NotePattern is a reusable melodic shape: explicit notes, or intervals
// expanded on demand against the configured root and direction.
type NotePattern struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Complexity  float64         `json:"complexity"`
	Pattern     []Note          `json:"pattern"`
	Data        NotePatternData `json:"data"`
	ScaleInfo   *ScaleInfo      `json:"scale_info,omitempty"`
}

// UnmarshalJSON decodes over the pattern defaults (complexity 0.5 and
// the default data block).
func (p *NotePattern) UnmarshalJSON(data []byte) error {
	type alias NotePattern
	tmp := alias{Complexity: DefaultComplexity, Data: DefaultNotePatternData()}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*p = NotePattern(tmp)
	return nil
}

// NewNotePattern builds a pattern with default data and validates it.
// An empty note list is allowed when intervals will supply the content.
func NewNotePattern(name string, notes []Note) (NotePattern, error) {
	p := NotePattern{
		Name:       name,
		Complexity: DefaultComplexity,
		Pattern:    notes,
		Data:       DefaultNotePatternData(),
	}
	if err := p.Validate(); err != nil {
		return NotePattern{}, err
	}
	return p, nil
}

// Validate runs the construction rules: naming, complexity bounds, data
// legality and per-note invariants. Emptiness is a pipeline concern, not
// a construction failure.
func (p NotePattern) Validate() error {
	if err := ValidatePatternName(p.Name); err != nil {
		return err
	}
	if p.Complexity < 0 || p.Complexity > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidComplexity, p.Complexity)
	}
	if err := p.Data.Validate(); err != nil {
		return err
	}
	for i, note := range p.Pattern {
		if err := note.Validate(); err != nil {
			return fmt.Errorf("pattern[%d]: %w", i, err)
		}
	}
	return nil
}

// TotalDuration sums the explicit notes' durations.
func (p NotePattern) TotalDuration() float64 {
	total := 0.0
	for _, note := range p.Pattern {
		total += note.Duration
	}
	return total
}

// Notes materializes the pattern standalone, in its configured
// direction. This is the preview path for stored and imported patterns;
// sequence generation reads only the pattern's direction and expands
// chord tones instead. Explicit notes win over intervals; interval
// expansion roots at the configured note and octave with default
// duration and velocity. Positions are re-sequenced so each note starts
// where the previous one ends. rng is only consulted for the random
// direction.
func (p NotePattern) Notes(rng *rand.Rand) ([]Note, error) {
	var notes []Note
	switch {
	case len(p.Pattern) > 0:
		notes = append([]Note(nil), p.Pattern...)
	case len(p.Data.Intervals) > 0:
		expanded, err := p.expandIntervals()
		if err != nil {
			return nil, err
		}
		notes = expanded
	default:
		return nil, ErrNoPatternContent
	}

	ordered, err := theory.ApplyDirection(p.Data.Direction, notes, rng)
	if err != nil {
		return nil, err
	}

	position := 0.0
	for i := range ordered {
		ordered[i].Position = position
		position += ordered[i].Duration
	}
	return ordered, nil
}

func (p NotePattern) expandIntervals() ([]Note, error) {
	rootName := p.Data.RootNote
	if rootName == "" {
		rootName = p.Data.Key
	}
	root, err := theory.ParsePitch(fmt.Sprintf("%s%d", rootName, p.Data.Octave))
	if err != nil {
		return nil, err
	}
	rootMIDI, err := root.MIDI()
	if err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(p.Data.Intervals))
	for _, interval := range p.Data.Intervals {
		note, err := NoteFromMIDI(rootMIDI+interval, DefaultDuration, DefaultVelocity)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}
