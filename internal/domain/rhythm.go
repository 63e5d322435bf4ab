package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

var (
	ErrInvalidTuplet      = errors.New("tuplet ratio must have numerator >= denominator > 0")
	ErrInvalidGroove      = errors.New("groove value out of range")
	ErrEmptyRhythm        = errors.New("rhythm pattern cannot be empty")
	ErrPatternTooShort    = errors.New("pattern too short")
	ErrMissingAccent      = errors.New("missing compound-meter accent")
	ErrInvalidComplexity  = errors.New("complexity must be between 0 and 1")
	ErrInvalidSwingRatio  = errors.New("swing ratio must be between 0.5 and 0.75")
	ErrInvalidHumanize    = errors.New("humanize amount must be between 0 and 1")
	ErrInvalidVariation   = errors.New("variation probability must be between 0 and 1")
	ErrGrooveTemplateSize = errors.New("groove template timing and velocity lengths differ")
)

// Swing, humanize and variation defaults for rhythm patterns.
const (
	DefaultSwingRatio = 0.67
	DefaultComplexity = 0.5
	DefaultVariation  = 0.1
	accentBoost       = 1.2
	maxVelocity       = 127
)

// TupletRatio scales nominal durations: a triplet is 3:2 (three notes in
// the time of two). Serialized as the pair [num, den].
type TupletRatio struct {
	Numerator   int
	Denominator int
}

// NewTupletRatio validates num >= den > 0.
func NewTupletRatio(num, den int) (TupletRatio, error) {
	r := TupletRatio{Numerator: num, Denominator: den}
	if err := r.Validate(); err != nil {
		return TupletRatio{}, err
	}
	return r, nil
}

// Validate checks the ratio's bounds.
func (r TupletRatio) Validate() error {
	if r.Numerator <= 0 || r.Denominator <= 0 || r.Numerator < r.Denominator {
		return fmt.Errorf("%w: %d:%d", ErrInvalidTuplet, r.Numerator, r.Denominator)
	}
	return nil
}

// IsStraight reports whether the ratio leaves durations untouched (1:1).
func (r TupletRatio) IsStraight() bool {
	return r.Numerator == r.Denominator
}

func (r TupletRatio) String() string {
	return fmt.Sprintf("%d:%d", r.Numerator, r.Denominator)
}

// MarshalJSON emits the [num, den] pair.
func (r TupletRatio) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Numerator, r.Denominator})
}

// UnmarshalJSON accepts a [num, den] pair.
func (r *TupletRatio) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTuplet, string(data))
	}
	r.Numerator, r.Denominator = pair[0], pair[1]
	return nil
}

// RhythmNote is one onset in a rhythm pattern. Groove fields hold the
// last applied groove adjustment; the Actual* methods expose the derived
// performance values.
type RhythmNote struct {
	Position       float64     `json:"position"`
	Duration       float64     `json:"duration"`
	Velocity       int         `json:"velocity"`
	Accent         bool        `json:"accent"`
	TupletRatio    TupletRatio `json:"tuplet_ratio"`
	GrooveOffset   float64     `json:"groove_offset"`
	GrooveVelocity float64     `json:"groove_velocity"`
}

// DefaultRhythmNote returns a note with the documented defaults: one beat
// long, velocity 64, straight 1:1 tuplet, neutral groove.
func DefaultRhythmNote() RhythmNote {
	return RhythmNote{
		Duration:       DefaultDuration,
		Velocity:       DefaultVelocity,
		TupletRatio:    TupletRatio{1, 1},
		GrooveVelocity: 1.0,
	}
}

// NewRhythmNote places a default note at a position with a duration.
func NewRhythmNote(position, duration float64) (RhythmNote, error) {
	n := DefaultRhythmNote()
	n.Position = position
	n.Duration = duration
	if err := n.Validate(); err != nil {
		return RhythmNote{}, err
	}
	return n, nil
}

// UnmarshalJSON decodes over the note defaults so sparse documents keep
// velocity 64, a straight tuplet and neutral groove.
func (n *RhythmNote) UnmarshalJSON(data []byte) error {
	type alias RhythmNote
	tmp := alias(DefaultRhythmNote())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*n = RhythmNote(tmp)
	return nil
}

// Validate checks every structural invariant of the rhythm note.
func (n RhythmNote) Validate() error {
	if n.Position < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, n.Position)
	}
	if n.Duration <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, n.Duration)
	}
	if n.Velocity < 0 || n.Velocity > maxVelocity {
		return fmt.Errorf("%w: %d", ErrInvalidVelocity, n.Velocity)
	}
	if err := n.TupletRatio.Validate(); err != nil {
		return err
	}
	if n.GrooveOffset < -1 || n.GrooveOffset > 1 {
		return fmt.Errorf("%w: groove_offset %v not in [-1, 1]", ErrInvalidGroove, n.GrooveOffset)
	}
	if n.GrooveVelocity < 0 || n.GrooveVelocity > 2 {
		return fmt.Errorf("%w: groove_velocity %v not in [0, 2]", ErrInvalidGroove, n.GrooveVelocity)
	}
	return nil
}

// ActualPosition is the played position: nominal plus groove offset.
func (n RhythmNote) ActualPosition() float64 {
	return n.Position + n.GrooveOffset
}

// ActualVelocity is the played velocity: nominal scaled by the groove
// multiplier and the accent boost, capped at 127. The cap is a ceiling on
// the computed value, not a range check.
func (n RhythmNote) ActualVelocity() int {
	v := float64(n.Velocity) * n.GrooveVelocity
	if n.Accent {
		v *= accentBoost
	}
	return int(math.Min(maxVelocity, math.Round(v)))
}

// ActualDuration is the played duration after tuplet scaling:
// duration * den / num, so a 3:2 triplet shortens notes to two thirds.
func (n RhythmNote) ActualDuration() float64 {
	if n.TupletRatio.IsStraight() {
		return n.Duration
	}
	return n.Duration * float64(n.TupletRatio.Denominator) / float64(n.TupletRatio.Numerator)
}

// GrooveTemplate is a pair of parallel per-step arrays applied cyclically
// across a pattern to humanize playback.
type GrooveTemplate struct {
	Timing   []float64 `json:"timing"`
	Velocity []float64 `json:"velocity"`
}

// Validate requires the two arrays to be non-empty and equally long.
func (g GrooveTemplate) Validate() error {
	if len(g.Timing) != len(g.Velocity) {
		return fmt.Errorf("%w: timing %d, velocity %d", ErrGrooveTemplateSize, len(g.Timing), len(g.Velocity))
	}
	if len(g.Timing) == 0 {
		return fmt.Errorf("%w: empty template", ErrGrooveTemplateSize)
	}
	return nil
}

// RhythmPattern is an ordered bar (or more) of rhythm notes under a time
// signature, with pattern-level feel controls.
type RhythmPattern struct {
	Name                 string               `json:"name"`
	Pattern              []RhythmNote         `json:"pattern"`
	TimeSignature        theory.TimeSignature `json:"time_signature"`
	Description          string               `json:"description,omitempty"`
	Complexity           float64              `json:"complexity"`
	Style                string               `json:"style,omitempty"`
	SwingEnabled         bool                 `json:"swing_enabled"`
	SwingRatio           float64              `json:"swing_ratio"`
	HumanizeAmount       float64              `json:"humanize_amount"`
	VariationProbability float64              `json:"variation_probability"`
	GrooveTemplate       *GrooveTemplate      `json:"groove_template,omitempty"`
	Tags                 []string             `json:"tags,omitempty"`
}

// DefaultRhythmPattern returns an unnamed empty pattern carrying the
// documented defaults (4/4, complexity 0.5, swing 0.67 disabled).
func DefaultRhythmPattern() RhythmPattern {
	return RhythmPattern{
		TimeSignature:        theory.TimeSignature{Numerator: 4, Denominator: 4},
		Complexity:           DefaultComplexity,
		Style:                "basic",
		SwingRatio:           DefaultSwingRatio,
		VariationProbability: DefaultVariation,
	}
}

// UnmarshalJSON decodes over the pattern defaults (4/4, complexity 0.5,
// swing ratio 0.67).
func (p *RhythmPattern) UnmarshalJSON(data []byte) error {
	type alias RhythmPattern
	tmp := alias(DefaultRhythmPattern())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*p = RhythmPattern(tmp)
	return nil
}

// NewRhythmPattern builds and validates a pattern with default feel
// settings.
func NewRhythmPattern(name string, notes []RhythmNote, ts theory.TimeSignature) (RhythmPattern, error) {
	p := DefaultRhythmPattern()
	p.Name = name
	p.Pattern = notes
	p.TimeSignature = ts
	if err := p.Validate(); err != nil {
		return RhythmPattern{}, err
	}
	return p, nil
}

// Validate runs every construction rule: per-note invariants, meter
// legality, the bar-span lower bound, the compound-meter accent rule and
// the feel-control bounds. Out-of-range values fail, they are never
// clamped.
func (p RhythmPattern) Validate() error {
	if len(p.Pattern) == 0 {
		return ErrEmptyRhythm
	}
	if _, err := theory.NewTimeSignature(p.TimeSignature.Numerator, p.TimeSignature.Denominator); err != nil {
		return err
	}
	for i, note := range p.Pattern {
		if err := note.Validate(); err != nil {
			return fmt.Errorf("pattern[%d]: %w", i, err)
		}
	}

	// The pattern must span the bar: the last onset may not land before
	// the final beat.
	beats := p.TimeSignature.Beats()
	last := p.Pattern[len(p.Pattern)-1].Position
	if last < float64(beats-1) {
		return fmt.Errorf("pattern duration must be at least %d beats: last position %.2f < %d",
			beats, last, beats-1)
	}

	if p.TimeSignature.IsCompound() {
		if err := p.validateCompoundAccents(); err != nil {
			return err
		}
	}

	if p.Complexity < 0 || p.Complexity > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidComplexity, p.Complexity)
	}
	if p.SwingRatio < 0.5 || p.SwingRatio > 0.75 {
		return fmt.Errorf("%w: %v", ErrInvalidSwingRatio, p.SwingRatio)
	}
	if p.HumanizeAmount < 0 || p.HumanizeAmount > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidHumanize, p.HumanizeAmount)
	}
	if p.VariationProbability < 0 || p.VariationProbability > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidVariation, p.VariationProbability)
	}
	if p.GrooveTemplate != nil {
		if err := p.GrooveTemplate.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateCompoundAccents enforces the group-of-three accent rule for
// 6/8, 9/8 and 12/8: every note index i < N with i%3 == 0 must exist and
// be accented.
func (p RhythmPattern) validateCompoundAccents() error {
	n := p.TimeSignature.Numerator
	for i := 0; i < n; i += 3 {
		if i >= len(p.Pattern) {
			return fmt.Errorf("%w for compound meter %s: needs a note at index %d",
				ErrPatternTooShort, p.TimeSignature, i)
		}
		if !p.Pattern[i].Accent {
			return fmt.Errorf("%w: compound meter %s requires an accent at index %d",
				ErrMissingAccent, p.TimeSignature, i)
		}
	}
	return nil
}

// TotalDuration sums the nominal note durations.
func (p RhythmPattern) TotalDuration() float64 {
	total := 0.0
	for _, note := range p.Pattern {
		total += note.Duration
	}
	return total
}

// ApplyGroove returns a new pattern whose notes take groove offset and
// velocity from the template, cycling when the pattern is longer than the
// template. Every other note field and the pattern's identity fields are
// preserved; the template is stored on the result.
func (p RhythmPattern) ApplyGroove(template GrooveTemplate) (RhythmPattern, error) {
	if err := template.Validate(); err != nil {
		return RhythmPattern{}, err
	}

	out := p
	out.Pattern = make([]RhythmNote, len(p.Pattern))
	for i, note := range p.Pattern {
		idx := i % len(template.Timing)
		note.GrooveOffset = template.Timing[idx]
		note.GrooveVelocity = template.Velocity[idx]
		out.Pattern[i] = note
	}
	out.GrooveTemplate = &GrooveTemplate{
		Timing:   append([]float64(nil), template.Timing...),
		Velocity: append([]float64(nil), template.Velocity...),
	}

	if err := out.Validate(); err != nil {
		return RhythmPattern{}, err
	}
	return out, nil
}
