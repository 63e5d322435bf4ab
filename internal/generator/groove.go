package generator

import (
	"errors"
	"math"
	"math/rand"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
)

// Humanization writes into the groove fields, never into the written
// position and velocity, so the underlying pattern stays recoverable.
const (
	humanizeOffsetRange   = 0.05
	humanizeVelocityRange = 0.2
	swingEpsilon          = 1e-9
)

var ErrNilRandomSource = errors.New("humanize requires a random source")

// ApplySwing shifts every off-beat eighth to beat + swing ratio. A
// pattern with swing disabled comes back unchanged; an invalid pattern
// (including an out-of-range swing ratio) is an error, never clamped.
func ApplySwing(pattern domain.RhythmPattern) (domain.RhythmPattern, error) {
	if err := pattern.Validate(); err != nil {
		return domain.RhythmPattern{}, err
	}
	if !pattern.SwingEnabled {
		return pattern, nil
	}

	notes := make([]domain.RhythmNote, len(pattern.Pattern))
	copy(notes, pattern.Pattern)
	for i := range notes {
		beat := math.Floor(notes[i].Position)
		if math.Abs(notes[i].Position-beat-0.5) < swingEpsilon {
			notes[i].Position = beat + pattern.SwingRatio
		}
	}

	swung := pattern
	swung.Pattern = notes
	return swung, nil
}

// Humanize jitters groove offset and velocity in proportion to the
// pattern's humanize amount. The same random source state produces the
// same pattern.
func Humanize(pattern domain.RhythmPattern, rng *rand.Rand) (domain.RhythmPattern, error) {
	if err := pattern.Validate(); err != nil {
		return domain.RhythmPattern{}, err
	}
	if pattern.HumanizeAmount == 0 {
		return pattern, nil
	}
	if rng == nil {
		return domain.RhythmPattern{}, ErrNilRandomSource
	}

	notes := make([]domain.RhythmNote, len(pattern.Pattern))
	copy(notes, pattern.Pattern)
	for i := range notes {
		offset := (rng.Float64()*2 - 1) * pattern.HumanizeAmount * humanizeOffsetRange
		if notes[i].Position+offset < 0 {
			offset = -notes[i].Position
		}
		notes[i].GrooveOffset = offset
		notes[i].GrooveVelocity = 1 + (rng.Float64()*2-1)*pattern.HumanizeAmount*humanizeVelocityRange
	}

	humanized := pattern
	humanized.Pattern = notes
	return humanized, nil
}
