package theory

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// PatternDirection is the melodic shape applied when a note pattern is
// expanded into a concrete sequence.
type PatternDirection string

const (
	DirectionAscending           PatternDirection = "ascending"
	DirectionDescending          PatternDirection = "descending"
	DirectionAscendingDescending PatternDirection = "ascending_descending"
	DirectionDescendingAscending PatternDirection = "descending_ascending"
	DirectionRandom              PatternDirection = "random"
)

var (
	ErrEmptyPattern            = errors.New("pattern is empty")
	ErrUnknownPatternDirection = errors.New("unknown pattern direction")
)

// Short spellings accepted on the wire ("up" is what most stored patterns
// carry).
var directionAliases = map[string]PatternDirection{
	"up":        DirectionAscending,
	"down":      DirectionDescending,
	"alternate": DirectionAscendingDescending,
}

// ParsePatternDirection normalizes a wire string to a PatternDirection.
func ParsePatternDirection(s string) (PatternDirection, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if d, ok := directionAliases[normalized]; ok {
		return d, nil
	}
	d := PatternDirection(normalized)
	if d.Valid() {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPatternDirection, s)
}

// Valid reports whether the direction is a known shape.
func (d PatternDirection) Valid() bool {
	switch d {
	case DirectionAscending, DirectionDescending,
		DirectionAscendingDescending, DirectionDescendingAscending,
		DirectionRandom:
		return true
	}
	return false
}

// ApplyDirection reshapes a sequence:
//
//	ascending             [C D E] -> [C D E]
//	descending            [C D E] -> [E D C]
//	ascending_descending  [C D E] -> [C D E D C]  (peak not repeated)
//	descending_ascending  [C D E] -> [E D C D E]  (trough not repeated)
//	random                shuffled copy, driven by rng
//
// The input is never mutated. rng is required only for random; passing a
// seeded source makes the shuffle reproducible.
func ApplyDirection[T any](direction PatternDirection, notes []T, rng *rand.Rand) ([]T, error) {
	if len(notes) == 0 {
		return nil, ErrEmptyPattern
	}

	forward := make([]T, len(notes))
	copy(forward, notes)

	switch direction {
	case DirectionAscending:
		return forward, nil
	case DirectionDescending:
		return reversed(forward), nil
	case DirectionAscendingDescending:
		back := reversed(forward[:len(forward)-1])
		return append(forward, back...), nil
	case DirectionDescendingAscending:
		back := reversed(forward)
		return append(back, forward[1:]...), nil
	case DirectionRandom:
		if rng == nil {
			return nil, fmt.Errorf("%w: random direction needs a rand source", ErrUnknownPatternDirection)
		}
		rng.Shuffle(len(forward), func(i, j int) {
			forward[i], forward[j] = forward[j], forward[i]
		})
		return forward, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPatternDirection, direction)
	}
}

func reversed[T any](s []T) []T {
	out := make([]T, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
