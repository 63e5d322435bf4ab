package theory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidTimeSignature = errors.New("invalid time signature")

var (
	validNumerators   = map[int]bool{2: true, 3: true, 4: true, 6: true, 9: true, 12: true}
	validDenominators = map[int]bool{2: true, 4: true, 8: true, 16: true}
)

// TimeSignature is an N/D meter. The wire format is always the string
// "N/D"; a [N, D] pair is also accepted on input.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// NewTimeSignature validates N/D against the supported meters.
func NewTimeSignature(numerator, denominator int) (TimeSignature, error) {
	if !validDenominators[denominator] {
		return TimeSignature{}, fmt.Errorf("%w: denominator %d not in {2,4,8,16}", ErrInvalidTimeSignature, denominator)
	}
	if !validNumerators[numerator] {
		return TimeSignature{}, fmt.Errorf("%w: numerator %d not in {2,3,4,6,9,12}", ErrInvalidTimeSignature, numerator)
	}
	return TimeSignature{Numerator: numerator, Denominator: denominator}, nil
}

// ParseTimeSignature parses the "N/D" wire form.
func ParseTimeSignature(s string) (TimeSignature, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return TimeSignature{}, fmt.Errorf("%w: %q is not N/D", ErrInvalidTimeSignature, s)
	}
	numerator, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeSignature{}, fmt.Errorf("%w: numerator %q", ErrInvalidTimeSignature, parts[0])
	}
	denominator, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeSignature{}, fmt.Errorf("%w: denominator %q", ErrInvalidTimeSignature, parts[1])
	}
	return NewTimeSignature(numerator, denominator)
}

// String renders the wire form "N/D".
func (t TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", t.Numerator, t.Denominator)
}

// Beats returns the number of beats in one bar (the numerator).
func (t TimeSignature) Beats() int {
	return t.Numerator
}

// IsCompound reports whether the meter groups beats in threes
// (6/8, 9/8, 12/8).
func (t TimeSignature) IsCompound() bool {
	if t.Denominator != 8 {
		return false
	}
	return t.Numerator == 6 || t.Numerator == 9 || t.Numerator == 12
}

// MarshalJSON emits the "N/D" string.
func (t TimeSignature) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either "N/D" or a two-element [N, D] array.
func (t *TimeSignature) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseTimeSignature(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var pair []int
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("%w: expected [numerator, denominator]", ErrInvalidTimeSignature)
		}
		parsed, err := NewTimeSignature(pair[0], pair[1])
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	return fmt.Errorf("%w: %s", ErrInvalidTimeSignature, string(data))
}
