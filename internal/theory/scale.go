package theory

import (
	"errors"
	"fmt"
	"strings"
)

// ScaleType tags a scale; interval data lives in scaleIntervals so the
// table stays swappable and testable independently of the tags.
type ScaleType string

const (
	ScaleMajor         ScaleType = "MAJOR"
	ScaleMinor         ScaleType = "MINOR"
	ScaleHarmonicMinor ScaleType = "HARMONIC_MINOR"
	ScaleMelodicMinor  ScaleType = "MELODIC_MINOR"
	ScaleDorian        ScaleType = "DORIAN"
	ScalePhrygian      ScaleType = "PHRYGIAN"
	ScaleLydian        ScaleType = "LYDIAN"
	ScaleMixolydian    ScaleType = "MIXOLYDIAN"
	ScaleLocrian       ScaleType = "LOCRIAN"
	ScaleChromatic     ScaleType = "CHROMATIC"
)

var ErrInvalidScaleType = errors.New("invalid scale type")

// Absolute semitone offsets from the root for each scale type.
var scaleIntervals = map[ScaleType][]int{
	ScaleMajor:         {0, 2, 4, 5, 7, 9, 11},
	ScaleMinor:         {0, 2, 3, 5, 7, 8, 10},
	ScaleHarmonicMinor: {0, 2, 3, 5, 7, 8, 11},
	ScaleMelodicMinor:  {0, 2, 3, 5, 7, 9, 11},
	ScaleDorian:        {0, 2, 3, 5, 7, 9, 10},
	ScalePhrygian:      {0, 1, 3, 5, 7, 8, 10},
	ScaleLydian:        {0, 2, 4, 6, 7, 9, 11},
	ScaleMixolydian:    {0, 2, 4, 5, 7, 9, 10},
	ScaleLocrian:       {0, 1, 3, 5, 6, 8, 10},
	ScaleChromatic:     {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// ParseScaleType normalizes a wire string ("major", " MINOR ") to a
// ScaleType.
func ParseScaleType(s string) (ScaleType, error) {
	st := ScaleType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := scaleIntervals[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidScaleType, s)
	}
	return st, nil
}

// Valid reports whether the scale type is one of the known tags.
func (s ScaleType) Valid() bool {
	_, ok := scaleIntervals[s]
	return ok
}

// Intervals returns the absolute semitone offsets from the root, starting
// at 0. The slice is a copy.
func (s ScaleType) Intervals() []int {
	intervals := scaleIntervals[s]
	out := make([]int, len(intervals))
	copy(out, intervals)
	return out
}

// Steps returns the semitone step table between consecutive degrees,
// wrapping back to the octave (MAJOR -> [2,2,1,2,2,2,1]).
func (s ScaleType) Steps() []int {
	intervals := scaleIntervals[s]
	if len(intervals) == 0 {
		return nil
	}
	steps := make([]int, len(intervals))
	for i := 0; i < len(intervals)-1; i++ {
		steps[i] = intervals[i+1] - intervals[i]
	}
	steps[len(intervals)-1] = 12 - intervals[len(intervals)-1]
	return steps
}

// DegreeCount returns the number of scale degrees.
func (s ScaleType) DegreeCount() int {
	return len(scaleIntervals[s])
}

// Degrees returns the degree numbers 1..DegreeCount.
func (s ScaleType) Degrees() []int {
	degrees := make([]int, s.DegreeCount())
	for i := range degrees {
		degrees[i] = i + 1
	}
	return degrees
}

// IsDiatonic reports whether the scale has exactly seven degrees.
func (s ScaleType) IsDiatonic() bool {
	return s.DegreeCount() == 7
}

// ScaleNotes spells the scale from the given root, one pitch per degree.
func (s ScaleType) ScaleNotes(root Pitch) ([]Pitch, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScaleType, s)
	}
	notes := make([]Pitch, 0, s.DegreeCount())
	for _, interval := range scaleIntervals[s] {
		p, err := root.Transpose(interval)
		if err != nil {
			return nil, fmt.Errorf("scale note %d from %s: %w", interval, root, err)
		}
		notes = append(notes, p)
	}
	return notes, nil
}

// DegreePitch returns the pitch at a 1-based scale degree from the root.
func (s ScaleType) DegreePitch(root Pitch, degree int) (Pitch, error) {
	intervals := scaleIntervals[s]
	if degree < 1 || degree > len(intervals) {
		return Pitch{}, fmt.Errorf("scale degree %d out of range 1..%d", degree, len(intervals))
	}
	return root.Transpose(intervals[degree-1])
}
