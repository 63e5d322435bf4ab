// Package validation grades musical entities against business rules.
// Structural problems in untyped input become violations, never Go
// errors, so batch validation can always run to completion.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Level selects how much of the rule set runs. Levels are cumulative:
// NORMAL runs every BASIC check, STRICT runs every NORMAL check.
type Level int

const (
	LevelBasic Level = iota
	LevelNormal
	LevelStrict
)

var ErrInvalidLevel = errors.New("invalid validation level")

// ParseLevel reads a level from a query or config string. Empty input
// means NORMAL.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return LevelNormal, nil
	case "BASIC":
		return LevelBasic, nil
	case "NORMAL":
		return LevelNormal, nil
	case "STRICT":
		return LevelStrict, nil
	}
	return LevelNormal, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

func (l Level) String() string {
	switch l {
	case LevelBasic:
		return "BASIC"
	case LevelNormal:
		return "NORMAL"
	case LevelStrict:
		return "STRICT"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// AtLeast reports whether this level includes the other's checks.
func (l Level) AtLeast(other Level) bool {
	return l >= other
}
