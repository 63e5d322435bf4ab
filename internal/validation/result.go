package validation

import "fmt"

// Violation codes shared across validators.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeEmptyPattern        = "EMPTY_PATTERN"
	CodeEmptySequence       = "EMPTY_SEQUENCE"
	CodeOctaveRange         = "OCTAVE_RANGE_ERROR"
	CodeScaleCompatibility  = "SCALE_COMPATIBILITY_ERROR"
	CodeVoiceLeading        = "VOICE_LEADING_ERROR"
	CodeStrictValidation    = "STRICT_VALIDATION_ERROR"
	CodeInvalidName         = "INVALID_NAME"
	CodeInvalidField        = "INVALID_FIELD"
	CodeMissingField        = "MISSING_FIELD"
	CodeUnknownField        = "UNKNOWN_FIELD"
	CodeDurationMismatch    = "DURATION_MISMATCH"
	CodeOutOfOrder          = "OUT_OF_ORDER"
	CodePatternDuration     = "PATTERN_DURATION_ERROR"
	CodePatternTooShort     = "PATTERN_TOO_SHORT"
	CodeMissingAccent       = "MISSING_ACCENT"
	CodeLargeInterval       = "LARGE_INTERVAL"
	CodeParallelMotion      = "PARALLEL_MOTION"
	CodeExcessiveRepetition = "EXCESSIVE_REPETITION"
	CodeProgressionLength   = "PROGRESSION_LENGTH"
	CodeChordVariety        = "CHORD_VARIETY"
	CodeNonStandardCadence  = "NON_STANDARD_CADENCE"
)

// Violation is one business-rule failure: a stable code, a human
// message, the path of the offending field and optional details.
type Violation struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Path    string         `json:"path,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Result is the outcome of one validation run. IsValid is true exactly
// when Violations is empty; every mutation below maintains that.
type Result struct {
	IsValid    bool        `json:"is_valid"`
	Violations []Violation `json:"violations"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// NewResult starts valid with an empty (non-nil) violation list so the
// wire form always renders "violations": [].
func NewResult() Result {
	return Result{IsValid: true, Violations: []Violation{}}
}

// Add records a violation and flips IsValid.
func (r *Result) Add(code, message, path string) {
	r.AddViolation(Violation{Code: code, Message: message, Path: path})
}

// Addf records a violation with a formatted message.
func (r *Result) Addf(code, path, format string, args ...any) {
	r.AddViolation(Violation{Code: code, Message: fmt.Sprintf(format, args...), Path: path})
}

// AddViolation records a fully-built violation.
func (r *Result) AddViolation(v Violation) {
	r.Violations = append(r.Violations, v)
	r.IsValid = false
}

// Warn records a non-failing observation.
func (r *Result) Warn(message string) {
	r.Warnings = append(r.Warnings, message)
}

// Merge folds another result into this one.
func (r *Result) Merge(other Result) {
	r.Violations = append(r.Violations, other.Violations...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.IsValid = r.IsValid && other.IsValid
}

// singleViolation builds a failed result holding exactly one violation.
func singleViolation(v Violation) Result {
	return Result{IsValid: false, Violations: []Violation{v}}
}
