package validation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
)

// durationTolerance absorbs float accumulation error when comparing a
// declared sequence duration against the sum of its note durations.
const durationTolerance = 0.001

const largeIntervalSemitones = 12

// ValidateNoteSequence grades a realized note sequence. BASIC covers
// structure and the duration ledger, NORMAL adds melodic interval
// checks, STRICT adds contour rules (parallel motion, repetition).
//
// Notes without a spelled name are legal: a rhythm-only sequence still
// has durations worth checking.
func ValidateNoteSequence(input any, level Level) Result {
	seq, err := coerce[domain.NoteSequence](input)
	if err != nil {
		return coercionFailure(err)
	}

	result := NewResult()

	if len(seq.Notes) == 0 {
		result.Add(CodeEmptySequence, "Empty note sequence", "notes")
		return result
	}

	if seq.Tempo < domain.MinTempo || seq.Tempo > domain.MaxTempo {
		result.Addf(CodeInvalidField, "tempo",
			"Tempo must be between %d and %d", domain.MinTempo, domain.MaxTempo)
	}
	if seq.Duration <= 0 {
		result.Add(CodeInvalidField, "Duration must be a positive number", "duration")
	}
	if seq.ScaleInfo != nil {
		if err := seq.ScaleInfo.Validate(); err != nil {
			result.Add(CodeInvalidField, err.Error(), "scale_info")
		}
	}

	total := 0.0
	for i, note := range seq.Notes {
		if note.NoteName != "" {
			if err := note.Validate(); err != nil {
				result.Add(CodeValidationError, err.Error(), fmt.Sprintf("notes[%d]", i))
			}
		} else if note.Duration <= 0 {
			result.Add(CodeInvalidField, "Note has invalid duration", fmt.Sprintf("notes[%d].duration", i))
		}
		if note.Duration > 0 {
			total += note.Duration
		}
	}

	if seq.Duration > 0 && math.Abs(total-seq.Duration) > durationTolerance {
		result.AddViolation(Violation{
			Code: CodeDurationMismatch,
			Message: fmt.Sprintf("Total duration (%s) does not match sum of note durations (%s)",
				formatBeats(seq.Duration), formatBeats(total)),
			Path:    "duration",
			Details: map[string]any{"declared": seq.Duration, "actual": total},
		})
	}

	if level.AtLeast(LevelNormal) {
		validateIntervals(&result, seq.Notes)
	}
	if level.AtLeast(LevelStrict) {
		validateContour(&result, seq.Notes)
	}
	return result
}

// validateIntervals flags melodic jumps wider than an octave between
// adjacent spelled notes.
func validateIntervals(result *Result, notes []domain.Note) {
	for i := 0; i < len(notes)-1; i++ {
		current, currentOK := noteMIDI(notes[i])
		next, nextOK := noteMIDI(notes[i+1])
		if !currentOK || !nextOK {
			continue
		}
		interval := next - current
		if interval < 0 {
			interval = -interval
		}
		if interval > largeIntervalSemitones {
			result.Addf(CodeLargeInterval, fmt.Sprintf("notes[%d]", i),
				"Large interval (%d semitones) between positions %d and %d", interval, i, i+1)
		}
	}
}

func validateContour(result *Result, notes []domain.Note) {
	for i := 0; i+2 < len(notes); i++ {
		if isParallelMotion(notes[i], notes[i+1], notes[i+2]) {
			result.Addf(CodeParallelMotion, fmt.Sprintf("notes[%d]", i),
				"Parallel motion detected at position %d", i)
		}
	}
	if hasExcessiveRepetition(notes) {
		result.Add(CodeExcessiveRepetition, "Excessive note repetition detected", "notes")
	}
}

// isParallelMotion reports two consecutive leaps of the same signed
// size wider than a fourth.
func isParallelMotion(a, b, c domain.Note) bool {
	am, aok := noteMIDI(a)
	bm, bok := noteMIDI(b)
	cm, cok := noteMIDI(c)
	if !aok || !bok || !cok {
		return false
	}
	first, second := bm-am, cm-bm
	if first != second {
		return false
	}
	if first < 0 {
		first = -first
	}
	return first > 4
}

// hasExcessiveRepetition reports more than three consecutive notes with
// the same spelling.
func hasExcessiveRepetition(notes []domain.Note) bool {
	if len(notes) < 4 {
		return false
	}
	run := 1
	current := notes[0].String()
	for _, note := range notes[1:] {
		spelled := note.String()
		if spelled == current {
			run++
			if run > 3 {
				return true
			}
		} else {
			run = 1
			current = spelled
		}
	}
	return false
}

func noteMIDI(n domain.Note) (int, bool) {
	if n.NoteName == "" {
		return 0, false
	}
	midi, err := n.Pitch().MIDI()
	if err != nil {
		return 0, false
	}
	return midi, true
}

// formatBeats renders a beat count the way it reads in documents:
// whole values keep one decimal ("4.0"), fractional values keep their
// shortest exact form.
func formatBeats(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
