package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/notegen-api/internal/theory"
)

func TestTupletRatioValidate(t *testing.T) {
	_, err := NewTupletRatio(3, 2)
	assert.NoError(t, err)

	_, err = NewTupletRatio(1, 1)
	assert.NoError(t, err)

	for _, pair := range [][2]int{{2, 3}, {0, 1}, {1, 0}, {-3, 2}} {
		_, err := NewTupletRatio(pair[0], pair[1])
		assert.ErrorIs(t, err, ErrInvalidTuplet, "%v", pair)
	}
}

func TestTupletRatioJSON(t *testing.T) {
	data, err := json.Marshal(TupletRatio{Numerator: 3, Denominator: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `[3,2]`, string(data))

	var r TupletRatio
	require.NoError(t, json.Unmarshal([]byte(`[5,4]`), &r))
	assert.Equal(t, TupletRatio{Numerator: 5, Denominator: 4}, r)

	assert.Error(t, json.Unmarshal([]byte(`"3:2"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`7`), &r))
}

func TestRhythmNoteActualDuration(t *testing.T) {
	note, err := NewRhythmNote(0.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, note.ActualDuration())

	// A triplet squeezes three notes into the time of two.
	note.TupletRatio = TupletRatio{Numerator: 3, Denominator: 2}
	assert.InDelta(t, 0.667, note.ActualDuration(), 0.001)

	note.TupletRatio = TupletRatio{Numerator: 5, Denominator: 4}
	assert.InDelta(t, 0.8, note.ActualDuration(), 1e-9)
}

func TestRhythmNoteActualVelocity(t *testing.T) {
	note := DefaultRhythmNote()
	assert.Equal(t, 64, note.ActualVelocity())

	note.Accent = true
	assert.Equal(t, 77, note.ActualVelocity()) // round(64 * 1.2)

	note.Velocity = 120
	assert.Equal(t, 127, note.ActualVelocity()) // capped, not rejected

	note.Accent = false
	note.Velocity = 64
	note.GrooveVelocity = 0.5
	assert.Equal(t, 32, note.ActualVelocity())
}

func TestRhythmNoteActualPosition(t *testing.T) {
	note := DefaultRhythmNote()
	note.Position = 1.0
	note.GrooveOffset = -0.05
	assert.InDelta(t, 0.95, note.ActualPosition(), 1e-9)
}

func TestRhythmNoteValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RhythmNote)
		want   error
	}{
		{"negative position", func(n *RhythmNote) { n.Position = -0.5 }, ErrInvalidPosition},
		{"zero duration", func(n *RhythmNote) { n.Duration = 0 }, ErrInvalidDuration},
		{"velocity too high", func(n *RhythmNote) { n.Velocity = 128 }, ErrInvalidVelocity},
		{"groove offset out of range", func(n *RhythmNote) { n.GrooveOffset = 1.5 }, ErrInvalidGroove},
		{"groove velocity out of range", func(n *RhythmNote) { n.GrooveVelocity = 2.5 }, ErrInvalidGroove},
		{"inverted tuplet", func(n *RhythmNote) { n.TupletRatio = TupletRatio{2, 3} }, ErrInvalidTuplet},
	}

	for _, tt := range tests {
		note := DefaultRhythmNote()
		tt.mutate(&note)
		assert.ErrorIs(t, note.Validate(), tt.want, tt.name)
	}
}

func fourOnFloor(t *testing.T) []RhythmNote {
	t.Helper()
	notes := make([]RhythmNote, 4)
	for i := range notes {
		n := DefaultRhythmNote()
		n.Position = float64(i)
		notes[i] = n
	}
	return notes
}

func TestRhythmPatternBarSpan(t *testing.T) {
	ts := theory.TimeSignature{Numerator: 4, Denominator: 4}

	_, err := NewRhythmPattern("Four on the Floor", fourOnFloor(t), ts)
	assert.NoError(t, err)

	// Two hits at positions 0 and 3 still span the bar.
	sparse := []RhythmNote{fourOnFloor(t)[0], fourOnFloor(t)[3]}
	_, err = NewRhythmPattern("Sparse Hits", sparse, ts)
	assert.NoError(t, err)

	// Last onset before beat 3 leaves the bar uncovered.
	short := fourOnFloor(t)[:2]
	_, err = NewRhythmPattern("Short Bar", short, ts)
	assert.ErrorContains(t, err, "pattern duration must be at least 4 beats")
}

func compoundNotes(t *testing.T, count int, accents ...int) []RhythmNote {
	t.Helper()
	accented := map[int]bool{}
	for _, i := range accents {
		accented[i] = true
	}
	notes := make([]RhythmNote, count)
	for i := range notes {
		n := DefaultRhythmNote()
		n.Position = float64(i)
		n.Accent = accented[i]
		notes[i] = n
	}
	return notes
}

func TestRhythmPatternCompoundAccents(t *testing.T) {
	sixEight := theory.TimeSignature{Numerator: 6, Denominator: 8}

	_, err := NewRhythmPattern("Compound Groove", compoundNotes(t, 6, 0, 3), sixEight)
	assert.NoError(t, err)

	// Accent on the second group is mandatory.
	_, err = NewRhythmPattern("Weak Second Group", compoundNotes(t, 6, 0), sixEight)
	assert.ErrorIs(t, err, ErrMissingAccent)

	// A single note cannot satisfy 6/8 at all.
	one := compoundNotes(t, 1, 0)
	_, err = NewRhythmPattern("Lonely Hit", one, sixEight)
	assert.Error(t, err)

	nineEight := theory.TimeSignature{Numerator: 9, Denominator: 8}
	_, err = NewRhythmPattern("Nine Eight", compoundNotes(t, 9, 0, 3, 6), nineEight)
	assert.NoError(t, err)

	_, err = NewRhythmPattern("Nine Eight Weak", compoundNotes(t, 9, 0, 3), nineEight)
	assert.ErrorIs(t, err, ErrMissingAccent)
}

func TestRhythmPatternCompoundTooShort(t *testing.T) {
	// Two accented hits at beats 0 and 5 span the bar, but there is no
	// note at index 3 to carry the second-group accent.
	sixEight := theory.TimeSignature{Numerator: 6, Denominator: 8}
	notes := compoundNotes(t, 2, 0, 1)
	notes[1].Position = 5
	_, err := NewRhythmPattern("Spanned Two Hits", notes, sixEight)
	assert.ErrorIs(t, err, ErrPatternTooShort)
}

func TestRhythmPatternEmpty(t *testing.T) {
	_, err := NewRhythmPattern("No Notes", nil, theory.TimeSignature{Numerator: 4, Denominator: 4})
	assert.ErrorIs(t, err, ErrEmptyRhythm)
}

func TestRhythmPatternFeelBounds(t *testing.T) {
	base, err := NewRhythmPattern("Feel", fourOnFloor(t), theory.TimeSignature{Numerator: 4, Denominator: 4})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*RhythmPattern)
		want   error
	}{
		{"swing below half", func(p *RhythmPattern) { p.SwingRatio = 0.49 }, ErrInvalidSwingRatio},
		{"swing above three quarters", func(p *RhythmPattern) { p.SwingRatio = 0.76 }, ErrInvalidSwingRatio},
		{"humanize negative", func(p *RhythmPattern) { p.HumanizeAmount = -0.1 }, ErrInvalidHumanize},
		{"humanize above one", func(p *RhythmPattern) { p.HumanizeAmount = 1.01 }, ErrInvalidHumanize},
		{"variation above one", func(p *RhythmPattern) { p.VariationProbability = 1.1 }, ErrInvalidVariation},
		{"complexity above one", func(p *RhythmPattern) { p.Complexity = 1.1 }, ErrInvalidComplexity},
	}

	for _, tt := range tests {
		p := base
		tt.mutate(&p)
		assert.ErrorIs(t, p.Validate(), tt.want, tt.name)
	}

	// Boundary values are legal, never clamped.
	for _, ratio := range []float64{0.5, 0.67, 0.75} {
		p := base
		p.SwingRatio = ratio
		assert.NoError(t, p.Validate(), "swing %v", ratio)
	}
}

func TestGrooveTemplateValidate(t *testing.T) {
	ok := GrooveTemplate{Timing: []float64{0.01, -0.01}, Velocity: []float64{1.0, 0.9}}
	assert.NoError(t, ok.Validate())

	mismatched := GrooveTemplate{Timing: []float64{0.01}, Velocity: []float64{1.0, 0.9}}
	assert.ErrorIs(t, mismatched.Validate(), ErrGrooveTemplateSize)

	empty := GrooveTemplate{}
	assert.ErrorIs(t, empty.Validate(), ErrGrooveTemplateSize)
}

func TestApplyGrooveCycles(t *testing.T) {
	pattern, err := NewRhythmPattern("Straight Four", fourOnFloor(t), theory.TimeSignature{Numerator: 4, Denominator: 4})
	require.NoError(t, err)

	template := GrooveTemplate{
		Timing:   []float64{0.02, -0.01},
		Velocity: []float64{1.1, 0.9},
	}

	grooved, err := pattern.ApplyGroove(template)
	require.NoError(t, err)

	// Template cycles across the four notes.
	wantOffsets := []float64{0.02, -0.01, 0.02, -0.01}
	wantVelocities := []float64{1.1, 0.9, 1.1, 0.9}
	for i, note := range grooved.Pattern {
		assert.InDelta(t, wantOffsets[i], note.GrooveOffset, 1e-9, "note %d offset", i)
		assert.InDelta(t, wantVelocities[i], note.GrooveVelocity, 1e-9, "note %d velocity", i)
	}
	require.NotNil(t, grooved.GrooveTemplate)
	assert.Equal(t, template.Timing, grooved.GrooveTemplate.Timing)

	// The source pattern is untouched.
	for i, note := range pattern.Pattern {
		assert.Zero(t, note.GrooveOffset, "note %d", i)
		assert.InDelta(t, 1.0, note.GrooveVelocity, 1e-9, "note %d", i)
	}
	assert.Nil(t, pattern.GrooveTemplate)
}

func TestApplyGrooveRejectsBadTemplate(t *testing.T) {
	pattern, err := NewRhythmPattern("Straight Four", fourOnFloor(t), theory.TimeSignature{Numerator: 4, Denominator: 4})
	require.NoError(t, err)

	_, err = pattern.ApplyGroove(GrooveTemplate{Timing: []float64{0.1}})
	assert.ErrorIs(t, err, ErrGrooveTemplateSize)

	// A template pushing velocity outside [0, 2] fails the result check.
	_, err = pattern.ApplyGroove(GrooveTemplate{Timing: []float64{0.0}, Velocity: []float64{2.5}})
	assert.ErrorIs(t, err, ErrInvalidGroove)
}

func TestRhythmPatternTotalDuration(t *testing.T) {
	pattern, err := NewRhythmPattern("Straight Four", fourOnFloor(t), theory.TimeSignature{Numerator: 4, Denominator: 4})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, pattern.TotalDuration(), 1e-9)
}
