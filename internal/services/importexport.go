// Package services holds the import/export layer between the HTTP
// boundary and the stores: flat CSV schemas, full-document JSON, and
// batch-safe imports that report bad records instead of aborting.
package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
	"github.com/Conceptual-Machines/notegen-api/internal/theory"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

// Collections accepted by the import/export endpoints.
const (
	CollectionChordProgressions = "chord-progressions"
	CollectionNotePatterns      = "note-patterns"
	CollectionRhythmPatterns    = "rhythm-patterns"
)

// Formats accepted by the export endpoint.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownFormat     = errors.New("unknown format")
)

// ImportReport summarizes a batch import. Violations carry one entry
// per rejected record; the batch itself never fails on bad data.
type ImportReport struct {
	Imported   int                    `json:"imported"`
	Skipped    int                    `json:"skipped"`
	Violations []validation.Violation `json:"violations"`
}

func (r *ImportReport) reject(index int, err error) {
	r.Skipped++
	r.Violations = append(r.Violations, validation.Violation{
		Code:    "IMPORT_ERROR",
		Message: err.Error(),
		Path:    fmt.Sprintf("records[%d]", index),
	})
}

// ImportExportService moves whole collections in and out of the store.
type ImportExportService struct {
	store *store.Store
	level validation.Level
}

// NewImportExportService validates imported records at NORMAL.
func NewImportExportService(st *store.Store) *ImportExportService {
	return &ImportExportService{store: st, level: validation.LevelNormal}
}

// ValidCollection reports whether name is an importable collection.
func ValidCollection(name string) bool {
	switch name {
	case CollectionChordProgressions, CollectionNotePatterns, CollectionRhythmPatterns:
		return true
	}
	return false
}

// Export writes the named collection to w in the requested format and
// returns the suggested attachment filename.
func (s *ImportExportService) Export(ctx context.Context, collection, format string, w io.Writer) (string, error) {
	if format != FormatJSON && format != FormatCSV {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	switch collection {
	case CollectionChordProgressions:
		progs, err := s.store.ChordProgressions.List(ctx)
		if err != nil {
			return "", err
		}
		if format == FormatJSON {
			return "chord_progressions.json", writeJSON(w, progs)
		}
		return "chord_progressions.csv", writeProgressionCSV(w, progs)
	case CollectionNotePatterns:
		patterns, err := s.store.NotePatterns.List(ctx)
		if err != nil {
			return "", err
		}
		if format == FormatJSON {
			return "note_patterns.json", writeJSON(w, patterns)
		}
		return "note_patterns.csv", writeNotePatternCSV(w, patterns)
	case CollectionRhythmPatterns:
		patterns, err := s.store.RhythmPatterns.List(ctx)
		if err != nil {
			return "", err
		}
		if format == FormatJSON {
			return "rhythm_patterns.json", writeJSON(w, patterns)
		}
		return "rhythm_patterns.csv", writeRhythmPatternCSV(w, patterns)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeProgressionCSV flattens chords to their symbols, space separated.
func writeProgressionCSV(w io.Writer, progs []domain.ChordProgression) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "key", "scale_type", "chords", "description"}); err != nil {
		return err
	}
	for _, p := range progs {
		record := []string{
			p.Name,
			p.Key,
			string(p.ScaleType),
			strings.Join(p.Symbols(), " "),
			p.Description,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeNotePatternCSV(w io.Writer, patterns []domain.NotePattern) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "intervals", "direction", "octave", "description"}); err != nil {
		return err
	}
	for _, p := range patterns {
		record := []string{
			p.Name,
			joinInts(p.Data.Intervals),
			string(p.Data.Direction),
			strconv.Itoa(p.Data.Octave),
			p.Description,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeRhythmPatternCSV(w io.Writer, patterns []domain.RhythmPattern) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "time_signature", "positions", "durations", "description"}); err != nil {
		return err
	}
	for _, p := range patterns {
		positions := make([]string, len(p.Pattern))
		durations := make([]string, len(p.Pattern))
		for i, n := range p.Pattern {
			positions[i] = formatFloat(n.Position)
			durations[i] = formatFloat(n.Duration)
		}
		record := []string{
			p.Name,
			p.TimeSignature.String(),
			strings.Join(positions, " "),
			strings.Join(durations, " "),
			p.Description,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Import reads records from r (json or csv) into the named collection.
// Every record is validated before storage; failures land in the report
// and the rest of the batch continues.
func (s *ImportExportService) Import(ctx context.Context, collection, format string, r io.Reader) (ImportReport, error) {
	if format != FormatJSON && format != FormatCSV {
		return ImportReport{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	switch collection {
	case CollectionChordProgressions:
		return s.importProgressions(ctx, format, r)
	case CollectionNotePatterns:
		return s.importNotePatterns(ctx, format, r)
	case CollectionRhythmPatterns:
		return s.importRhythmPatterns(ctx, format, r)
	}
	return ImportReport{}, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
}

func (s *ImportExportService) importProgressions(ctx context.Context, format string, r io.Reader) (ImportReport, error) {
	var report ImportReport

	var records []domain.ChordProgression
	if format == FormatJSON {
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return report, fmt.Errorf("decode json: %w", err)
		}
	} else {
		rows, err := readCSV(r, 5)
		if err != nil {
			return report, err
		}
		for i, row := range rows {
			prog, err := progressionFromCSV(row)
			if err != nil {
				report.reject(i, err)
				continue
			}
			records = append(records, prog)
		}
	}

	for i, prog := range records {
		result := validation.ValidateChordProgression(prog, s.level)
		if !result.IsValid {
			report.reject(i, fmt.Errorf("invalid progression %q: %s", prog.Name, summarize(result)))
			continue
		}
		if _, err := s.store.ChordProgressions.Create(ctx, prog); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				report.reject(i, err)
				continue
			}
			return report, err
		}
		report.Imported++
	}
	return report, nil
}

// progressionFromCSV parses a flat row: chord symbols are resolved via
// the lossy symbol parser, one beat per chord.
func progressionFromCSV(row []string) (domain.ChordProgression, error) {
	name, key := row[0], row[1]
	scaleType, err := theory.ParseScaleType(row[2])
	if err != nil {
		return domain.ChordProgression{}, err
	}
	prog, err := domain.NewChordProgression(name, key, scaleType)
	if err != nil {
		return domain.ChordProgression{}, err
	}
	prog.Description = row[4]
	for _, symbol := range strings.Fields(row[3]) {
		chord, err := domain.ChordFromSymbol(symbol)
		if err != nil {
			return domain.ChordProgression{}, fmt.Errorf("chord %q: %w", symbol, err)
		}
		prog, err = prog.AddChord(chord, chord.Duration)
		if err != nil {
			return domain.ChordProgression{}, err
		}
	}
	return prog, nil
}

func (s *ImportExportService) importNotePatterns(ctx context.Context, format string, r io.Reader) (ImportReport, error) {
	var report ImportReport

	var records []domain.NotePattern
	if format == FormatJSON {
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return report, fmt.Errorf("decode json: %w", err)
		}
	} else {
		rows, err := readCSV(r, 5)
		if err != nil {
			return report, err
		}
		for i, row := range rows {
			pattern, err := notePatternFromCSV(row)
			if err != nil {
				report.reject(i, err)
				continue
			}
			records = append(records, pattern)
		}
	}

	for i, pattern := range records {
		result := validation.ValidateNotePattern(pattern, s.level)
		if !result.IsValid {
			report.reject(i, fmt.Errorf("invalid note pattern %q: %s", pattern.Name, summarize(result)))
			continue
		}
		if _, err := s.store.NotePatterns.Create(ctx, pattern); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				report.reject(i, err)
				continue
			}
			return report, err
		}
		report.Imported++
	}
	return report, nil
}

// notePatternFromCSV builds an interval-descriptor pattern; notes are
// expanded lazily at generation time.
func notePatternFromCSV(row []string) (domain.NotePattern, error) {
	pattern, err := domain.NewNotePattern(row[0], nil)
	if err != nil {
		return domain.NotePattern{}, err
	}
	intervals, err := parseInts(row[1])
	if err != nil {
		return domain.NotePattern{}, fmt.Errorf("intervals: %w", err)
	}
	if len(intervals) == 0 {
		return domain.NotePattern{}, domain.ErrNoPatternContent
	}
	pattern.Data.Intervals = intervals
	if row[2] != "" {
		direction, err := theory.ParsePatternDirection(row[2])
		if err != nil {
			return domain.NotePattern{}, err
		}
		pattern.Data.Direction = direction
	}
	if row[3] != "" {
		octave, err := strconv.Atoi(row[3])
		if err != nil {
			return domain.NotePattern{}, fmt.Errorf("octave: %w", err)
		}
		pattern.Data.Octave = octave
	}
	pattern.Description = row[4]
	return pattern, nil
}

func (s *ImportExportService) importRhythmPatterns(ctx context.Context, format string, r io.Reader) (ImportReport, error) {
	var report ImportReport

	var records []domain.RhythmPattern
	if format == FormatJSON {
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return report, fmt.Errorf("decode json: %w", err)
		}
	} else {
		rows, err := readCSV(r, 5)
		if err != nil {
			return report, err
		}
		for i, row := range rows {
			pattern, err := rhythmPatternFromCSV(row)
			if err != nil {
				report.reject(i, err)
				continue
			}
			records = append(records, pattern)
		}
	}

	for i, pattern := range records {
		result := validation.ValidateRhythmPattern(pattern, s.level)
		if !result.IsValid {
			report.reject(i, fmt.Errorf("invalid rhythm pattern %q: %s", pattern.Name, summarize(result)))
			continue
		}
		if _, err := s.store.RhythmPatterns.Create(ctx, pattern); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				report.reject(i, err)
				continue
			}
			return report, err
		}
		report.Imported++
	}
	return report, nil
}

func rhythmPatternFromCSV(row []string) (domain.RhythmPattern, error) {
	ts, err := theory.ParseTimeSignature(row[1])
	if err != nil {
		return domain.RhythmPattern{}, err
	}
	positions, err := parseFloats(row[2])
	if err != nil {
		return domain.RhythmPattern{}, fmt.Errorf("positions: %w", err)
	}
	durations, err := parseFloats(row[3])
	if err != nil {
		return domain.RhythmPattern{}, fmt.Errorf("durations: %w", err)
	}
	if len(positions) != len(durations) {
		return domain.RhythmPattern{}, fmt.Errorf("positions and durations differ in length: %d vs %d", len(positions), len(durations))
	}

	notes := make([]domain.RhythmNote, len(positions))
	for i := range positions {
		note, err := domain.NewRhythmNote(positions[i], durations[i])
		if err != nil {
			return domain.RhythmPattern{}, fmt.Errorf("note %d: %w", i, err)
		}
		// Compound meters need their group-of-three accents back.
		if ts.IsCompound() && i%3 == 0 {
			note.Accent = true
		}
		notes[i] = note
	}

	pattern, err := domain.NewRhythmPattern(row[0], notes, ts)
	if err != nil {
		return domain.RhythmPattern{}, err
	}
	pattern.Description = row[4]
	return pattern, nil
}

// readCSV collects data rows, tolerating a header line and requiring a
// fixed field count.
func readCSV(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) > 0 && rows[0][0] == "name" {
		rows = rows[1:]
	}
	return rows, nil
}

func parseInts(s string) ([]int, error) {
	var values []int
	for _, field := range strings.Fields(s) {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func parseFloats(s string) ([]float64, error) {
	var values []float64
	for _, field := range strings.Fields(s) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func summarize(result validation.Result) string {
	parts := make([]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Code, v.Message))
	}
	return strings.Join(parts, "; ")
}

// Stats counts documents per collection for the utility endpoint.
func (s *ImportExportService) Stats(ctx context.Context) (map[string]int64, error) {
	progs, err := s.store.ChordProgressions.Count(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.NotePatterns.Count(ctx)
	if err != nil {
		return nil, err
	}
	rhythms, err := s.store.RhythmPatterns.Count(ctx)
	if err != nil {
		return nil, err
	}
	sequences, err := s.store.NoteSequences.Count(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int64{
		"chord_progressions": progs,
		"note_patterns":      notes,
		"rhythm_patterns":    rhythms,
		"note_sequences":     sequences,
	}, nil
}

// PatternNames lists every stored pattern name, grouped by collection.
func (s *ImportExportService) PatternNames(ctx context.Context) (map[string][]string, error) {
	progs, err := s.store.ChordProgressions.Names(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.NotePatterns.Names(ctx)
	if err != nil {
		return nil, err
	}
	rhythms, err := s.store.RhythmPatterns.Names(ctx)
	if err != nil {
		return nil, err
	}
	return map[string][]string{
		"chord_progressions": progs,
		"note_patterns":      notes,
		"rhythm_patterns":    rhythms,
	}, nil
}
