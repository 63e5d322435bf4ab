package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
)

// JSONB stores a raw JSON document in a postgres jsonb column.
type JSONB json.RawMessage

// Value sends the document as text so postgres casts it to jsonb.
func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported jsonb source %T", value)
	}
	return nil
}

func (JSONB) GormDataType() string { return "jsonb" }

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}

// JoinTags flattens tags into the stored comma-separated form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags reverses JoinTags; empty input yields nil.
func SplitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return strings.Split(tags, ",")
}

func rowID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ChordProgression is the stored form of a progression: indexed scalars
// for querying plus the full document as jsonb.
type ChordProgression struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Name       string         `gorm:"uniqueIndex;not null" json:"name"`
	Key        string         `gorm:"index" json:"key"`
	ScaleType  string         `gorm:"index" json:"scale_type"`
	Complexity float64        `json:"complexity"`
	Tags       string         `gorm:"type:text" json:"tags"` // Comma-separated list
	Document   JSONB          `gorm:"type:jsonb;not null" json:"document"`
}

// NewChordProgressionRow flattens a progression into its stored form.
func NewChordProgressionRow(p domain.ChordProgression) (ChordProgression, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return ChordProgression{}, err
	}
	return ChordProgression{
		Name:       p.Name,
		Key:        p.Key,
		ScaleType:  string(p.ScaleType),
		Complexity: p.Complexity,
		Tags:       JoinTags(p.Tags),
		Document:   doc,
	}, nil
}

// Domain rebuilds the progression from the stored document, carrying the
// row ID.
func (m ChordProgression) Domain() (domain.ChordProgression, error) {
	var p domain.ChordProgression
	if err := json.Unmarshal(m.Document, &p); err != nil {
		return domain.ChordProgression{}, err
	}
	p.ID = rowID(m.ID)
	return p, nil
}

// NotePattern is the stored form of a melodic pattern.
type NotePattern struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Name       string         `gorm:"uniqueIndex;not null" json:"name"`
	ScaleType  string         `gorm:"index" json:"scale_type"`
	Direction  string         `json:"direction"`
	Complexity float64        `json:"complexity"`
	Tags       string         `gorm:"type:text" json:"tags"` // Comma-separated list
	Document   JSONB          `gorm:"type:jsonb;not null" json:"document"`
}

// NewNotePatternRow flattens a note pattern into its stored form.
func NewNotePatternRow(p domain.NotePattern) (NotePattern, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return NotePattern{}, err
	}
	return NotePattern{
		Name:       p.Name,
		ScaleType:  string(p.Data.ScaleType),
		Direction:  string(p.Data.Direction),
		Complexity: p.Complexity,
		Tags:       JoinTags(p.Tags),
		Document:   doc,
	}, nil
}

// Domain rebuilds the note pattern from the stored document.
func (m NotePattern) Domain() (domain.NotePattern, error) {
	var p domain.NotePattern
	if err := json.Unmarshal(m.Document, &p); err != nil {
		return domain.NotePattern{}, err
	}
	p.ID = rowID(m.ID)
	return p, nil
}

// RhythmPattern is the stored form of a rhythm pattern.
type RhythmPattern struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"uniqueIndex;not null" json:"name"`
	TimeSignature string         `json:"time_signature"`
	Style         string         `gorm:"index" json:"style"`
	Complexity    float64        `json:"complexity"`
	Tags          string         `gorm:"type:text" json:"tags"` // Comma-separated list
	Document      JSONB          `gorm:"type:jsonb;not null" json:"document"`
}

// NewRhythmPatternRow flattens a rhythm pattern into its stored form.
func NewRhythmPatternRow(p domain.RhythmPattern) (RhythmPattern, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return RhythmPattern{}, err
	}
	return RhythmPattern{
		Name:          p.Name,
		TimeSignature: p.TimeSignature.String(),
		Style:         p.Style,
		Complexity:    p.Complexity,
		Tags:          JoinTags(p.Tags),
		Document:      doc,
	}, nil
}

// Domain rebuilds the rhythm pattern from the stored document. Rhythm
// patterns carry no wire ID, so the row ID stays on the row.
func (m RhythmPattern) Domain() (domain.RhythmPattern, error) {
	var p domain.RhythmPattern
	if err := json.Unmarshal(m.Document, &p); err != nil {
		return domain.RhythmPattern{}, err
	}
	return p, nil
}

// NoteSequence is the stored form of a generated or imported sequence.
// Sequence names are indexed but not unique.
type NoteSequence struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Name              string         `gorm:"index;not null" json:"name"`
	ProgressionName   string         `gorm:"index" json:"progression_name"`
	NotePatternName   string         `json:"note_pattern_name"`
	RhythmPatternName string         `json:"rhythm_pattern_name"`
	Tempo             int            `json:"tempo"`
	Document          JSONB          `gorm:"type:jsonb;not null" json:"document"`
}

// NewNoteSequenceRow flattens a sequence into its stored form.
func NewNoteSequenceRow(s domain.NoteSequence) (NoteSequence, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return NoteSequence{}, err
	}
	return NoteSequence{
		Name:              s.Name,
		ProgressionName:   s.ProgressionName,
		NotePatternName:   s.NotePatternName,
		RhythmPatternName: s.RhythmPatternName,
		Tempo:             s.Tempo,
		Document:          doc,
	}, nil
}

// Domain rebuilds the sequence from the stored document.
func (m NoteSequence) Domain() (domain.NoteSequence, error) {
	var s domain.NoteSequence
	if err := json.Unmarshal(m.Document, &s); err != nil {
		return domain.NoteSequence{}, err
	}
	s.ID = rowID(m.ID)
	return s, nil
}
