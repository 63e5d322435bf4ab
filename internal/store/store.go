// Package store persists domain documents behind per-collection
// repository interfaces, keeping handlers and services decoupled from
// GORM specifics.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/models"
)

var (
	// ErrNotFound reports a missing row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName reports a name collision within a collection.
	ErrDuplicateName = errors.New("name already exists")
)

// ChordProgressions persists progression documents. Names are unique.
type ChordProgressions interface {
	Create(ctx context.Context, prog domain.ChordProgression) (domain.ChordProgression, error)
	GetByID(ctx context.Context, id uint) (domain.ChordProgression, error)
	GetByName(ctx context.Context, name string) (domain.ChordProgression, error)
	List(ctx context.Context) ([]domain.ChordProgression, error)
	Update(ctx context.Context, id uint, prog domain.ChordProgression) (domain.ChordProgression, error)
	Delete(ctx context.Context, id uint) error
	Names(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// NotePatterns persists melodic pattern documents. Names are unique.
type NotePatterns interface {
	Create(ctx context.Context, pattern domain.NotePattern) (domain.NotePattern, error)
	GetByID(ctx context.Context, id uint) (domain.NotePattern, error)
	GetByName(ctx context.Context, name string) (domain.NotePattern, error)
	List(ctx context.Context) ([]domain.NotePattern, error)
	Update(ctx context.Context, id uint, pattern domain.NotePattern) (domain.NotePattern, error)
	Delete(ctx context.Context, id uint) error
	Names(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// RhythmPatterns persists rhythm pattern documents. Names are unique.
type RhythmPatterns interface {
	Create(ctx context.Context, pattern domain.RhythmPattern) (domain.RhythmPattern, error)
	GetByID(ctx context.Context, id uint) (domain.RhythmPattern, error)
	GetByName(ctx context.Context, name string) (domain.RhythmPattern, error)
	List(ctx context.Context) ([]domain.RhythmPattern, error)
	Update(ctx context.Context, id uint, pattern domain.RhythmPattern) (domain.RhythmPattern, error)
	Delete(ctx context.Context, id uint) error
	Names(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// NoteSequences persists generated and imported sequences. Names repeat.
type NoteSequences interface {
	Create(ctx context.Context, seq domain.NoteSequence) (domain.NoteSequence, error)
	GetByID(ctx context.Context, id uint) (domain.NoteSequence, error)
	List(ctx context.Context) ([]domain.NoteSequence, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// Users persists accounts.
type Users interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

// Store bundles every repository over one database handle.
type Store struct {
	ChordProgressions ChordProgressions
	NotePatterns      NotePatterns
	RhythmPatterns    RhythmPatterns
	NoteSequences     NoteSequences
	Users             Users
}

// New wires the GORM repositories.
func New(db *gorm.DB) *Store {
	return &Store{
		ChordProgressions: &gormChordProgressions{db: db},
		NotePatterns:      &gormNotePatterns{db: db},
		RhythmPatterns:    &gormRhythmPatterns{db: db},
		NoteSequences:     &gormNoteSequences{db: db},
		Users:             &gormUsers{db: db},
	}
}

// notFound translates gorm's sentinel into the store's.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
