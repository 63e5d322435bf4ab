// Package database wires the GORM connection, schema migration, and the
// preset seed that makes a fresh deployment immediately useful.
package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Conceptual-Machines/notegen-api/internal/models"
	"github.com/Conceptual-Machines/notegen-api/internal/presets"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
)

// Connect opens a pooled Postgres connection
func Connect(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrate runs schema auto-migration for all persisted models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ChordProgression{},
		&models.NotePattern{},
		&models.RhythmPattern{},
		&models.NoteSequence{},
	)
}

// SeedPresets inserts the built-in catalog, skipping entries that already
// exist. Returns the number of rows inserted.
func SeedPresets(ctx context.Context, st *store.Store) (int, error) {
	catalog, err := presets.All()
	if err != nil {
		return 0, fmt.Errorf("failed to build preset catalog: %w", err)
	}

	inserted := 0
	for _, p := range catalog.Progressions {
		if _, err := st.ChordProgressions.Create(ctx, p); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				continue
			}
			return inserted, fmt.Errorf("failed to seed progression %q: %w", p.Name, err)
		}
		inserted++
	}
	for _, p := range catalog.NotePatterns {
		if _, err := st.NotePatterns.Create(ctx, p); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				continue
			}
			return inserted, fmt.Errorf("failed to seed note pattern %q: %w", p.Name, err)
		}
		inserted++
	}
	for _, p := range catalog.RhythmPatterns {
		if _, err := st.RhythmPatterns.Create(ctx, p); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				continue
			}
			return inserted, fmt.Errorf("failed to seed rhythm pattern %q: %w", p.Name, err)
		}
		inserted++
	}

	if inserted > 0 {
		log.Printf("🌱 Seeded %d preset patterns", inserted)
	}
	return inserted, nil
}
