package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/models"
)

type gormChordProgressions struct {
	db *gorm.DB
}

var _ ChordProgressions = (*gormChordProgressions)(nil)

func (s *gormChordProgressions) Create(ctx context.Context, prog domain.ChordProgression) (domain.ChordProgression, error) {
	row, err := models.NewChordProgressionRow(prog)
	if err != nil {
		return domain.ChordProgression{}, err
	}

	var existing models.ChordProgression
	err = s.db.WithContext(ctx).Where("name = ?", prog.Name).First(&existing).Error
	if err == nil {
		return domain.ChordProgression{}, fmt.Errorf("%w: %q", ErrDuplicateName, prog.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ChordProgression{}, err
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.ChordProgression{}, err
	}
	return row.Domain()
}

func (s *gormChordProgressions) GetByID(ctx context.Context, id uint) (domain.ChordProgression, error) {
	var row models.ChordProgression
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return domain.ChordProgression{}, notFound(err)
	}
	return row.Domain()
}

func (s *gormChordProgressions) GetByName(ctx context.Context, name string) (domain.ChordProgression, error) {
	var row models.ChordProgression
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return domain.ChordProgression{}, notFound(err)
	}
	return row.Domain()
}

func (s *gormChordProgressions) List(ctx context.Context) ([]domain.ChordProgression, error) {
	var rows []models.ChordProgression
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ChordProgression, 0, len(rows))
	for _, row := range rows {
		prog, err := row.Domain()
		if err != nil {
			return nil, fmt.Errorf("progression %d: %w", row.ID, err)
		}
		out = append(out, prog)
	}
	return out, nil
}

func (s *gormChordProgressions) Update(ctx context.Context, id uint, prog domain.ChordProgression) (domain.ChordProgression, error) {
	var existing models.ChordProgression
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return domain.ChordProgression{}, notFound(err)
	}

	if prog.Name != existing.Name {
		var clash models.ChordProgression
		err := s.db.WithContext(ctx).Where("name = ?", prog.Name).First(&clash).Error
		if err == nil {
			return domain.ChordProgression{}, fmt.Errorf("%w: %q", ErrDuplicateName, prog.Name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ChordProgression{}, err
		}
	}

	row, err := models.NewChordProgressionRow(prog)
	if err != nil {
		return domain.ChordProgression{}, err
	}
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return domain.ChordProgression{}, err
	}
	return row.Domain()
}

func (s *gormChordProgressions) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.ChordProgression{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormChordProgressions) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.ChordProgression{}).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}

func (s *gormChordProgressions) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ChordProgression{}).Count(&count).Error
	return count, err
}
