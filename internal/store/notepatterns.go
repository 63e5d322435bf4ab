package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/models"
)

type gormNotePatterns struct {
	db *gorm.DB
}

var _ NotePatterns = (*gormNotePatterns)(nil)

func (s *gormNotePatterns) Create(ctx context.Context, pattern domain.NotePattern) (domain.NotePattern, error) {
	row, err := models.NewNotePatternRow(pattern)
	if err != nil {
		return domain.NotePattern{}, err
	}

	var existing models.NotePattern
	err = s.db.WithContext(ctx).Where("name = ?", pattern.Name).First(&existing).Error
	if err == nil {
		return domain.NotePattern{}, fmt.Errorf("%w: %q", ErrDuplicateName, pattern.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotePattern{}, err
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.NotePattern{}, err
	}
	return row.Domain()
}

func (s *gormNotePatterns) GetByID(ctx context.Context, id uint) (domain.NotePattern, error) {
	var row models.NotePattern
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return domain.NotePattern{}, notFound(err)
	}
	return row.Domain()
}

func (s *gormNotePatterns) GetByName(ctx context.Context, name string) (domain.NotePattern, error) {
	var row models.NotePattern
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return domain.NotePattern{}, notFound(err)
	}
	return row.Domain()
}

func (s *gormNotePatterns) List(ctx context.Context) ([]domain.NotePattern, error) {
	var rows []models.NotePattern
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.NotePattern, 0, len(rows))
	for _, row := range rows {
		pattern, err := row.Domain()
		if err != nil {
			return nil, fmt.Errorf("note pattern %d: %w", row.ID, err)
		}
		out = append(out, pattern)
	}
	return out, nil
}

func (s *gormNotePatterns) Update(ctx context.Context, id uint, pattern domain.NotePattern) (domain.NotePattern, error) {
	var existing models.NotePattern
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return domain.NotePattern{}, notFound(err)
	}

	if pattern.Name != existing.Name {
		var clash models.NotePattern
		err := s.db.WithContext(ctx).Where("name = ?", pattern.Name).First(&clash).Error
		if err == nil {
			return domain.NotePattern{}, fmt.Errorf("%w: %q", ErrDuplicateName, pattern.Name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotePattern{}, err
		}
	}

	row, err := models.NewNotePatternRow(pattern)
	if err != nil {
		return domain.NotePattern{}, err
	}
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return domain.NotePattern{}, err
	}
	return row.Domain()
}

func (s *gormNotePatterns) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.NotePattern{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormNotePatterns) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.NotePattern{}).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}

func (s *gormNotePatterns) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.NotePattern{}).Count(&count).Error
	return count, err
}
