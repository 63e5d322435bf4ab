package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/models"
)

type gormRhythmPatterns struct {
	db *gorm.DB
}

var _ RhythmPatterns = (*gormRhythmPatterns)(nil)

func (s *gormRhythmPatterns) Create(ctx context.Context, pattern domain.RhythmPattern) (domain.RhythmPattern, error) {
	row, err := models.NewRhythmPatternRow(pattern)
	if err != nil {
		return domain.RhythmPattern{}, err
	}

	var existing models.RhythmPattern
	err = s.db.WithContext(ctx).Where("name = ?", pattern.Name).First(&existing).Error
	if err == nil {
		return domain.RhythmPattern{}, fmt.Errorf("%w: %q", ErrDuplicateName, pattern.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RhythmPattern{}, err
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.RhythmPattern{}, err
	}
	return row.Domain()
}

func (s *gormRhythmPatterns) GetByID(ctx context.Context, id uint) (domain.RhythmPattern, error) {
	var row models.RhythmPattern
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return domain.RhythmPattern{}, notFound(err)
	}
	return row.Domain()
}

func (s *gormRhythmPatterns) GetByName(ctx context.Context, name string) (domain.RhythmPattern, error) {
	var row models.RhythmPattern
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return domain.RhythmPattern{}, notFound(err)
	}
	return row.Domain()
}

func (s *gormRhythmPatterns) List(ctx context.Context) ([]domain.RhythmPattern, error) {
	var rows []models.RhythmPattern
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.RhythmPattern, 0, len(rows))
	for _, row := range rows {
		pattern, err := row.Domain()
		if err != nil {
			return nil, fmt.Errorf("rhythm pattern %d: %w", row.ID, err)
		}
		out = append(out, pattern)
	}
	return out, nil
}

func (s *gormRhythmPatterns) Update(ctx context.Context, id uint, pattern domain.RhythmPattern) (domain.RhythmPattern, error) {
	var existing models.RhythmPattern
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return domain.RhythmPattern{}, notFound(err)
	}

	if pattern.Name != existing.Name {
		var clash models.RhythmPattern
		err := s.db.WithContext(ctx).Where("name = ?", pattern.Name).First(&clash).Error
		if err == nil {
			return domain.RhythmPattern{}, fmt.Errorf("%w: %q", ErrDuplicateName, pattern.Name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RhythmPattern{}, err
		}
	}

	row, err := models.NewRhythmPatternRow(pattern)
	if err != nil {
		return domain.RhythmPattern{}, err
	}
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return domain.RhythmPattern{}, err
	}
	return row.Domain()
}

func (s *gormRhythmPatterns) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.RhythmPattern{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormRhythmPatterns) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.RhythmPattern{}).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}

func (s *gormRhythmPatterns) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RhythmPattern{}).Count(&count).Error
	return count, err
}
