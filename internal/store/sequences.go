package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/models"
)

type gormNoteSequences struct {
	db *gorm.DB
}

var _ NoteSequences = (*gormNoteSequences)(nil)

func (s *gormNoteSequences) Create(ctx context.Context, seq domain.NoteSequence) (domain.NoteSequence, error) {
	row, err := models.NewNoteSequenceRow(seq)
	if err != nil {
		return domain.NoteSequence{}, err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.NoteSequence{}, err
	}
	return row.Domain()
}

func (s *gormNoteSequences) GetByID(ctx context.Context, id uint) (domain.NoteSequence, error) {
	var row models.NoteSequence
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return domain.NoteSequence{}, notFound(err)
	}
	return row.Domain()
}

func (s *gormNoteSequences) List(ctx context.Context) ([]domain.NoteSequence, error) {
	var rows []models.NoteSequence
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.NoteSequence, 0, len(rows))
	for _, row := range rows {
		seq, err := row.Domain()
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", row.ID, err)
		}
		out = append(out, seq)
	}
	return out, nil
}

func (s *gormNoteSequences) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.NoteSequence{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormNoteSequences) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.NoteSequence{}).Count(&count).Error
	return count, err
}
