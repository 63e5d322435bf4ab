package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/models"
)

// NewMemory returns a Store backed by in-process maps. It honors the
// same name-uniqueness and sentinel-error contracts as the GORM
// implementation; handler and service tests run against it.
func NewMemory() *Store {
	return &Store{
		ChordProgressions: &memProgressions{rows: map[uint]domain.ChordProgression{}},
		NotePatterns:      &memNotePatterns{rows: map[uint]domain.NotePattern{}},
		RhythmPatterns:    &memRhythmPatterns{rows: map[uint]domain.RhythmPattern{}},
		NoteSequences:     &memSequences{rows: map[uint]domain.NoteSequence{}},
		Users:             &memUsers{rows: map[uint]models.User{}},
	}
}

type memProgressions struct {
	mu     sync.Mutex
	rows   map[uint]domain.ChordProgression
	nextID uint
}

var _ ChordProgressions = (*memProgressions)(nil)

func (m *memProgressions) Create(_ context.Context, prog domain.ChordProgression) (domain.ChordProgression, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Name == prog.Name {
			return domain.ChordProgression{}, fmt.Errorf("%w: %q", ErrDuplicateName, prog.Name)
		}
	}
	m.nextID++
	prog.ID = fmt.Sprint(m.nextID)
	m.rows[m.nextID] = prog
	return prog, nil
}

func (m *memProgressions) GetByID(_ context.Context, id uint) (domain.ChordProgression, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prog, ok := m.rows[id]
	if !ok {
		return domain.ChordProgression{}, ErrNotFound
	}
	return prog, nil
}

func (m *memProgressions) GetByName(_ context.Context, name string) (domain.ChordProgression, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, prog := range m.rows {
		if prog.Name == name {
			return prog, nil
		}
	}
	return domain.ChordProgression{}, ErrNotFound
}

func (m *memProgressions) List(_ context.Context) ([]domain.ChordProgression, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ChordProgression, 0, len(m.rows))
	for _, prog := range m.rows {
		out = append(out, prog)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memProgressions) Update(_ context.Context, id uint, prog domain.ChordProgression) (domain.ChordProgression, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ChordProgression{}, ErrNotFound
	}
	prog.ID = fmt.Sprint(id)
	m.rows[id] = prog
	return prog, nil
}

func (m *memProgressions) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memProgressions) Names(ctx context.Context) ([]string, error) {
	progs, _ := m.List(ctx)
	names := make([]string, len(progs))
	for i, prog := range progs {
		names[i] = prog.Name
	}
	return names, nil
}

func (m *memProgressions) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

type memNotePatterns struct {
	mu     sync.Mutex
	rows   map[uint]domain.NotePattern
	nextID uint
}

var _ NotePatterns = (*memNotePatterns)(nil)

func (m *memNotePatterns) Create(_ context.Context, pattern domain.NotePattern) (domain.NotePattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Name == pattern.Name {
			return domain.NotePattern{}, fmt.Errorf("%w: %q", ErrDuplicateName, pattern.Name)
		}
	}
	m.nextID++
	pattern.ID = fmt.Sprint(m.nextID)
	m.rows[m.nextID] = pattern
	return pattern, nil
}

func (m *memNotePatterns) GetByID(_ context.Context, id uint) (domain.NotePattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pattern, ok := m.rows[id]
	if !ok {
		return domain.NotePattern{}, ErrNotFound
	}
	return pattern, nil
}

func (m *memNotePatterns) GetByName(_ context.Context, name string) (domain.NotePattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pattern := range m.rows {
		if pattern.Name == name {
			return pattern, nil
		}
	}
	return domain.NotePattern{}, ErrNotFound
}

func (m *memNotePatterns) List(_ context.Context) ([]domain.NotePattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.NotePattern, 0, len(m.rows))
	for _, pattern := range m.rows {
		out = append(out, pattern)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memNotePatterns) Update(_ context.Context, id uint, pattern domain.NotePattern) (domain.NotePattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.NotePattern{}, ErrNotFound
	}
	pattern.ID = fmt.Sprint(id)
	m.rows[id] = pattern
	return pattern, nil
}

func (m *memNotePatterns) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memNotePatterns) Names(ctx context.Context) ([]string, error) {
	patterns, _ := m.List(ctx)
	names := make([]string, len(patterns))
	for i, pattern := range patterns {
		names[i] = pattern.Name
	}
	return names, nil
}

func (m *memNotePatterns) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

type memRhythmPatterns struct {
	mu     sync.Mutex
	rows   map[uint]domain.RhythmPattern
	nextID uint
}

var _ RhythmPatterns = (*memRhythmPatterns)(nil)

func (m *memRhythmPatterns) Create(_ context.Context, pattern domain.RhythmPattern) (domain.RhythmPattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Name == pattern.Name {
			return domain.RhythmPattern{}, fmt.Errorf("%w: %q", ErrDuplicateName, pattern.Name)
		}
	}
	m.nextID++
	m.rows[m.nextID] = pattern
	return pattern, nil
}

func (m *memRhythmPatterns) GetByID(_ context.Context, id uint) (domain.RhythmPattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pattern, ok := m.rows[id]
	if !ok {
		return domain.RhythmPattern{}, ErrNotFound
	}
	return pattern, nil
}

func (m *memRhythmPatterns) GetByName(_ context.Context, name string) (domain.RhythmPattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pattern := range m.rows {
		if pattern.Name == name {
			return pattern, nil
		}
	}
	return domain.RhythmPattern{}, ErrNotFound
}

func (m *memRhythmPatterns) List(_ context.Context) ([]domain.RhythmPattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RhythmPattern, 0, len(m.rows))
	for _, pattern := range m.rows {
		out = append(out, pattern)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRhythmPatterns) Update(_ context.Context, id uint, pattern domain.RhythmPattern) (domain.RhythmPattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.RhythmPattern{}, ErrNotFound
	}
	m.rows[id] = pattern
	return pattern, nil
}

func (m *memRhythmPatterns) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRhythmPatterns) Names(ctx context.Context) ([]string, error) {
	patterns, _ := m.List(ctx)
	names := make([]string, len(patterns))
	for i, pattern := range patterns {
		names[i] = pattern.Name
	}
	return names, nil
}

func (m *memRhythmPatterns) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

type memSequences struct {
	mu     sync.Mutex
	rows   map[uint]domain.NoteSequence
	nextID uint
}

var _ NoteSequences = (*memSequences)(nil)

func (m *memSequences) Create(_ context.Context, seq domain.NoteSequence) (domain.NoteSequence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	seq.ID = fmt.Sprint(m.nextID)
	m.rows[m.nextID] = seq
	return seq, nil
}

func (m *memSequences) GetByID(_ context.Context, id uint) (domain.NoteSequence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, ok := m.rows[id]
	if !ok {
		return domain.NoteSequence{}, ErrNotFound
	}
	return seq, nil
}

func (m *memSequences) List(_ context.Context) ([]domain.NoteSequence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.NoteSequence, 0, len(m.rows))
	for _, seq := range m.rows {
		out = append(out, seq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSequences) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memSequences) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

type memUsers struct {
	mu     sync.Mutex
	rows   map[uint]models.User
	nextID uint
}

var _ Users = (*memUsers)(nil)

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Email == user.Email {
			return fmt.Errorf("%w: %q", ErrDuplicateName, user.Email)
		}
	}
	m.nextID++
	user.ID = m.nextID
	// Column defaults applied by the schema on insert.
	user.IsActive = true
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	m.rows[m.nextID] = *user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uint) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.rows[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.rows {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.rows))
	for _, user := range m.rows {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}
