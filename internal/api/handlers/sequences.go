package handlers

import (
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/generator"
	"github.com/Conceptual-Machines/notegen-api/internal/logger"
	"github.com/Conceptual-Machines/notegen-api/internal/metrics"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

type SequenceHandler struct {
	store   *store.Store
	metrics *metrics.Client
}

func NewSequenceHandler(st *store.Store, m *metrics.Client) *SequenceHandler {
	return &SequenceHandler{store: st, metrics: m}
}

type GenerateSequenceRequest struct {
	Name              string            `json:"name"`
	ProgressionName   string            `json:"progression_name" binding:"required"`
	NotePatternName   string            `json:"note_pattern_name" binding:"required"`
	RhythmPatternName string            `json:"rhythm_pattern_name" binding:"required"`
	ScaleInfo         *domain.ScaleInfo `json:"scale_info,omitempty"`
	Transpose         int               `json:"transpose"`
	Level             string            `json:"level,omitempty"`
}

// List returns every stored note sequence
func (h *SequenceHandler) List(c *gin.Context) {
	sequences, err := h.store.NoteSequences.List(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list sequences", err, logger.WithContext(c))
		storeError(c, err, "note sequences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"note_sequences": sequences, "count": len(sequences)})
}

// Get returns one note sequence by row id
func (h *SequenceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	seq, err := h.store.NoteSequences.GetByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "note sequence")
		return
	}
	c.JSON(http.StatusOK, seq)
}

// Generate renders a stored progression through stored patterns into a
// new note sequence and persists it. Referencing a missing pattern is a
// 422, not a 404: the request body, not the URL, named it.
func (h *SequenceHandler) Generate(c *gin.Context) {
	var req GenerateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level := validation.LevelNormal
	if req.Level != "" {
		parsed, err := validation.ParseLevel(req.Level)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		level = parsed
	}

	ctx := c.Request.Context()
	prog, err := h.store.ChordProgressions.GetByName(ctx, req.ProgressionName)
	if err != nil {
		h.missingPattern(c, err, "chord progression", req.ProgressionName)
		return
	}
	notePattern, err := h.store.NotePatterns.GetByName(ctx, req.NotePatternName)
	if err != nil {
		h.missingPattern(c, err, "note pattern", req.NotePatternName)
		return
	}
	rhythmPattern, err := h.store.RhythmPatterns.GetByName(ctx, req.RhythmPatternName)
	if err != nil {
		h.missingPattern(c, err, "rhythm pattern", req.RhythmPatternName)
		return
	}

	name := req.Name
	if name == "" {
		name = prog.Name + " sequence"
	}

	gen := generator.SequenceGenerator{
		Progression:   prog,
		NotePattern:   notePattern,
		RhythmPattern: rhythmPattern,
		Level:         level,
		Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	start := time.Now()
	seq, err := gen.Generate(name, req.ScaleInfo, req.Transpose)
	if err != nil {
		h.metrics.RecordSequenceGenerated(prog.Name, 0, time.Since(start), false)
		if errors.Is(err, generator.ErrSequenceInvalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Sequence generation failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate sequence"})
		return
	}

	stored, err := h.store.NoteSequences.Create(ctx, seq)
	if err != nil {
		logger.Error("Failed to store sequence", err, logger.WithContext(c))
		storeError(c, err, "note sequence")
		return
	}

	h.metrics.RecordSequenceGenerated(prog.Name, len(stored.Notes), time.Since(start), true)
	c.JSON(http.StatusCreated, stored)
}

func (h *SequenceHandler) missingPattern(c *gin.Context, err error, what, name string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": what + " not found: " + name,
		})
		return
	}
	storeError(c, err, what)
}
