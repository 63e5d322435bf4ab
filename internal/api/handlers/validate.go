package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/notegen-api/internal/metrics"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

// maxValidationBody caps the request body read for validation payloads.
const maxValidationBody = 1 << 20

type ValidateHandler struct {
	metrics *metrics.Client
}

func NewValidateHandler(m *metrics.Client) *ValidateHandler {
	return &ValidateHandler{metrics: m}
}

// level reads the ?level= query, defaulting to NORMAL; a bad value
// writes the 400 response and reports false.
func (h *ValidateHandler) level(c *gin.Context) (validation.Level, bool) {
	raw := c.DefaultQuery("level", "normal")
	level, err := validation.ParseLevel(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return level, true
}

// body reads the raw request body; validation coerces it itself so
// malformed entities become violations instead of 400s.
func (h *ValidateHandler) body(c *gin.Context) (json.RawMessage, bool) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxValidationBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return nil, false
	}
	return data, true
}

func (h *ValidateHandler) respond(c *gin.Context, collection string, level validation.Level, result validation.Result) {
	for _, v := range result.Violations {
		h.metrics.RecordValidationFailure(collection, v.Code)
	}
	c.JSON(http.StatusOK, result)
}

// NotePattern validates a note pattern payload at the requested level
func (h *ValidateHandler) NotePattern(c *gin.Context) {
	level, ok := h.level(c)
	if !ok {
		return
	}
	data, ok := h.body(c)
	if !ok {
		return
	}
	h.respond(c, "note_patterns", level, validation.ValidateNotePattern(data, level))
}

// RhythmPattern validates a rhythm pattern payload at the requested level
func (h *ValidateHandler) RhythmPattern(c *gin.Context) {
	level, ok := h.level(c)
	if !ok {
		return
	}
	data, ok := h.body(c)
	if !ok {
		return
	}
	h.respond(c, "rhythm_patterns", level, validation.ValidateRhythmPattern(data, level))
}

// ChordProgression validates a progression payload at the requested level
func (h *ValidateHandler) ChordProgression(c *gin.Context) {
	level, ok := h.level(c)
	if !ok {
		return
	}
	data, ok := h.body(c)
	if !ok {
		return
	}
	h.respond(c, "chord_progressions", level, validation.ValidateChordProgression(data, level))
}

// NoteSequence validates a sequence payload at the requested level
func (h *ValidateHandler) NoteSequence(c *gin.Context) {
	level, ok := h.level(c)
	if !ok {
		return
	}
	data, ok := h.body(c)
	if !ok {
		return
	}
	h.respond(c, "note_sequences", level, validation.ValidateNoteSequence(data, level))
}

// Config validates store connection parameters against the closed schema
func (h *ValidateHandler) Config(c *gin.Context) {
	level, ok := h.level(c)
	if !ok {
		return
	}
	data, ok := h.body(c)
	if !ok {
		return
	}

	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		result := validation.NewResult()
		result.Add(validation.CodeValidationError, "could not interpret input: "+err.Error(), "")
		h.respond(c, "config", level, result)
		return
	}
	h.respond(c, "config", level, validation.ValidateConnectionConfig(params, level))
}
