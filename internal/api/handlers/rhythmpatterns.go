package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/logger"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
)

type RhythmPatternHandler struct {
	patterns store.RhythmPatterns
}

func NewRhythmPatternHandler(patterns store.RhythmPatterns) *RhythmPatternHandler {
	return &RhythmPatternHandler{patterns: patterns}
}

// Create stores a new rhythm pattern
func (h *RhythmPatternHandler) Create(c *gin.Context) {
	var pattern domain.RhythmPattern
	if err := c.ShouldBindJSON(&pattern); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := pattern.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	created, err := h.patterns.Create(c.Request.Context(), pattern)
	if err != nil {
		storeError(c, err, "rhythm pattern")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns every stored rhythm pattern
func (h *RhythmPatternHandler) List(c *gin.Context) {
	patterns, err := h.patterns.List(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list rhythm patterns", err, logger.WithContext(c))
		storeError(c, err, "rhythm patterns")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rhythm_patterns": patterns, "count": len(patterns)})
}

// Get returns one rhythm pattern by row id
func (h *RhythmPatternHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pattern, err := h.patterns.GetByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "rhythm pattern")
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// GetByName returns one rhythm pattern by its unique name
func (h *RhythmPatternHandler) GetByName(c *gin.Context) {
	pattern, err := h.patterns.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		storeError(c, err, "rhythm pattern")
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// Update replaces a stored rhythm pattern
func (h *RhythmPatternHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var pattern domain.RhythmPattern
	if err := c.ShouldBindJSON(&pattern); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := pattern.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.patterns.Update(c.Request.Context(), id, pattern)
	if err != nil {
		storeError(c, err, "rhythm pattern")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a stored rhythm pattern
func (h *RhythmPatternHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.patterns.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err, "rhythm pattern")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
