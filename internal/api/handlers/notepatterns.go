package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/logger"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
)

type NotePatternHandler struct {
	patterns store.NotePatterns
}

func NewNotePatternHandler(patterns store.NotePatterns) *NotePatternHandler {
	return &NotePatternHandler{patterns: patterns}
}

// Create stores a new note pattern
func (h *NotePatternHandler) Create(c *gin.Context) {
	var pattern domain.NotePattern
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
		storeError(c, err, "note pattern")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns every stored note pattern
func (h *NotePatternHandler) List(c *gin.Context) {
	patterns, err := h.patterns.List(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list note patterns", err, logger.WithContext(c))
		storeError(c, err, "note patterns")
		return
	}
	c.JSON(http.StatusOK, gin.H{"note_patterns": patterns, "count": len(patterns)})
}

// Get returns one note pattern by row id
func (h *NotePatternHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pattern, err := h.patterns.GetByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "note pattern")
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// GetByName returns one note pattern by its unique name
func (h *NotePatternHandler) GetByName(c *gin.Context) {
	pattern, err := h.patterns.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		storeError(c, err, "note pattern")
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// Update replaces a stored note pattern
func (h *NotePatternHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var pattern domain.NotePattern
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
		storeError(c, err, "note pattern")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a stored note pattern
func (h *NotePatternHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.patterns.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err, "note pattern")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
