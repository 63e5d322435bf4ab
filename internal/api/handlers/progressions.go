package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/logger"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
)

type ProgressionHandler struct {
	progressions store.ChordProgressions
}

func NewProgressionHandler(progressions store.ChordProgressions) *ProgressionHandler {
	return &ProgressionHandler{progressions: progressions}
}

// Create stores a new chord progression
func (h *ProgressionHandler) Create(c *gin.Context) {
	var prog domain.ChordProgression
	if err := c.ShouldBindJSON(&prog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := prog.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	created, err := h.progressions.Create(c.Request.Context(), prog)
	if err != nil {
		storeError(c, err, "chord progression")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns every stored chord progression
func (h *ProgressionHandler) List(c *gin.Context) {
	progs, err := h.progressions.List(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list progressions", err, logger.WithContext(c))
		storeError(c, err, "chord progressions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"chord_progressions": progs, "count": len(progs)})
}

// Get returns one chord progression by row id
func (h *ProgressionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	prog, err := h.progressions.GetByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "chord progression")
		return
	}
	c.JSON(http.StatusOK, prog)
}

// GetByName returns one chord progression by its unique name
func (h *ProgressionHandler) GetByName(c *gin.Context) {
	prog, err := h.progressions.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		storeError(c, err, "chord progression")
		return
	}
	c.JSON(http.StatusOK, prog)
}

// Update replaces a stored chord progression
func (h *ProgressionHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var prog domain.ChordProgression
	if err := c.ShouldBindJSON(&prog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := prog.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.progressions.Update(c.Request.Context(), id, prog)
	if err != nil {
		storeError(c, err, "chord progression")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a stored chord progression
func (h *ProgressionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.progressions.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err, "chord progression")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
