package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/notegen-api/internal/database"
	"github.com/Conceptual-Machines/notegen-api/internal/logger"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
)

type AdminHandler struct {
	store *store.Store
}

func NewAdminHandler(st *store.Store) *AdminHandler {
	return &AdminHandler{store: st}
}

// ListUsers returns all user accounts
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.store.Users.List(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list users", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// SeedPresets re-runs the built-in preset seed. Existing rows are left
// alone; only missing presets are inserted.
func (h *AdminHandler) SeedPresets(c *gin.Context) {
	inserted, err := database.SeedPresets(c.Request.Context(), h.store)
	if err != nil {
		logger.Error("Preset seed failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed presets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"seeded": inserted,
	})
}
