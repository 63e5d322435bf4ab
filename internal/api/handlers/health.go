package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	version string
}

func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// HealthCheck returns the health status of the API, including a
// database ping.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	status := http.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "unavailable"
	} else if pingErr := sqlDB.PingContext(c.Request.Context()); pingErr != nil {
		dbStatus = "unreachable"
	}

	if dbStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  dbStatus,
		"version": h.version,
		"database": gin.H{
			"status": dbStatus,
		},
	})
}
