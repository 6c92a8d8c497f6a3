package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the database service.
type Pinger interface {
	Ping() error
}

type HealthcheckHandler struct {
	db Pinger
}

func NewHealthcheckHandler(db Pinger) *HealthcheckHandler {
	return &HealthcheckHandler{db: db}
}

func (h *HealthcheckHandler) Health(c *gin.Context) {
	checks := gin.H{"app": "ok", "database": "ok"}

	if err := h.db.Ping(); err != nil {
		checks["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, ErrorEnvelope{
			Error: APIError{
				Message: "Database connectivity check failed",
				Code:    "DATABASE_CONNECTIVITY_ERROR",
				Details: gin.H{"status": "error", "checks": checks},
			},
		})
		return
	}

	RespondData(c, http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
