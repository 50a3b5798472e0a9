package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness of the service and its database
type HealthHandler struct {
	db     Pinger
	status Trainer
}

func NewHealthHandler(db Pinger, status Trainer) *HealthHandler {
	return &HealthHandler{db: db, status: status}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "model_trained": h.status.Status().IsTrained}
	if h.db != nil {
		if err := h.db(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
	}
	c.JSON(http.StatusOK, body)
}
