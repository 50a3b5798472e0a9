package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmatch/backend/internal/matching"
)

// Trainer is the engine capability used by TrainingHandler
type Trainer interface {
	Train(ctx context.Context) (matching.TrainResult, error)
	Status() matching.ModelStatus
}

// TrainingHandler exposes manual training and model status
type TrainingHandler struct {
	engine Trainer
}

func NewTrainingHandler(engine Trainer) *TrainingHandler {
	return &TrainingHandler{engine: engine}
}

// RegisterRoutes mounts the routes; protect guards the training trigger
func (h *TrainingHandler) RegisterRoutes(router *gin.RouterGroup, protect ...gin.HandlerFunc) {
	model := router.Group("/model")
	{
		model.GET("/status", h.Status)
		model.POST("/train", append(protect, h.Train)...)
	}
}

// Train rebuilds the lexical model from the current catalog
func (h *TrainingHandler) Train(c *gin.Context) {
	result, err := h.engine.Train(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status reports the served model
func (h *TrainingHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Status())
}
