package handlers

import (
	"diabetes-prediction-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

const rootMessage = "Diabetes prediction API"

type Handler struct {
	predictionSvc *services.PredictionService
}

func New(predictionSvc *services.PredictionService) *Handler {
	return &Handler{predictionSvc: predictionSvc}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/healthz", h.Health)
	r.POST("/predict", h.Predict)
}
