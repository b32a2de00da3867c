package handlers

import (
	"encoding/json"
	"net/http"

	"diabetes-prediction-service/internal/adapters/primary/http/dto"
	"diabetes-prediction-service/internal/adapters/primary/http/middleware"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: rootMessage})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Features: len(h.predictionSvc.Features()),
	})
}

func (h *Handler) Predict(c *gin.Context) {
	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Detail: validationDetails(err)})
		return
	}
	req, details := decodePredictRequest(fields)
	if len(details) > 0 {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Detail: details})
		return
	}

	prediction, err := h.predictionSvc.Predict(c.Request.Context(), dto.ToPatientRecord(req))
	if err != nil {
		log.WithError(err).WithField("request_id", c.GetString(middleware.ContextRequestID)).Error("predict failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictionResponse(prediction))
}
