package handlers

import (
	"errors"
	"net/http"

	"diabetes-prediction-service/internal/adapters/primary/http/dto"
	"diabetes-prediction-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Rejected input
	case errors.Is(err, domain.ErrInvalidPatientInput):
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
			Detail: []dto.ValidationError{{Loc: []string{locBody}, Msg: err.Error(), Type: "value_error"}},
		})

	// Model and artifact faults are never the caller's fault
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
