package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"detection-service/internal/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrInvalidModelName),
		errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrNoModelsLoaded),
		errors.Is(err, domain.ErrDatabaseUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrDetectionFailed):
		// Capability failures carry an empty detection list so callers
		// never read detections alongside an error.
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      err.Error(),
			"detections": []domain.Detection{},
		})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
