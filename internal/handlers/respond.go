package handlers

import (
	"errors"

	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps domain failures onto HTTP responses. Anything not
// in the taxonomy is a 500 without internal detail.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidationError(err):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrVehicleNotFound), errors.Is(err, services.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrVehicleUnavailable),
		errors.Is(err, services.ErrIntervalConflict):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBookingNotConfirmed),
		errors.Is(err, services.ErrRentalNotActive),
		errors.Is(err, services.ErrUserRequired):
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}
