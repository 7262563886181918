package handlers

import (
	"strconv"
	"time"

	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CreateBooking handles a renter's reservation request
func CreateBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		var input struct {
			VehicleID           uint       `json:"vehicleId" binding:"required"`
			StationID           uint       `json:"stationId" binding:"required"`
			ScheduledPickupTime time.Time  `json:"scheduledPickupTime" binding:"required"`
			ScheduledReturnTime *time.Time `json:"scheduledReturnTime,omitempty"`
			Notes               string     `json:"notes,omitempty"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := bookings.Create(userId, services.CreateBookingInput{
			VehicleID:           input.VehicleID,
			StationID:           input.StationID,
			ScheduledPickupTime: input.ScheduledPickupTime,
			ScheduledReturnTime: input.ScheduledReturnTime,
			Notes:               input.Notes,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(201, booking)
	}
}

// GetBooking returns a single booking
func GetBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		booking, err := bookings.GetByID(uint(id))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, booking)
	}
}

// GetMyBookings returns the authenticated renter's bookings
func GetMyBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		result, err := bookings.GetUserBookings(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, result)
	}
}

// GetStationBookings returns a station's bookings (staff)
func GetStationBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stationId, err := strconv.ParseUint(c.Param("stationId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid station ID"})
			return
		}

		result, err := bookings.GetStationBookings(uint(stationId))
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, result)
	}
}

// CancelBooking cancels the caller's pending booking. A false result means
// the booking does not exist, belongs to someone else, or is past pending;
// the response deliberately does not say which.
func CancelBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		cancelled, err := bookings.Cancel(uint(id), userId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if !cancelled {
			c.JSON(400, gin.H{"error": "Booking cannot be cancelled"})
			return
		}

		c.JSON(200, gin.H{"message": "Booking cancelled"})
	}
}

// ConfirmBooking confirms a pending booking (staff)
func ConfirmBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffId := c.GetUint("userId")
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		confirmed, err := bookings.Confirm(uint(id), staffId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if !confirmed {
			c.JSON(400, gin.H{"error": "Booking cannot be confirmed"})
			return
		}

		c.JSON(200, gin.H{"message": "Booking confirmed"})
	}
}
