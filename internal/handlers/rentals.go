package handlers

import (
	"strconv"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CheckOut starts a rental from a confirmed booking or a walk-in (staff)
func CheckOut(rentals *services.RentalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffId := c.GetUint("userId")
		var input struct {
			VehicleID          uint     `json:"vehicleId" binding:"required"`
			BookingID          *uint    `json:"bookingId,omitempty"`
			UserID             *uint    `json:"userId,omitempty"`
			PickupBatteryLevel int      `json:"pickupBatteryLevel" binding:"min=0,max=100"`
			OdometerReading    *int     `json:"odometerReading,omitempty"`
			Notes              string   `json:"notes,omitempty"`
			ImageUrls          []string `json:"imageUrls,omitempty"`
			RenterSignature    string   `json:"renterSignature,omitempty"`
			StaffSignature     string   `json:"staffSignature,omitempty"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		rental, err := rentals.CheckOut(staffId, services.CheckOutInput{
			VehicleID:          input.VehicleID,
			BookingID:          input.BookingID,
			UserID:             input.UserID,
			PickupBatteryLevel: input.PickupBatteryLevel,
			OdometerReading:    input.OdometerReading,
			Notes:              input.Notes,
			ImageURLs:          input.ImageUrls,
			RenterSignature:    input.RenterSignature,
			StaffSignature:     input.StaffSignature,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(201, rental)
	}
}

// CheckIn closes an active rental and computes the charge (staff)
func CheckIn(rentals *services.RentalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffId := c.GetUint("userId")
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid rental ID"})
			return
		}

		var input struct {
			ReturnBatteryLevel   int      `json:"returnBatteryLevel" binding:"min=0,max=100"`
			TotalDistance        *float64 `json:"totalDistance,omitempty"`
			AdditionalFees       *float64 `json:"additionalFees,omitempty"`
			AdditionalFeesReason string   `json:"additionalFeesReason,omitempty"`
			DamageReport         string   `json:"damageReport,omitempty"`
			OdometerReading      *int     `json:"odometerReading,omitempty"`
			Notes                string   `json:"notes,omitempty"`
			ImageUrls            []string `json:"imageUrls,omitempty"`
			RenterSignature      string   `json:"renterSignature,omitempty"`
			StaffSignature       string   `json:"staffSignature,omitempty"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		rental, err := rentals.CheckIn(staffId, services.CheckInInput{
			RentalID:             uint(id),
			ReturnBatteryLevel:   input.ReturnBatteryLevel,
			TotalDistance:        input.TotalDistance,
			AdditionalFees:       input.AdditionalFees,
			AdditionalFeesReason: input.AdditionalFeesReason,
			DamageReport:         input.DamageReport,
			OdometerReading:      input.OdometerReading,
			Notes:                input.Notes,
			ImageURLs:            input.ImageUrls,
			RenterSignature:      input.RenterSignature,
			StaffSignature:       input.StaffSignature,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, rental)
	}
}

// GetRental returns a single rental
func GetRental(rentals *services.RentalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid rental ID"})
			return
		}

		rental, err := rentals.GetByID(uint(id))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, rental)
	}
}

// GetMyRentals returns the authenticated renter's rental history
func GetMyRentals(rentals *services.RentalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		result, err := rentals.GetUserRentals(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rentals"})
			return
		}

		c.JSON(200, result)
	}
}

// GetActiveRentals returns running rentals, optionally per station (staff)
func GetActiveRentals(rentals *services.RentalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stationId *uint
		if raw := c.Query("stationId"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid station ID"})
				return
			}
			id := uint(parsed)
			stationId = &id
		}

		result, err := rentals.GetActiveRentals(stationId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rentals"})
			return
		}

		c.JSON(200, result)
	}
}

// GetStationRentals returns a station's rentals with an optional status
// filter, decoded once against the closed enum (staff)
func GetStationRentals(rentals *services.RentalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stationId, err := strconv.ParseUint(c.Param("stationId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid station ID"})
			return
		}

		var status *models.RentalStatus
		if raw := c.Query("status"); raw != "" {
			parsed, ok := models.ParseRentalStatus(raw)
			if !ok {
				c.JSON(400, gin.H{"error": "Invalid rental status"})
				return
			}
			status = &parsed
		}

		result, err := rentals.GetStationRentals(uint(stationId), status)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rentals"})
			return
		}

		c.JSON(200, result)
	}
}

// GetRentalInspections returns the pickup/return condition records of a rental
func GetRentalInspections(inspections *services.InspectionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid rental ID"})
			return
		}

		records, err := inspections.GetRentalInspections(uint(id))
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch inspections"})
			return
		}

		response := make([]gin.H, 0, len(records))
		for _, rec := range records {
			response = append(response, gin.H{
				"id":              rec.ID,
				"isPickup":        rec.IsPickup,
				"odometerReading": rec.OdometerReading,
				"notes":           rec.Notes,
				"damageReport":    rec.DamageReport,
				"imageUrls":       rec.ImageURLList(),
				"inspectionDate":  rec.InspectionDate,
				"inspectorId":     rec.InspectorID,
			})
		}

		c.JSON(200, response)
	}
}
