package handlers

import (
	"strconv"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// GetAvailableVehicles lists vehicles currently free to book
func GetAvailableVehicles(registry *services.VehicleRegistry) gin.HandlerFunc {
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

		vehicles, err := registry.GetAvailable(stationId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}

// GetVehicle returns a single vehicle
func GetVehicle(registry *services.VehicleRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
			return
		}

		vehicle, err := registry.GetByID(uint(id))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, vehicle)
	}
}

// GetVehicleStatus returns a vehicle's current status (cache-backed)
func GetVehicleStatus(registry *services.VehicleRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
			return
		}

		status, err := registry.GetStatus(c.Request.Context(), uint(id))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, gin.H{"vehicleId": uint(id), "status": status})
	}
}

// UpdateVehicleStatus applies a staff-driven status change, e.g. sending a
// vehicle to maintenance. The status string is decoded against the closed
// enum here and nowhere else.
func UpdateVehicleStatus(registry *services.VehicleRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffId := c.GetUint("userId")
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		status, ok := models.ParseVehicleStatus(input.Status)
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid vehicle status"})
			return
		}

		if err := registry.SetStatus(uint(id), status, staffId); err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle status updated", "status": status})
	}
}

// UpdateVehicleBattery records a staff battery reading
func UpdateVehicleBattery(registry *services.VehicleRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffId := c.GetUint("userId")
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
			return
		}

		var input struct {
			BatteryLevel int `json:"batteryLevel" binding:"min=0,max=100"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := registry.UpdateBattery(uint(id), input.BatteryLevel, staffId); err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Battery level updated"})
	}
}
