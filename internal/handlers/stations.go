package handlers

import (
	"strconv"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetStations lists active stations
func GetStations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stations []models.Station
		if err := db.Where("is_active = ?", true).Order("name").Find(&stations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stations"})
			return
		}

		c.JSON(200, stations)
	}
}

// GetStation returns a single station
func GetStation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid station ID"})
			return
		}

		var station models.Station
		if err := db.First(&station, uint(id)).Error; err != nil {
			c.JSON(404, gin.H{"error": "Station not found"})
			return
		}

		c.JSON(200, station)
	}
}

// GetStationVehicles lists a station's vehicles with an optional status
// filter, decoded once against the closed enum
func GetStationVehicles(registry *services.VehicleRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("stationId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid station ID"})
			return
		}

		var status *models.VehicleStatus
		if raw := c.Query("status"); raw != "" {
			parsed, ok := models.ParseVehicleStatus(raw)
			if !ok {
				c.JSON(400, gin.H{"error": "Invalid vehicle status"})
				return
			}
			status = &parsed
		}

		vehicles, err := registry.GetByStationAndStatus(uint(id), status)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}
