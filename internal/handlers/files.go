package handlers

import (
	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20 // 10 MB

// UploadInspectionImage stores a condition photo and returns its URL. The
// URL is attached to an inspection record by the check-out/check-in calls.
func UploadInspectionImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "No image file provided"})
			return
		}

		if file.Size > maxUploadSize {
			c.JSON(400, gin.H{"error": "Image exceeds the 10MB limit"})
			return
		}

		url, err := services.UploadImage(file, "inspections")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload image"})
			return
		}

		c.JSON(201, gin.H{"url": url})
	}
}
