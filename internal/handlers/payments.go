package handlers

import (
	"strconv"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CreatePayment records a payment against a rental (staff)
func CreatePayment(payments *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffId := c.GetUint("userId")
		var input struct {
			RentalID      *uint   `json:"rentalId,omitempty"`
			UserID        *uint   `json:"userId,omitempty"`
			Amount        float64 `json:"amount" binding:"required"`
			Type          string  `json:"type" binding:"required"`
			PaymentMethod string  `json:"paymentMethod" binding:"required"`
			TransactionID string  `json:"transactionId,omitempty"`
			Notes         string  `json:"notes,omitempty"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		paymentType, ok := models.ParsePaymentType(input.Type)
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid payment type"})
			return
		}

		payment, err := payments.Create(staffId, services.CreatePaymentInput{
			RentalID:      input.RentalID,
			UserID:        input.UserID,
			Amount:        input.Amount,
			Type:          paymentType,
			PaymentMethod: input.PaymentMethod,
			TransactionID: input.TransactionID,
			Notes:         input.Notes,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(201, payment)
	}
}

// GetMyPayments returns the authenticated user's payment history
func GetMyPayments(payments *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		result, err := payments.GetUserPayments(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch payments"})
			return
		}

		c.JSON(200, result)
	}
}

// GetRentalPayments returns the payments recorded against a rental (staff)
func GetRentalPayments(payments *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid rental ID"})
			return
		}

		result, err := payments.GetRentalPayments(uint(id))
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch payments"})
			return
		}

		c.JSON(200, result)
	}
}
