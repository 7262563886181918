package services

import (
	"errors"
	"time"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/evrental/evrental-backend/pkg/utils"
	"gorm.io/gorm"
)

// PaymentService records payments against rentals. It consumes the amounts
// the rental core computes; it never feeds back into the lifecycle state
// machine.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

type CreatePaymentInput struct {
	RentalID      *uint
	UserID        *uint
	Amount        float64
	Type          models.PaymentType
	PaymentMethod string
	TransactionID string
	Notes         string
}

// Create records a payment. When no user is given the payer is derived from
// the rental.
func (s *PaymentService) Create(staffID uint, in CreatePaymentInput) (*models.Payment, error) {
	if in.Amount <= 0 {
		return nil, validationErrorf("payment amount must be positive")
	}

	userID := uint(0)
	if in.UserID != nil {
		userID = *in.UserID
	}
	if userID == 0 {
		if in.RentalID == nil {
			return nil, validationErrorf("payment requires a user or a rental")
		}
		var rental models.Rental
		if err := s.db.First(&rental, *in.RentalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		userID = rental.UserID
	}

	payment := models.Payment{
		Code:          utils.GeneratePaymentCode(),
		UserID:        userID,
		RentalID:      in.RentalID,
		Amount:        in.Amount,
		Type:          in.Type,
		Status:        models.PaymentStatusCompleted,
		PaymentMethod: in.PaymentMethod,
		TransactionID: in.TransactionID,
		Notes:         in.Notes,
		PaymentDate:   time.Now().UTC(),
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetUserPayments returns a user's payments, newest first.
func (s *PaymentService) GetUserPayments(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("user_id = ?", userID).
		Order("payment_date DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// GetRentalPayments returns the payments recorded against one rental.
func (s *PaymentService) GetRentalPayments(rentalID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("rental_id = ?", rentalID).
		Order("payment_date DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
