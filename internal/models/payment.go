package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentType string

const (
	PaymentTypeDeposit       PaymentType = "deposit"
	PaymentTypeRentalFee     PaymentType = "rental_fee"
	PaymentTypeAdditionalFee PaymentType = "additional_fee"
	PaymentTypeRefund        PaymentType = "refund"
)

// ParsePaymentType decodes a request string into the closed payment type enum.
func ParsePaymentType(s string) (PaymentType, bool) {
	switch t := PaymentType(s); t {
	case PaymentTypeDeposit, PaymentTypeRentalFee, PaymentTypeAdditionalFee, PaymentTypeRefund:
		return t, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	gorm.Model
	Code          string        `json:"code" gorm:"unique;not null"`
	UserID        uint          `json:"userId" gorm:"not null;index"`
	User          *User         `json:"user,omitempty"`
	RentalID      *uint         `json:"rentalId,omitempty" gorm:"index"`
	Rental        *Rental       `json:"rental,omitempty"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Type          PaymentType   `json:"type" gorm:"not null"`
	Status        PaymentStatus `json:"status" gorm:"not null;default:'completed'"`
	PaymentMethod string        `json:"paymentMethod,omitempty"` // cash, card, transfer
	TransactionID string        `json:"transactionId,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	PaymentDate   time.Time     `json:"paymentDate" gorm:"not null"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}
