package models

import (
	"time"

	"gorm.io/gorm"
)

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

// A rental is only ever created Active and closed once. There is no path
// back to Active.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusActive:    {RentalStatusCompleted, RentalStatusCancelled},
	RentalStatusCompleted: {},
	RentalStatusCancelled: {},
}

func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseRentalStatus decodes a request string into the closed status enum.
func ParseRentalStatus(s string) (RentalStatus, bool) {
	switch status := RentalStatus(s); status {
	case RentalStatusActive, RentalStatusCompleted, RentalStatusCancelled:
		return status, true
	}
	return "", false
}

type Rental struct {
	gorm.Model
	Code                 string       `json:"code" gorm:"unique;not null"`
	BookingID            *uint        `json:"bookingId,omitempty" gorm:"index"`
	Booking              *Booking     `json:"booking,omitempty"`
	UserID               uint         `json:"userId" gorm:"not null;index"`
	User                 *User        `json:"user,omitempty"`
	VehicleID            uint         `json:"vehicleId" gorm:"not null;index"`
	Vehicle              *Vehicle     `json:"vehicle,omitempty"`
	PickupTime           time.Time    `json:"pickupTime" gorm:"not null"`
	ReturnTime           *time.Time   `json:"returnTime,omitempty"`
	PickupBatteryLevel   int          `json:"pickupBatteryLevel" gorm:"not null"`
	ReturnBatteryLevel   *int         `json:"returnBatteryLevel,omitempty"`
	TotalDistance        *float64     `json:"totalDistance,omitempty"`
	TotalAmount          *float64     `json:"totalAmount,omitempty"`
	AdditionalFees       *float64     `json:"additionalFees,omitempty"`
	AdditionalFeesReason string       `json:"additionalFeesReason,omitempty"`
	Status               RentalStatus `json:"status" gorm:"not null;default:'active';index"`
	PickupStaffID        *uint        `json:"pickupStaffId,omitempty"`
	ReturnStaffID        *uint        `json:"returnStaffId,omitempty"`
}

// TableName specifies the table name
func (Rental) TableName() string {
	return "rentals"
}
