package utils

import (
	"math"
	"time"
)

// RentalCharge contains the computed rental amount and its breakdown
type RentalCharge struct {
	TotalAmount    float64 `json:"totalAmount"`
	BaseAmount     float64 `json:"baseAmount"`
	AdditionalFees float64 `json:"additionalFees"`
	BillableUnits  int     `json:"billableUnits"`
	Unit           string  `json:"unit"` // "hour" or "day"
	UnitPrice      float64 `json:"unitPrice"`
}

const hoursPerDay = 24.0

// CalculateRentalCharge computes the amount billed for a rental between
// pickup and return. Rentals under 24 hours bill per started hour at the
// hourly rate; from 24 hours on they bill per started day at the daily rate,
// so a rental of exactly 24 hours is one day. Partial units always round up.
// Additional fees, when present, are added on top of the base amount.
func CalculateRentalCharge(pickupTime, returnTime time.Time, pricePerHour, pricePerDay float64, additionalFees *float64) RentalCharge {
	hours := returnTime.Sub(pickupTime).Hours()
	if hours < 0 {
		hours = 0
	}

	charge := RentalCharge{}
	if hours < hoursPerDay {
		charge.Unit = "hour"
		charge.UnitPrice = pricePerHour
		charge.BillableUnits = int(math.Ceil(hours))
	} else {
		charge.Unit = "day"
		charge.UnitPrice = pricePerDay
		charge.BillableUnits = int(math.Ceil(hours / hoursPerDay))
	}

	charge.BaseAmount = float64(charge.BillableUnits) * charge.UnitPrice
	if additionalFees != nil {
		charge.AdditionalFees = *additionalFees
	}
	charge.TotalAmount = charge.BaseAmount + charge.AdditionalFees

	return charge
}
