package models

import (
	"gorm.io/gorm"
)

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusBooked      VehicleStatus = "booked"
	VehicleStatusInUse       VehicleStatus = "in_use"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusDamaged     VehicleStatus = "damaged"
)

// vehicleTransitions is the closed set of legal status moves. Booking and
// rental flows only ever walk available -> booked -> in_use -> available or
// damaged; maintenance and damaged are entered or left by explicit staff
// action through the registry.
var vehicleTransitions = map[VehicleStatus][]VehicleStatus{
	VehicleStatusAvailable:   {VehicleStatusBooked, VehicleStatusInUse, VehicleStatusMaintenance, VehicleStatusDamaged},
	VehicleStatusBooked:      {VehicleStatusInUse, VehicleStatusAvailable, VehicleStatusMaintenance},
	VehicleStatusInUse:       {VehicleStatusAvailable, VehicleStatusDamaged},
	VehicleStatusMaintenance: {VehicleStatusAvailable},
	VehicleStatusDamaged:     {VehicleStatusMaintenance, VehicleStatusAvailable},
}

// ParseVehicleStatus decodes a request string into the closed status enum.
// Unknown values are rejected here, at the API boundary, and never re-parsed
// inside the core.
func ParseVehicleStatus(s string) (VehicleStatus, bool) {
	status := VehicleStatus(s)
	if status.IsValid() {
		return status, true
	}
	return "", false
}

func (s VehicleStatus) IsValid() bool {
	_, ok := vehicleTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s VehicleStatus) CanTransitionTo(next VehicleStatus) bool {
	for _, allowed := range vehicleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Vehicle struct {
	gorm.Model
	LicensePlate string        `json:"licensePlate" gorm:"unique;not null"`
	Brand        string        `json:"brand" gorm:"not null"`
	VehicleModel string        `json:"model" gorm:"column:vehicle_model;not null"`
	Year         int           `json:"year"`
	Color        string        `json:"color"`
	BatteryLevel int           `json:"batteryLevel" gorm:"not null;default:100"` // percentage 0-100
	PricePerHour float64       `json:"pricePerHour" gorm:"not null"`
	PricePerDay  float64       `json:"pricePerDay" gorm:"not null"`
	Status       VehicleStatus `json:"status" gorm:"not null;default:'available'"`
	ImageUrl     string        `json:"imageUrl"`
	Description  string        `json:"description"`
	StationID    uint          `json:"stationId" gorm:"not null;index"`
	Station      *Station      `json:"station,omitempty"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}
