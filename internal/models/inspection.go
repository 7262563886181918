package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Inspection is the condition record captured when a vehicle is handed over
// or returned. Records are append-only: there is no update or delete surface,
// corrections are made by writing a new record.
type Inspection struct {
	gorm.Model
	VehicleID       uint       `json:"vehicleId" gorm:"not null;index"`
	Vehicle         *Vehicle   `json:"vehicle,omitempty"`
	RentalID        uint       `json:"rentalId" gorm:"not null;index"`
	Rental          *Rental    `json:"rental,omitempty"`
	InspectorID     uint       `json:"inspectorId" gorm:"not null"` // staff user ID
	IsPickup        bool       `json:"isPickup" gorm:"not null"`    // true = checkout, false = return
	OdometerReading *int       `json:"odometerReading,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	DamageReport    string     `json:"damageReport,omitempty"`
	ImageUrls       string     `json:"-"` // JSON array of image URLs
	RenterSignature string     `json:"renterSignature,omitempty"`
	StaffSignature  string     `json:"staffSignature,omitempty"`
	InspectionDate  time.Time  `json:"inspectionDate" gorm:"not null;index"`
}

// TableName specifies the table name
func (Inspection) TableName() string {
	return "vehicle_inspections"
}

// SetImageURLs stores the image URL list as a JSON array.
func (i *Inspection) SetImageURLs(urls []string) error {
	if len(urls) == 0 {
		i.ImageUrls = ""
		return nil
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	i.ImageUrls = string(data)
	return nil
}

// ImageURLList decodes the stored JSON array; an empty column yields an
// empty slice.
func (i *Inspection) ImageURLList() []string {
	if i.ImageUrls == "" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(i.ImageUrls), &urls); err != nil {
		return []string{}
	}
	return urls
}
