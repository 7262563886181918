package models

import (
	"gorm.io/gorm"
)

type Station struct {
	gorm.Model
	Name        string  `json:"name" gorm:"not null"`
	Address     string  `json:"address" gorm:"not null"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	PhoneNumber string  `json:"phoneNumber"`
	Description string  `json:"description,omitempty"`
	IsActive    bool    `json:"isActive" gorm:"not null;default:true"`
}

// TableName specifies the table name
func (Station) TableName() string {
	return "stations"
}
