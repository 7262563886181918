package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// DefaultBookingWindow is how long a booking with no scheduled return time
// is assumed to occupy the vehicle.
const DefaultBookingWindow = 24 * time.Hour

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the booking still occupies its time window for
// overlap purposes.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	gorm.Model
	Code                string        `json:"code" gorm:"unique;not null"`
	UserID              uint          `json:"userId" gorm:"not null;index"`
	User                *User         `json:"user,omitempty"`
	VehicleID           uint          `json:"vehicleId" gorm:"not null;index"`
	Vehicle             *Vehicle      `json:"vehicle,omitempty"`
	StationID           uint          `json:"stationId" gorm:"not null;index"`
	Station             *Station      `json:"station,omitempty"`
	BookingDate         time.Time     `json:"bookingDate" gorm:"not null"`
	ScheduledPickupTime time.Time     `json:"scheduledPickupTime" gorm:"not null;index"`
	ScheduledReturnTime *time.Time    `json:"scheduledReturnTime,omitempty"`
	Status              BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	Notes               string        `json:"notes,omitempty"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// Window returns the half-open [start, end) interval the booking occupies,
// substituting the default window when no return time was scheduled.
func (b *Booking) Window() (time.Time, time.Time) {
	if b.ScheduledReturnTime != nil {
		return b.ScheduledPickupTime, *b.ScheduledReturnTime
	}
	return b.ScheduledPickupTime, b.ScheduledPickupTime.Add(DefaultBookingWindow)
}

// WindowsOverlap is the half-open interval overlap test used for booking
// conflicts: [aStart, aEnd) and [bStart, bEnd) overlap iff each starts
// before the other ends.
func WindowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
