package services

import (
	"errors"
	"time"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/evrental/evrental-backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxBookingDuration caps how far out a scheduled return may lie past the
// scheduled pickup.
const MaxBookingDuration = 30 * 24 * time.Hour

// BookingService creates, confirms and cancels reservations. Every operation
// that inspects vehicle availability and then mutates booking or vehicle
// state runs in one transaction holding the vehicle row lock.
type BookingService struct {
	db  *gorm.DB
	hub *Hub
}

func NewBookingService(db *gorm.DB, hub *Hub) *BookingService {
	return &BookingService{db: db, hub: hub}
}

// CreateBookingInput carries a renter's reservation request.
type CreateBookingInput struct {
	VehicleID           uint
	StationID           uint
	ScheduledPickupTime time.Time
	ScheduledReturnTime *time.Time
	Notes               string
}

// activeBookingStatuses are the booking states that occupy a time window.
var activeBookingStatuses = []models.BookingStatus{
	models.BookingStatusPending,
	models.BookingStatusConfirmed,
}

// Create reserves a vehicle for the requested window. The availability
// check, the overlap check and the vehicle status flip commit atomically;
// of two racing requests for the same vehicle exactly one wins and the other
// observes ErrVehicleUnavailable or ErrIntervalConflict.
func (s *BookingService) Create(userID uint, in CreateBookingInput) (*models.Booking, error) {
	now := time.Now().UTC()
	if !in.ScheduledPickupTime.After(now) {
		return nil, validationErrorf("scheduled pickup time must be in the future")
	}
	if in.ScheduledReturnTime != nil {
		if !in.ScheduledReturnTime.After(in.ScheduledPickupTime) {
			return nil, validationErrorf("scheduled return time must be after the pickup time")
		}
		if in.ScheduledReturnTime.Sub(in.ScheduledPickupTime) > MaxBookingDuration {
			return nil, validationErrorf("maximum booking duration is 30 days")
		}
	}

	requestStart := in.ScheduledPickupTime
	requestEnd := in.ScheduledPickupTime.Add(models.DefaultBookingWindow)
	if in.ScheduledReturnTime != nil {
		requestEnd = *in.ScheduledReturnTime
	}

	var booking models.Booking
	var vehicle *models.Vehicle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		vehicle, err = lockVehicle(tx, in.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.Status != models.VehicleStatusAvailable {
			return ErrVehicleUnavailable
		}

		// Half-open overlap test against every booking still occupying a
		// window on this vehicle; a missing return time occupies one day.
		var overlapping int64
		err = tx.Model(&models.Booking{}).
			Where("vehicle_id = ? AND status IN ?", in.VehicleID, activeBookingStatuses).
			Where("scheduled_pickup_time < ? AND COALESCE(scheduled_return_time, scheduled_pickup_time + INTERVAL '1 day') > ?",
				requestEnd, requestStart).
			Count(&overlapping).Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrIntervalConflict
		}

		booking = models.Booking{
			Code:                utils.GenerateBookingCode(),
			UserID:              userID,
			VehicleID:           in.VehicleID,
			StationID:           in.StationID,
			BookingDate:         now,
			ScheduledPickupTime: in.ScheduledPickupTime,
			ScheduledReturnTime: in.ScheduledReturnTime,
			Status:              models.BookingStatusPending,
			Notes:               in.Notes,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if err := transitionVehicle(vehicle, models.VehicleStatusBooked); err != nil {
			return err
		}
		return tx.Save(vehicle).Error
	})
	if err != nil {
		return nil, err
	}

	publishVehicleStatus(s.hub, vehicle)
	return &booking, nil
}

// Cancel cancels a pending booking. Only the owning user may cancel and only
// while the booking is pending; any other case returns false without detail
// so the existence of other users' bookings is not leaked. The vehicle
// reverts to available only when no other pending/confirmed booking and no
// active rental remains for it.
func (s *BookingService) Cancel(bookingID, userID uint) (bool, error) {
	cancelled := false
	var vehicle *models.Vehicle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		v, err := lockVehicle(tx, booking.VehicleID)
		if err != nil {
			return err
		}

		// Re-read under the vehicle lock: the booking may have been
		// confirmed or cancelled while we waited for it.
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error
		if err != nil {
			return err
		}
		if booking.UserID != userID || booking.Status != models.BookingStatusPending ||
			!booking.Status.CanTransitionTo(models.BookingStatusCancelled) {
			return nil
		}

		booking.Status = models.BookingStatusCancelled
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		// Re-query rather than assume: another booking or a running rental
		// keeps the vehicle out of the available pool.
		var otherBookings int64
		err = tx.Model(&models.Booking{}).
			Where("vehicle_id = ? AND id <> ? AND status IN ?",
				booking.VehicleID, booking.ID, activeBookingStatuses).
			Count(&otherBookings).Error
		if err != nil {
			return err
		}

		var activeRentals int64
		err = tx.Model(&models.Rental{}).
			Where("vehicle_id = ? AND status = ?", booking.VehicleID, models.RentalStatusActive).
			Count(&activeRentals).Error
		if err != nil {
			return err
		}

		if otherBookings == 0 && activeRentals == 0 && v.Status == models.VehicleStatusBooked {
			if err := transitionVehicle(v, models.VehicleStatusAvailable); err != nil {
				return err
			}
			if err := tx.Save(v).Error; err != nil {
				return err
			}
			vehicle = v
		}

		cancelled = true
		return nil
	})
	if err != nil {
		return false, err
	}

	publishVehicleStatus(s.hub, vehicle)
	return cancelled, nil
}

// Confirm moves a pending booking to confirmed. Staff-only; the vehicle is
// already booked so there is no vehicle side effect. Wrong-state bookings
// return false without detail. The booking row is locked for the
// check-and-set so a racing cancellation cannot be overwritten.
func (s *BookingService) Confirm(bookingID, staffID uint) (bool, error) {
	confirmed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if !booking.Status.CanTransitionTo(models.BookingStatusConfirmed) {
			return nil
		}

		booking.Status = models.BookingStatusConfirmed
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		confirmed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// GetByID returns a booking with its vehicle and station preloaded.
func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("Vehicle").Preload("Vehicle.Station").Preload("User").
		First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// GetUserBookings returns a user's bookings, newest first.
func (s *BookingService) GetUserBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("Vehicle").Preload("Vehicle.Station").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetStationBookings returns a station's bookings, newest first.
func (s *BookingService) GetStationBookings(stationID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("Vehicle").Preload("User").
		Where("station_id = ?", stationID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
