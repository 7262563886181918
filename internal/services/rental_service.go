package services

import (
	"errors"
	"strings"
	"time"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/evrental/evrental-backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RentalService converts confirmed bookings (or walk-ins) into active
// rentals and closes them at check-in, computing the charge. Check-out and
// check-in each run as one transaction holding the vehicle row lock.
type RentalService struct {
	db          *gorm.DB
	inspections *InspectionRecorder
	hub         *Hub
}

func NewRentalService(db *gorm.DB, inspections *InspectionRecorder, hub *Hub) *RentalService {
	return &RentalService{db: db, inspections: inspections, hub: hub}
}

// CheckOutInput carries the staff check-out request. Either BookingID (the
// user comes from the booking) or UserID (walk-in) must be set.
type CheckOutInput struct {
	VehicleID          uint
	BookingID          *uint
	UserID             *uint
	PickupBatteryLevel int
	OdometerReading    *int
	Notes              string
	ImageURLs          []string
	RenterSignature    string
	StaffSignature     string
}

// CheckInInput carries the staff check-in request.
type CheckInInput struct {
	RentalID             uint
	ReturnBatteryLevel   int
	TotalDistance        *float64
	AdditionalFees       *float64
	AdditionalFeesReason string
	DamageReport         string
	OdometerReading      *int
	Notes                string
	ImageURLs            []string
	RenterSignature      string
	StaffSignature       string
}

// CheckOut hands a vehicle to a renter and starts the rental. The vehicle
// flips to in_use, a confirmed booking (if any) completes, and the pickup
// inspection is recorded, all atomically.
func (s *RentalService) CheckOut(staffID uint, in CheckOutInput) (*models.Rental, error) {
	if in.PickupBatteryLevel < 0 || in.PickupBatteryLevel > 100 {
		return nil, validationErrorf("pickup battery level must be between 0 and 100")
	}

	now := time.Now().UTC()
	var rental models.Rental
	var vehicle *models.Vehicle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		vehicle, err = lockVehicle(tx, in.VehicleID)
		if err != nil {
			return err
		}

		userID := uint(0)
		var booking *models.Booking
		if in.BookingID != nil {
			// Locked read behind the vehicle lock, so a racing cancel
			// cannot move the booking under us.
			var b models.Booking
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, *in.BookingID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if b.Status != models.BookingStatusConfirmed {
				return ErrBookingNotConfirmed
			}
			if b.VehicleID != in.VehicleID {
				return validationErrorf("booking %s is for a different vehicle", b.Code)
			}
			booking = &b
			userID = b.UserID
		} else {
			if in.UserID == nil || *in.UserID == 0 {
				return ErrUserRequired
			}
			userID = *in.UserID
		}

		// At most one active rental per vehicle, ever.
		var active int64
		err = tx.Model(&models.Rental{}).
			Where("vehicle_id = ? AND status = ?", in.VehicleID, models.RentalStatusActive).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrVehicleUnavailable
		}

		rental = models.Rental{
			Code:               utils.GenerateRentalCode(),
			BookingID:          in.BookingID,
			UserID:             userID,
			VehicleID:          in.VehicleID,
			PickupTime:         now,
			PickupBatteryLevel: in.PickupBatteryLevel,
			Status:             models.RentalStatusActive,
			PickupStaffID:      &staffID,
		}
		if err := tx.Create(&rental).Error; err != nil {
			return err
		}

		inspection := models.Inspection{
			VehicleID:       in.VehicleID,
			RentalID:        rental.ID,
			InspectorID:     staffID,
			IsPickup:        true,
			OdometerReading: in.OdometerReading,
			Notes:           in.Notes,
			RenterSignature: in.RenterSignature,
			StaffSignature:  in.StaffSignature,
			InspectionDate:  now,
		}
		if err := inspection.SetImageURLs(in.ImageURLs); err != nil {
			return err
		}
		if err := s.inspections.record(tx, &inspection); err != nil {
			return err
		}

		// A vehicle in maintenance or damaged state cannot be handed out;
		// the transition table rejects those moves here.
		if err := transitionVehicle(vehicle, models.VehicleStatusInUse); err != nil {
			return err
		}
		vehicle.BatteryLevel = in.PickupBatteryLevel
		if err := tx.Save(vehicle).Error; err != nil {
			return err
		}

		if booking != nil {
			if !booking.Status.CanTransitionTo(models.BookingStatusCompleted) {
				return ErrBookingNotConfirmed
			}
			booking.Status = models.BookingStatusCompleted
			if err := tx.Save(booking).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishVehicleStatus(s.hub, vehicle)
	if s.hub != nil {
		s.hub.SendRentalEvent("rental_started", RentalEvent{
			RentalID:   rental.ID,
			RentalCode: rental.Code,
			VehicleID:  rental.VehicleID,
			UserID:     rental.UserID,
			Status:     string(rental.Status),
		})
	}
	return &rental, nil
}

// CheckIn receives a returned vehicle, closes the rental and computes the
// charge. The vehicle goes to damaged when a damage report was filed, else
// back to available, and the return inspection is recorded, all atomically.
func (s *RentalService) CheckIn(staffID uint, in CheckInInput) (*models.Rental, error) {
	if in.ReturnBatteryLevel < 0 || in.ReturnBatteryLevel > 100 {
		return nil, validationErrorf("return battery level must be between 0 and 100")
	}

	now := time.Now().UTC()
	var rental models.Rental
	var vehicle *models.Vehicle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The rental row is locked for the whole close: of two racing
		// check-ins the loser blocks here and then observes Completed.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rental, in.RentalID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if rental.Status != models.RentalStatusActive {
			return ErrRentalNotActive
		}

		vehicle, err = lockVehicle(tx, rental.VehicleID)
		if err != nil {
			return err
		}

		charge := utils.CalculateRentalCharge(rental.PickupTime, now,
			vehicle.PricePerHour, vehicle.PricePerDay, in.AdditionalFees)

		rental.ReturnTime = &now
		rental.ReturnBatteryLevel = &in.ReturnBatteryLevel
		rental.TotalDistance = in.TotalDistance
		rental.TotalAmount = &charge.TotalAmount
		rental.AdditionalFees = in.AdditionalFees
		rental.AdditionalFeesReason = in.AdditionalFeesReason
		rental.Status = models.RentalStatusCompleted
		rental.ReturnStaffID = &staffID
		if err := tx.Save(&rental).Error; err != nil {
			return err
		}

		inspection := models.Inspection{
			VehicleID:       rental.VehicleID,
			RentalID:        rental.ID,
			InspectorID:     staffID,
			IsPickup:        false,
			OdometerReading: in.OdometerReading,
			Notes:           in.Notes,
			DamageReport:    in.DamageReport,
			RenterSignature: in.RenterSignature,
			StaffSignature:  in.StaffSignature,
			InspectionDate:  now,
		}
		if err := inspection.SetImageURLs(in.ImageURLs); err != nil {
			return err
		}
		if err := s.inspections.record(tx, &inspection); err != nil {
			return err
		}

		next := models.VehicleStatusAvailable
		if strings.TrimSpace(in.DamageReport) != "" {
			next = models.VehicleStatusDamaged
		}
		if err := transitionVehicle(vehicle, next); err != nil {
			return err
		}
		vehicle.BatteryLevel = in.ReturnBatteryLevel
		return tx.Save(vehicle).Error
	})
	if err != nil {
		return nil, err
	}

	publishVehicleStatus(s.hub, vehicle)
	if s.hub != nil {
		s.hub.SendRentalEvent("rental_completed", RentalEvent{
			RentalID:    rental.ID,
			RentalCode:  rental.Code,
			VehicleID:   rental.VehicleID,
			UserID:      rental.UserID,
			Status:      string(rental.Status),
			TotalAmount: rental.TotalAmount,
		})
	}
	return &rental, nil
}

// GetByID returns a rental with its vehicle preloaded.
func (s *RentalService) GetByID(rentalID uint) (*models.Rental, error) {
	var rental models.Rental
	err := s.db.Preload("Vehicle").Preload("Vehicle.Station").Preload("User").
		First(&rental, rentalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rental, nil
}

// GetUserRentals returns a user's rentals, newest first.
func (s *RentalService) GetUserRentals(userID uint) ([]models.Rental, error) {
	var rentals []models.Rental
	err := s.db.Preload("Vehicle").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

// GetActiveRentals returns the running rentals, optionally for one station.
func (s *RentalService) GetActiveRentals(stationID *uint) ([]models.Rental, error) {
	query := s.db.Preload("Vehicle").
		Joins("JOIN vehicles ON vehicles.id = rentals.vehicle_id").
		Where("rentals.status = ?", models.RentalStatusActive)
	if stationID != nil {
		query = query.Where("vehicles.station_id = ?", *stationID)
	}

	var rentals []models.Rental
	if err := query.Order("rentals.created_at DESC").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// GetStationRentals returns a station's rentals, optionally filtered by a
// status already decoded at the API boundary.
func (s *RentalService) GetStationRentals(stationID uint, status *models.RentalStatus) ([]models.Rental, error) {
	query := s.db.Preload("Vehicle").
		Joins("JOIN vehicles ON vehicles.id = rentals.vehicle_id").
		Where("vehicles.station_id = ?", stationID)
	if status != nil {
		query = query.Where("rentals.status = ?", *status)
	}

	var rentals []models.Rental
	if err := query.Order("rentals.created_at DESC").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}
