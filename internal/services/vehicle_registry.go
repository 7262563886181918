package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/evrental/evrental-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VehicleRegistry is the single source of truth for a vehicle's current
// status. The booking and rental services move vehicles through the booking
// lifecycle; staff move them in and out of maintenance through SetStatus.
// Every status write is validated against the transition table and performed
// under a row lock.
type VehicleRegistry struct {
	db  *gorm.DB
	hub *Hub
}

func NewVehicleRegistry(db *gorm.DB, hub *Hub) *VehicleRegistry {
	return &VehicleRegistry{db: db, hub: hub}
}

// transitionVehicle validates and applies a status change on the in-memory
// vehicle. Callers persist the vehicle inside their own transaction.
func transitionVehicle(v *models.Vehicle, next models.VehicleStatus) error {
	if !next.IsValid() {
		return validationErrorf("unknown vehicle status %q", next)
	}
	if !v.Status.CanTransitionTo(next) {
		return fmt.Errorf("vehicle %d: illegal status transition %s -> %s: %w",
			v.ID, v.Status, next, ErrVehicleUnavailable)
	}
	v.Status = next
	return nil
}

// lockVehicle loads the vehicle row with SELECT ... FOR UPDATE so that every
// check-and-set over vehicle availability serializes per vehicle.
func lockVehicle(tx *gorm.DB, vehicleID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&vehicle, vehicleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetByID returns the vehicle with its station preloaded.
func (r *VehicleRegistry) GetByID(vehicleID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.Preload("Station").First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetStatus returns the vehicle's current status, served from the Redis
// cache when possible.
func (r *VehicleRegistry) GetStatus(ctx context.Context, vehicleID uint) (models.VehicleStatus, error) {
	if status, err := GetCachedVehicleStatus(ctx, vehicleID); err == nil {
		return status, nil
	}

	vehicle, err := r.GetByID(vehicleID)
	if err != nil {
		return "", err
	}
	CacheVehicleStatus(ctx, vehicleID, vehicle.Status)
	return vehicle.Status, nil
}

// SetStatus applies a staff-driven status change, e.g. sending a vehicle to
// maintenance or releasing it back to the fleet. The status value has already
// been decoded against the closed enum at the API boundary.
func (r *VehicleRegistry) SetStatus(vehicleID uint, next models.VehicleStatus, staffID uint) error {
	var vehicle *models.Vehicle
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		vehicle, err = lockVehicle(tx, vehicleID)
		if err != nil {
			return err
		}
		if err := transitionVehicle(vehicle, next); err != nil {
			return err
		}
		return tx.Save(vehicle).Error
	})
	if err != nil {
		return err
	}

	publishVehicleStatus(r.hub, vehicle)
	return nil
}

// UpdateBattery records a staff battery reading outside the rental flow.
func (r *VehicleRegistry) UpdateBattery(vehicleID uint, batteryLevel int, staffID uint) error {
	if batteryLevel < 0 || batteryLevel > 100 {
		return validationErrorf("battery level must be between 0 and 100")
	}
	result := r.db.Model(&models.Vehicle{}).Where("id = ?", vehicleID).
		Update("battery_level", batteryLevel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// GetByStationAndStatus lists a station's vehicles, optionally filtered by
// status.
func (r *VehicleRegistry) GetByStationAndStatus(stationID uint, status *models.VehicleStatus) ([]models.Vehicle, error) {
	query := r.db.Preload("Station").Where("station_id = ?", stationID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var vehicles []models.Vehicle
	if err := query.Order("license_plate").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// GetAvailable lists vehicles currently free to book, optionally per station.
func (r *VehicleRegistry) GetAvailable(stationID *uint) ([]models.Vehicle, error) {
	query := r.db.Preload("Station").Where("status = ?", models.VehicleStatusAvailable)
	if stationID != nil {
		query = query.Where("station_id = ?", *stationID)
	}

	var vehicles []models.Vehicle
	if err := query.Order("license_plate").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// publishVehicleStatus refreshes the status cache and notifies connected
// staff after a committed transition. Best effort: cache and hub failures
// never fail the transition itself.
func publishVehicleStatus(hub *Hub, vehicle *models.Vehicle) {
	if vehicle == nil {
		return
	}
	CacheVehicleStatus(context.Background(), vehicle.ID, vehicle.Status)
	if hub != nil {
		hub.SendVehicleStatusChanged(VehicleStatusEvent{
			VehicleID:    vehicle.ID,
			LicensePlate: vehicle.LicensePlate,
			Status:       string(vehicle.Status),
			StationID:    vehicle.StationID,
			BatteryLevel: vehicle.BatteryLevel,
		})
	}
}
