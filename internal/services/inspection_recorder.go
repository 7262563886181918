package services

import (
	"github.com/evrental/evrental-backend/internal/models"
	"gorm.io/gorm"
)

// InspectionRecorder stores condition records for rentals. The store is
// append-only: pickup and return records are written inside the checkout and
// checkin transactions and never touched again.
type InspectionRecorder struct {
	db *gorm.DB
}

func NewInspectionRecorder(db *gorm.DB) *InspectionRecorder {
	return &InspectionRecorder{db: db}
}

// record appends an inspection inside the caller's transaction.
func (r *InspectionRecorder) record(tx *gorm.DB, inspection *models.Inspection) error {
	return tx.Create(inspection).Error
}

// GetRentalInspections returns a rental's inspections in capture order. In
// the normal path there are two: the pickup record and the return record.
func (r *InspectionRecorder) GetRentalInspections(rentalID uint) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := r.db.Where("rental_id = ?", rentalID).
		Order("inspection_date").
		Find(&inspections).Error
	if err != nil {
		return nil, err
	}
	return inspections, nil
}

// GetByID returns a single inspection with its rental and vehicle.
func (r *InspectionRecorder) GetByID(inspectionID uint) (*models.Inspection, error) {
	var inspection models.Inspection
	err := r.db.Preload("Rental").Preload("Vehicle").
		First(&inspection, inspectionID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inspection, nil
}
