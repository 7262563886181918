package database

import (
	"github.com/evrental/evrental-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Station{},
		&models.Vehicle{},
		&models.Booking{},
		&models.Rental{},
		&models.Inspection{},
		&models.Payment{},
	)
	if err != nil {
		return err
	}

	// Enum-valued columns are constrained in the database as well, so a bad
	// write cannot slip past the application-level transition tables.
	constraints := []struct {
		table, name, check string
	}{
		{"users", "users_role_check", "role IN ('renter', 'staff', 'admin')"},
		{"vehicles", "vehicles_status_check", "status IN ('available', 'booked', 'in_use', 'maintenance', 'damaged')"},
		{"vehicles", "vehicles_battery_check", "battery_level BETWEEN 0 AND 100"},
		{"bookings", "bookings_status_check", "status IN ('pending', 'confirmed', 'completed', 'cancelled')"},
		{"rentals", "rentals_status_check", "status IN ('active', 'completed', 'cancelled')"},
	}

	for _, c := range constraints {
		db.Exec("ALTER TABLE " + c.table + " DROP CONSTRAINT IF EXISTS " + c.name)
		if err := db.Exec("ALTER TABLE " + c.table + " ADD CONSTRAINT " + c.name + " CHECK (" + c.check + ")").Error; err != nil {
			return err
		}
	}

	return nil
}
