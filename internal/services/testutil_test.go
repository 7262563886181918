package services

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/evrental/evrental-backend/internal/database"
	"github.com/evrental/evrental-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The service tests run against a real Postgres database because the
// invariants under test (row locking, overlap queries, check constraints)
// live in SQL. Set TEST_DATABASE_URL to run them, e.g.
//
//	TEST_DATABASE_URL="host=localhost user=postgres password=postgres dbname=evrental_test port=5432 sslmode=disable"
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	err = db.Exec("TRUNCATE TABLE payments, vehicle_inspections, rentals, bookings, vehicles, stations, users RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)

	return db
}

var seedSeq atomic.Uint64

func seedStation(t *testing.T, db *gorm.DB) *models.Station {
	t.Helper()
	station := models.Station{
		Name:     fmt.Sprintf("Station %d", seedSeq.Add(1)),
		Address:  "12 Test Street",
		IsActive: true,
	}
	require.NoError(t, db.Create(&station).Error)
	return &station
}

func seedVehicle(t *testing.T, db *gorm.DB, stationID uint, status models.VehicleStatus) *models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{
		LicensePlate: fmt.Sprintf("EV-%04d", seedSeq.Add(1)),
		Brand:        "VinFast",
		VehicleModel: "Evo200",
		BatteryLevel: 100,
		PricePerHour: 50000,
		PricePerDay:  300000,
		Status:       status,
		StationID:    stationID,
	}
	require.NoError(t, db.Create(&vehicle).Error)
	return &vehicle
}

func seedUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	n := seedSeq.Add(1)
	user := models.User{
		FullName:     fmt.Sprintf("Test User %d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func reloadVehicle(t *testing.T, db *gorm.DB, id uint) *models.Vehicle {
	t.Helper()
	var vehicle models.Vehicle
	require.NoError(t, db.First(&vehicle, id).Error)
	return &vehicle
}
