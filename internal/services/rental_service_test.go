package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRentalFixture(t *testing.T) (*RentalService, *BookingService, *testFixture) {
	db := setupTestDB(t)
	f := &testFixture{
		db:      db,
		station: seedStation(t, db),
		renter:  seedUser(t, db, models.UserRoleRenter),
		staff:   seedUser(t, db, models.UserRoleStaff),
	}
	f.vehicle = seedVehicle(t, db, f.station.ID, models.VehicleStatusAvailable)

	inspections := NewInspectionRecorder(db)
	return NewRentalService(db, inspections, nil), NewBookingService(db, nil), f
}

type testFixture struct {
	db      *gorm.DB
	station *models.Station
	vehicle *models.Vehicle
	renter  *models.User
	staff   *models.User
}

// confirmedBooking walks a fresh booking to confirmed.
func (f *testFixture) confirmedBooking(t *testing.T, bookings *BookingService) *models.Booking {
	t.Helper()
	booking, err := bookings.Create(f.renter.ID, CreateBookingInput{
		VehicleID:           f.vehicle.ID,
		StationID:           f.station.ID,
		ScheduledPickupTime: time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)
	confirmed, err := bookings.Confirm(booking.ID, f.staff.ID)
	require.NoError(t, err)
	require.True(t, confirmed)
	return booking
}

// backdatePickup shifts an active rental's pickup time into the past so the
// charge computed at check-in covers a known duration.
func backdatePickup(t *testing.T, db *gorm.DB, rentalID uint, ago time.Duration) {
	t.Helper()
	err := db.Model(&models.Rental{}).Where("id = ?", rentalID).
		Update("pickup_time", time.Now().UTC().Add(-ago)).Error
	require.NoError(t, err)
}

func TestCheckOutFromBooking(t *testing.T) {
	rentals, bookings, f := newRentalFixture(t)
	booking := f.confirmedBooking(t, bookings)

	rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		BookingID:          &booking.ID,
		PickupBatteryLevel: 95,
		Notes:              "clean, no scratches",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RentalStatusActive, rental.Status)
	assert.True(t, strings.HasPrefix(rental.Code, "RN"))
	assert.Equal(t, f.renter.ID, rental.UserID)
	require.NotNil(t, rental.PickupStaffID)
	assert.Equal(t, f.staff.ID, *rental.PickupStaffID)

	vehicle := reloadVehicle(t, f.db, f.vehicle.ID)
	assert.Equal(t, models.VehicleStatusInUse, vehicle.Status)
	assert.Equal(t, 95, vehicle.BatteryLevel)

	reloaded, err := bookings.GetByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, reloaded.Status)

	recs, err := rentals.inspections.GetRentalInspections(rental.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].IsPickup)
}

func TestCheckOutRequiresConfirmedBooking(t *testing.T) {
	rentals, bookings, f := newRentalFixture(t)

	booking, err := bookings.Create(f.renter.ID, CreateBookingInput{
		VehicleID:           f.vehicle.ID,
		StationID:           f.station.ID,
		ScheduledPickupTime: time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		BookingID:          &booking.ID,
		PickupBatteryLevel: 95,
	})
	assert.ErrorIs(t, err, ErrBookingNotConfirmed)

	// nothing happened
	assert.Equal(t, models.VehicleStatusBooked, reloadVehicle(t, f.db, f.vehicle.ID).Status)
	var count int64
	require.NoError(t, f.db.Model(&models.Rental{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckOutWalkIn(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	t.Run("walk-in without a user is rejected", func(t *testing.T) {
		_, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
			VehicleID:          f.vehicle.ID,
			PickupBatteryLevel: 90,
		})
		assert.ErrorIs(t, err, ErrUserRequired)
	})

	t.Run("walk-in with a user starts a rental", func(t *testing.T) {
		rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
			VehicleID:          f.vehicle.ID,
			UserID:             &f.renter.ID,
			PickupBatteryLevel: 90,
		})
		require.NoError(t, err)
		assert.Nil(t, rental.BookingID)
		assert.Equal(t, f.renter.ID, rental.UserID)
		assert.Equal(t, models.VehicleStatusInUse, reloadVehicle(t, f.db, f.vehicle.ID).Status)

		// a walk-in creates no booking row
		var count int64
		require.NoError(t, f.db.Model(&models.Booking{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestCheckOutAtMostOneActiveRental(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	_, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		UserID:             &f.renter.ID,
		PickupBatteryLevel: 90,
	})
	require.NoError(t, err)

	other := seedUser(t, f.db, models.UserRoleRenter)
	_, err = rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		UserID:             &other.ID,
		PickupBatteryLevel: 90,
	})
	assert.ErrorIs(t, err, ErrVehicleUnavailable)
}

func TestCheckOutRejectsUnfitVehicle(t *testing.T) {
	db := setupTestDB(t)
	station := seedStation(t, db)
	renter := seedUser(t, db, models.UserRoleRenter)
	staff := seedUser(t, db, models.UserRoleStaff)
	rentals := NewRentalService(db, NewInspectionRecorder(db), nil)

	for _, status := range []models.VehicleStatus{
		models.VehicleStatusMaintenance,
		models.VehicleStatusDamaged,
	} {
		vehicle := seedVehicle(t, db, station.ID, status)
		_, err := rentals.CheckOut(staff.ID, CheckOutInput{
			VehicleID:          vehicle.ID,
			UserID:             &renter.ID,
			PickupBatteryLevel: 90,
		})
		assert.ErrorIs(t, err, ErrVehicleUnavailable, string(status))
	}
}

func TestCheckOutBatteryValidation(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	for _, level := range []int{-1, 101} {
		_, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
			VehicleID:          f.vehicle.ID,
			UserID:             &f.renter.ID,
			PickupBatteryLevel: level,
		})
		assert.True(t, IsValidationError(err))
	}
}

func TestCheckInHourlyCharge(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		UserID:             &f.renter.ID,
		PickupBatteryLevel: 95,
	})
	require.NoError(t, err)

	// 2.5 hours elapsed rounds up to 3 billable hours
	backdatePickup(t, f.db, rental.ID, 150*time.Minute)

	closed, err := rentals.CheckIn(f.staff.ID, CheckInInput{
		RentalID:           rental.ID,
		ReturnBatteryLevel: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RentalStatusCompleted, closed.Status)
	require.NotNil(t, closed.TotalAmount)
	assert.Equal(t, 3*50000.0, *closed.TotalAmount)
	require.NotNil(t, closed.ReturnTime)
	require.NotNil(t, closed.ReturnStaffID)
	assert.Equal(t, f.staff.ID, *closed.ReturnStaffID)

	vehicle := reloadVehicle(t, f.db, f.vehicle.ID)
	assert.Equal(t, models.VehicleStatusAvailable, vehicle.Status)
	assert.Equal(t, 60, vehicle.BatteryLevel)

	recs, err := rentals.inspections.GetRentalInspections(rental.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].IsPickup)
	assert.False(t, recs[1].IsPickup)
}

func TestCheckInDailyCharge(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		UserID:             &f.renter.ID,
		PickupBatteryLevel: 95,
	})
	require.NoError(t, err)

	// 30 hours elapsed bills as 2 days
	backdatePickup(t, f.db, rental.ID, 30*time.Hour)

	closed, err := rentals.CheckIn(f.staff.ID, CheckInInput{
		RentalID:           rental.ID,
		ReturnBatteryLevel: 20,
	})
	require.NoError(t, err)
	require.NotNil(t, closed.TotalAmount)
	assert.Equal(t, 2*300000.0, *closed.TotalAmount)
}

func TestCheckInAdditionalFees(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		UserID:             &f.renter.ID,
		PickupBatteryLevel: 95,
	})
	require.NoError(t, err)
	backdatePickup(t, f.db, rental.ID, 90*time.Minute)

	fees := 40000.0
	closed, err := rentals.CheckIn(f.staff.ID, CheckInInput{
		RentalID:             rental.ID,
		ReturnBatteryLevel:   70,
		AdditionalFees:       &fees,
		AdditionalFeesReason: "charging cable missing",
	})
	require.NoError(t, err)
	require.NotNil(t, closed.TotalAmount)
	assert.Equal(t, 2*50000.0+fees, *closed.TotalAmount)
	assert.Equal(t, "charging cable missing", closed.AdditionalFeesReason)
}

func TestCheckInDamageReport(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		UserID:             &f.renter.ID,
		PickupBatteryLevel: 95,
	})
	require.NoError(t, err)

	_, err = rentals.CheckIn(f.staff.ID, CheckInInput{
		RentalID:           rental.ID,
		ReturnBatteryLevel: 50,
		DamageReport:       "dented rear fender",
	})
	require.NoError(t, err)

	// a damaged vehicle does not return to the available pool
	assert.Equal(t, models.VehicleStatusDamaged, reloadVehicle(t, f.db, f.vehicle.ID).Status)
}

func TestCheckInWrongState(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	t.Run("unknown rental", func(t *testing.T) {
		_, err := rentals.CheckIn(f.staff.ID, CheckInInput{
			RentalID:           99999,
			ReturnBatteryLevel: 50,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("checking in twice fails", func(t *testing.T) {
		rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
			VehicleID:          f.vehicle.ID,
			UserID:             &f.renter.ID,
			PickupBatteryLevel: 95,
		})
		require.NoError(t, err)

		_, err = rentals.CheckIn(f.staff.ID, CheckInInput{
			RentalID:           rental.ID,
			ReturnBatteryLevel: 50,
		})
		require.NoError(t, err)

		_, err = rentals.CheckIn(f.staff.ID, CheckInInput{
			RentalID:           rental.ID,
			ReturnBatteryLevel: 50,
		})
		assert.ErrorIs(t, err, ErrRentalNotActive)
	})
}

func TestCheckOutVehicleMismatch(t *testing.T) {
	rentals, bookings, f := newRentalFixture(t)
	booking := f.confirmedBooking(t, bookings)
	other := seedVehicle(t, f.db, f.station.ID, models.VehicleStatusAvailable)

	// the booking holds one vehicle; handing out a different one must fail
	_, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          other.ID,
		BookingID:          &booking.ID,
		PickupBatteryLevel: 95,
	})
	assert.True(t, IsValidationError(err))

	reloaded, err := bookings.GetByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, reloaded.Status)
	assert.Equal(t, models.VehicleStatusAvailable, reloadVehicle(t, f.db, other.ID).Status)
	assert.Equal(t, models.VehicleStatusBooked, reloadVehicle(t, f.db, f.vehicle.ID).Status)
}

// TestConcurrentCheckIn races two check-ins of the same rental. The rental
// row lock serializes them; the loser must observe the committed Completed
// state and fail, not re-close the rental or duplicate the return record.
func TestConcurrentCheckIn(t *testing.T) {
	rentals, _, f := newRentalFixture(t)

	rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		UserID:             &f.renter.ID,
		PickupBatteryLevel: 95,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = rentals.CheckIn(f.staff.ID, CheckInInput{
				RentalID:           rental.ID,
				ReturnBatteryLevel: 50,
				DamageReport:       "scraped side panel",
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrRentalNotActive)
	}
	assert.Equal(t, 1, wins)

	// one pickup record, one return record, nothing duplicated
	recs, err := rentals.inspections.GetRentalInspections(rental.ID)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, models.VehicleStatusDamaged, reloadVehicle(t, f.db, f.vehicle.ID).Status)
}

// TestFullRentalLifecycle walks the whole flow end to end: book, confirm,
// check out, check in, and verifies the state left behind at each step.
func TestFullRentalLifecycle(t *testing.T) {
	rentals, bookings, f := newRentalFixture(t)

	booking, err := bookings.Create(f.renter.ID, CreateBookingInput{
		VehicleID:           f.vehicle.ID,
		StationID:           f.station.ID,
		ScheduledPickupTime: time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, models.VehicleStatusBooked, reloadVehicle(t, f.db, f.vehicle.ID).Status)

	confirmed, err := bookings.Confirm(booking.ID, f.staff.ID)
	require.NoError(t, err)
	require.True(t, confirmed)

	rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		BookingID:          &booking.ID,
		PickupBatteryLevel: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RentalStatusActive, rental.Status)
	assert.Equal(t, models.VehicleStatusInUse, reloadVehicle(t, f.db, f.vehicle.ID).Status)

	backdatePickup(t, f.db, rental.ID, 170*time.Minute)

	closed, err := rentals.CheckIn(f.staff.ID, CheckInInput{
		RentalID:           rental.ID,
		ReturnBatteryLevel: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RentalStatusCompleted, closed.Status)
	require.NotNil(t, closed.TotalAmount)
	assert.Equal(t, 150000.0, *closed.TotalAmount)
	assert.Equal(t, models.VehicleStatusAvailable, reloadVehicle(t, f.db, f.vehicle.ID).Status)
}
