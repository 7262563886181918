package services

import (
	"strings"
	"testing"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayment(t *testing.T) {
	rentals, _, f := newRentalFixture(t)
	payments := NewPaymentService(f.db)

	rental, err := rentals.CheckOut(f.staff.ID, CheckOutInput{
		VehicleID:          f.vehicle.ID,
		UserID:             &f.renter.ID,
		PickupBatteryLevel: 95,
	})
	require.NoError(t, err)

	t.Run("payer derived from the rental", func(t *testing.T) {
		payment, err := payments.Create(f.staff.ID, CreatePaymentInput{
			RentalID:      &rental.ID,
			Amount:        150000,
			Type:          models.PaymentTypeRentalFee,
			PaymentMethod: "cash",
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(payment.Code, "PAY"))
		assert.Equal(t, f.renter.ID, payment.UserID)
		assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := payments.Create(f.staff.ID, CreatePaymentInput{
			RentalID:      &rental.ID,
			Amount:        0,
			Type:          models.PaymentTypeRentalFee,
			PaymentMethod: "cash",
		})
		assert.True(t, IsValidationError(err))
	})

	t.Run("neither user nor rental", func(t *testing.T) {
		_, err := payments.Create(f.staff.ID, CreatePaymentInput{
			Amount:        150000,
			Type:          models.PaymentTypeDeposit,
			PaymentMethod: "cash",
		})
		assert.True(t, IsValidationError(err))
	})

	t.Run("unknown rental", func(t *testing.T) {
		unknown := uint(99999)
		_, err := payments.Create(f.staff.ID, CreatePaymentInput{
			RentalID:      &unknown,
			Amount:        150000,
			Type:          models.PaymentTypeRentalFee,
			PaymentMethod: "cash",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rental payment history", func(t *testing.T) {
		history, err := payments.GetRentalPayments(rental.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
	})
}
