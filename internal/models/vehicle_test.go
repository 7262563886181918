package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVehicleStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    VehicleStatus
		to      VehicleStatus
		allowed bool
	}{
		{"available can be booked", VehicleStatusAvailable, VehicleStatusBooked, true},
		{"available can go straight to in_use for walk-ins", VehicleStatusAvailable, VehicleStatusInUse, true},
		{"available can enter maintenance", VehicleStatusAvailable, VehicleStatusMaintenance, true},
		{"booked can start a rental", VehicleStatusBooked, VehicleStatusInUse, true},
		{"booked reverts to available on cancellation", VehicleStatusBooked, VehicleStatusAvailable, true},
		{"in_use returns to available", VehicleStatusInUse, VehicleStatusAvailable, true},
		{"in_use can come back damaged", VehicleStatusInUse, VehicleStatusDamaged, true},
		{"maintenance releases to available", VehicleStatusMaintenance, VehicleStatusAvailable, true},
		{"damaged goes to maintenance", VehicleStatusDamaged, VehicleStatusMaintenance, true},

		{"maintenance cannot be booked", VehicleStatusMaintenance, VehicleStatusBooked, false},
		{"maintenance cannot be handed out", VehicleStatusMaintenance, VehicleStatusInUse, false},
		{"damaged cannot be booked", VehicleStatusDamaged, VehicleStatusBooked, false},
		{"damaged cannot be handed out", VehicleStatusDamaged, VehicleStatusInUse, false},
		{"in_use cannot be double booked", VehicleStatusInUse, VehicleStatusBooked, false},
		{"no self transition", VehicleStatusAvailable, VehicleStatusAvailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseVehicleStatus(t *testing.T) {
	for _, valid := range []string{"available", "booked", "in_use", "maintenance", "damaged"} {
		status, ok := ParseVehicleStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, VehicleStatus(valid), status)
	}

	for _, invalid := range []string{"", "Available", "IN_USE", "rented", "broken"} {
		_, ok := ParseVehicleStatus(invalid)
		assert.False(t, ok, invalid)
	}
}
