package models_test

import (
	"testing"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestTripAvailableSeats(t *testing.T) {
	t.Parallel()

	trip := &models.Trip{Capacity: 50, SeatsReserved: 12}
	assert.Equal(t, 38, trip.AvailableSeats())

	trip.SeatsReserved = 50
	assert.Equal(t, 0, trip.AvailableSeats())

	// Never negative even if the counter drifts
	trip.SeatsReserved = 55
	assert.Equal(t, 0, trip.AvailableSeats())
}

func TestTripIsFull(t *testing.T) {
	t.Parallel()

	trip := &models.Trip{Capacity: 4, SeatsReserved: 3}
	assert.False(t, trip.IsFull())

	trip.SeatsReserved = 4
	assert.True(t, trip.IsFull())
}

func TestTripOccupancyRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		capacity int
		reserved int
		want     float64
	}{
		{"empty", 50, 0, 0},
		{"third", 30, 10, 33.33},
		{"two thirds", 3, 2, 66.67},
		{"full", 50, 50, 100},
		{"zero capacity", 0, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			trip := &models.Trip{Capacity: tt.capacity, SeatsReserved: tt.reserved}
			assert.InDelta(t, tt.want, trip.OccupancyRate(), 0.001)
		})
	}
}

func TestTripToResponse(t *testing.T) {
	t.Parallel()

	trip := &models.Trip{
		ID:            9,
		Capacity:      40,
		SeatsReserved: 10,
		Status:        string(domain.TripPlanned),
	}

	resp := trip.ToResponse()

	assert.Equal(t, uint(9), resp.ID)
	assert.Equal(t, 30, resp.AvailableSeats)
	assert.InDelta(t, 25.0, resp.OccupancyRate, 0.001)
	assert.False(t, resp.IsFull)
}

func TestReservationSeatHelpers(t *testing.T) {
	t.Parallel()

	r := &models.Reservation{Status: string(domain.ReservationPaid)}
	assert.False(t, r.IsValidated())
	assert.False(t, r.IsCancelled())
	assert.True(t, r.HoldsSeat())

	r.Status = string(domain.ReservationValidated)
	assert.True(t, r.IsValidated())
	assert.True(t, r.HoldsSeat())

	r.Status = string(domain.ReservationCancelled)
	assert.True(t, r.IsCancelled())
	assert.False(t, r.HoldsSeat())
}
