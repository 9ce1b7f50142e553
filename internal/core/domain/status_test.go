package domain_test

import (
	"testing"

	"colisso/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestParcelStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    domain.ParcelStatus
		to      domain.ParcelStatus
		allowed bool
	}{
		{"pending to in_transit", domain.ParcelPending, domain.ParcelInTransit, true},
		{"pending to cancelled", domain.ParcelPending, domain.ParcelCancelled, true},
		{"pending skips to delivered", domain.ParcelPending, domain.ParcelDelivered, false},
		{"in_transit to arrived", domain.ParcelInTransit, domain.ParcelArrived, true},
		{"in_transit back to pending", domain.ParcelInTransit, domain.ParcelPending, false},
		{"arrived to out_for_delivery", domain.ParcelArrived, domain.ParcelOutForDelivery, true},
		{"arrived direct pickup", domain.ParcelArrived, domain.ParcelDelivered, true},
		{"out_for_delivery to delivered", domain.ParcelOutForDelivery, domain.ParcelDelivered, true},
		{"out_for_delivery cannot cancel", domain.ParcelOutForDelivery, domain.ParcelCancelled, false},
		{"problem recovers to in_transit", domain.ParcelProblem, domain.ParcelInTransit, true},
		{"problem retries delivery", domain.ParcelProblem, domain.ParcelOutForDelivery, true},
		{"delivered is terminal", domain.ParcelDelivered, domain.ParcelProblem, false},
		{"cancelled is terminal", domain.ParcelCancelled, domain.ParcelInTransit, false},
		{"unknown source", domain.ParcelStatus("lost"), domain.ParcelInTransit, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParcelStatusIsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.ParcelDelivered.IsTerminal())
	assert.True(t, domain.ParcelCancelled.IsTerminal())
	assert.False(t, domain.ParcelProblem.IsTerminal())
	assert.False(t, domain.ParcelPending.IsTerminal())
	assert.False(t, domain.ParcelStatus("lost").IsTerminal())
}

func TestParcelStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []domain.ParcelStatus{
		domain.ParcelPending, domain.ParcelInTransit, domain.ParcelArrived,
		domain.ParcelOutForDelivery, domain.ParcelDelivered,
		domain.ParcelProblem, domain.ParcelCancelled,
	} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, domain.ParcelStatus("").IsValid())
	assert.False(t, domain.ParcelStatus("PENDING").IsValid())
}

func TestReservationStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    domain.ReservationStatus
		to      domain.ReservationStatus
		allowed bool
	}{
		{"pending to confirmed", domain.ReservationPending, domain.ReservationConfirmed, true},
		{"pending straight to paid", domain.ReservationPending, domain.ReservationPaid, true},
		{"pending validated at counter", domain.ReservationPending, domain.ReservationValidated, true},
		{"confirmed to paid", domain.ReservationConfirmed, domain.ReservationPaid, true},
		{"paid cannot revert", domain.ReservationPaid, domain.ReservationConfirmed, false},
		{"paid to validated", domain.ReservationPaid, domain.ReservationValidated, true},
		{"paid can still cancel", domain.ReservationPaid, domain.ReservationCancelled, true},
		{"validated is terminal", domain.ReservationValidated, domain.ReservationCancelled, false},
		{"cancelled cannot validate", domain.ReservationCancelled, domain.ReservationValidated, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDeliveryStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    domain.DeliveryStatus
		to      domain.DeliveryStatus
		allowed bool
	}{
		{"pending to assigned", domain.DeliveryPending, domain.DeliveryAssigned, true},
		{"pending cannot start", domain.DeliveryPending, domain.DeliveryInProgress, false},
		{"assigned to in_progress", domain.DeliveryAssigned, domain.DeliveryInProgress, true},
		{"assigned cannot finish", domain.DeliveryAssigned, domain.DeliveryDelivered, false},
		{"in_progress to delivered", domain.DeliveryInProgress, domain.DeliveryDelivered, true},
		{"in_progress to failed", domain.DeliveryInProgress, domain.DeliveryFailed, true},
		{"delivered is terminal", domain.DeliveryDelivered, domain.DeliveryFailed, false},
		{"failed is terminal", domain.DeliveryFailed, domain.DeliveryAssigned, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTripStatusTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.TripPlanned.CanTransitionTo(domain.TripOngoing))
	assert.True(t, domain.TripPlanned.CanTransitionTo(domain.TripCancelled))
	assert.True(t, domain.TripOngoing.CanTransitionTo(domain.TripFinished))
	assert.True(t, domain.TripOngoing.CanTransitionTo(domain.TripCancelled))
	assert.False(t, domain.TripPlanned.CanTransitionTo(domain.TripFinished))
	assert.False(t, domain.TripFinished.CanTransitionTo(domain.TripOngoing))
	assert.False(t, domain.TripCancelled.CanTransitionTo(domain.TripPlanned))
}

func TestFundRequestStatusTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.FundRequestPending.CanTransitionTo(domain.FundRequestApproved))
	assert.True(t, domain.FundRequestPending.CanTransitionTo(domain.FundRequestRejected))
	assert.False(t, domain.FundRequestApproved.CanTransitionTo(domain.FundRequestRejected))
	assert.False(t, domain.FundRequestRejected.CanTransitionTo(domain.FundRequestApproved))
}
