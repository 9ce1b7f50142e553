package services_test

import (
	"context"
	"errors"
	"testing"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/domain"
	"colisso/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// tripStoreFake keeps trips in memory and mutates the seat counter the
// way the conditional UPDATE in TripRepository does.
type tripStoreFake struct {
	trips map[uint]*models.Trip
}

func newTripStoreFake(trips ...*models.Trip) *tripStoreFake {
	f := &tripStoreFake{trips: make(map[uint]*models.Trip)}
	for _, t := range trips {
		f.trips[t.ID] = t
	}
	return f
}

func (f *tripStoreFake) GetByID(_ context.Context, id uint) (*models.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return trip, nil
}

func (f *tripStoreFake) ReserveSeat(_ context.Context, tripID uint) (bool, error) {
	trip, ok := f.trips[tripID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if trip.SeatsReserved >= trip.Capacity {
		return false, nil
	}
	trip.SeatsReserved++
	return true, nil
}

func (f *tripStoreFake) ReleaseSeat(_ context.Context, tripID uint) error {
	trip, ok := f.trips[tripID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if trip.SeatsReserved > 0 {
		trip.SeatsReserved--
	}
	return nil
}

type reservationStoreFake struct {
	rows      map[uint]*models.Reservation
	nextID    uint
	createErr error
}

func newReservationStoreFake() *reservationStoreFake {
	return &reservationStoreFake{rows: make(map[uint]*models.Reservation)}
}

func (f *reservationStoreFake) Create(_ context.Context, r *models.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	r.ID = f.nextID
	f.rows[r.ID] = r
	return nil
}

func (f *reservationStoreFake) GetByID(_ context.Context, id uint) (*models.Reservation, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *reservationStoreFake) GetByTicketNumber(_ context.Context, ticketNumber string) (*models.Reservation, error) {
	for _, r := range f.rows {
		if r.TicketNumber == ticketNumber {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *reservationStoreFake) Update(_ context.Context, r *models.Reservation) error {
	f.rows[r.ID] = r
	return nil
}

func (f *reservationStoreFake) List(_ context.Context, _ domain.Scope, _ *repositories.ReservationFilter, _, _ int) ([]*models.Reservation, int64, error) {
	return nil, 0, nil
}

func (f *reservationStoreFake) SeatTaken(_ context.Context, tripID uint, seatNumber int) (bool, error) {
	for _, r := range f.rows {
		if r.TripID == tripID && r.SeatNumber == seatNumber &&
			r.Status != string(domain.ReservationCancelled) {
			return true, nil
		}
	}
	return false, nil
}

func plannedTrip(id uint, capacity int) *models.Trip {
	return &models.Trip{
		ID:              id,
		OriginCity:      "Douala",
		DestinationCity: "Yaounde",
		BasePrice:       5000,
		Capacity:        capacity,
		Status:          string(domain.TripPlanned),
	}
}

func bookingInput(tripID uint, seat int) *services.CreateReservationInput {
	return &services.CreateReservationInput{
		TripID:          tripID,
		SeatNumber:      seat,
		ClientFirstName: "Ama",
		ClientLastName:  "Ndongo",
		ClientPhone:     "+237600000001",
	}
}

func TestCreateReservationSeatConflict(t *testing.T) {
	t.Parallel()

	trip := plannedTrip(1, 2)
	trips := newTripStoreFake(trip)
	store := newReservationStoreFake()
	svc := services.NewReservationService(store, trips)
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, bookingInput(1, 1))
	require.NoError(t, err)
	assert.Equal(t, string(domain.ReservationPending), first.Status)
	assert.Equal(t, 1, trip.SeatsReserved)

	_, err = svc.CreateReservation(ctx, bookingInput(1, 1))
	assert.ErrorIs(t, err, domain.ErrSeatTaken)
	assert.Equal(t, 1, trip.SeatsReserved, "rejected booking must not consume a seat")

	second, err := svc.CreateReservation(ctx, bookingInput(1, 2))
	require.NoError(t, err)
	assert.NotEqual(t, first.TicketNumber, second.TicketNumber)
	assert.Equal(t, 2, trip.SeatsReserved)
}

func TestCreateReservationFullTrip(t *testing.T) {
	t.Parallel()

	trip := plannedTrip(1, 2)
	trip.SeatsReserved = 2
	svc := services.NewReservationService(newReservationStoreFake(), newTripStoreFake(trip))

	_, err := svc.CreateReservation(context.Background(), bookingInput(1, 1))
	assert.ErrorIs(t, err, domain.ErrTripFull)
}

func TestCreateReservationRejections(t *testing.T) {
	t.Parallel()

	ongoing := plannedTrip(2, 2)
	ongoing.Status = string(domain.TripOngoing)
	trips := newTripStoreFake(plannedTrip(1, 2), ongoing)
	svc := services.NewReservationService(newReservationStoreFake(), trips)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, bookingInput(1, 3))
	assert.ErrorIs(t, err, services.ErrSeatOutOfRange)

	_, err = svc.CreateReservation(ctx, bookingInput(2, 1))
	assert.ErrorIs(t, err, services.ErrTripNotBookable)

	_, err = svc.CreateReservation(ctx, bookingInput(99, 1))
	assert.ErrorIs(t, err, services.ErrTripNotFound)
}

func TestCreateReservationReleasesSeatOnInsertFailure(t *testing.T) {
	t.Parallel()

	trip := plannedTrip(1, 2)
	store := newReservationStoreFake()
	store.createErr = errors.New("insert failed")
	svc := services.NewReservationService(store, newTripStoreFake(trip))

	_, err := svc.CreateReservation(context.Background(), bookingInput(1, 1))
	require.Error(t, err)
	assert.Equal(t, 0, trip.SeatsReserved, "claimed seat must be returned after a failed insert")
}

func TestValidateTwiceRejected(t *testing.T) {
	t.Parallel()

	trip := plannedTrip(1, 2)
	store := newReservationStoreFake()
	svc := services.NewReservationService(store, newTripStoreFake(trip))
	ctx := context.Background()

	input := bookingInput(1, 1)
	input.AmountPaid = 5000
	created, err := svc.CreateReservation(ctx, input)
	require.NoError(t, err)
	require.Equal(t, string(domain.ReservationPaid), created.Status)

	validated, err := svc.Validate(ctx, created.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ReservationValidated), validated.Status)
	require.NotNil(t, validated.ValidatedAt)

	_, err = svc.Validate(ctx, created.ID, 42)
	assert.ErrorIs(t, err, domain.ErrAlreadyValidated,
		"a ticket cannot board twice")
}

func TestValidateCancelledRejected(t *testing.T) {
	t.Parallel()

	trip := plannedTrip(1, 2)
	store := newReservationStoreFake()
	svc := services.NewReservationService(store, newTripStoreFake(trip))
	ctx := context.Background()

	created, err := svc.CreateReservation(ctx, bookingInput(1, 1))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, domain.Caller{UserID: 42, Role: domain.RoleAdmin}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, trip.SeatsReserved, "cancelling frees the seat")

	_, err = svc.Validate(ctx, created.ID, 42)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
