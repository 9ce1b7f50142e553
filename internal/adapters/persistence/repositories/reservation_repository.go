package repositories

import (
	"context"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/core/domain"
)

// ReservationFilter narrows reservation list queries
type ReservationFilter struct {
	TripID       *uint
	Status       string
	ClientPhone  string
	TicketNumber string
}

// ReservationRepository handles reservation data access
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create creates a new reservation
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// GetByID gets a reservation with its trip and validator
func (r *ReservationRepository) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Trip").
		Preload("Validator").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByTicketNumber gets a reservation by its ticket number
func (r *ReservationRepository) GetByTicketNumber(ctx context.Context, ticketNumber string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Trip").
		Where("ticket_number = ?", ticketNumber).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update saves changes to a reservation
func (r *ReservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// List lists reservations under the caller's visibility scope
func (r *ReservationRepository) List(ctx context.Context, scope domain.Scope, filter *ReservationFilter, offset, limit int) ([]*models.Reservation, int64, error) {
	var reservations []*models.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Reservation{})
	query = r.applyScope(query, scope)

	if filter != nil {
		if filter.TripID != nil {
			query = query.Where("trip_id = ?", *filter.TripID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.ClientPhone != "" {
			query = query.Where("client_phone = ?", filter.ClientPhone)
		}
		if filter.TicketNumber != "" {
			query = query.Where("ticket_number = ?", filter.TicketNumber)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Trip").
		Order("reserved_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reservations).Error

	return reservations, total, err
}

// ListByTrip lists every reservation on a trip
func (r *ReservationRepository) ListByTrip(ctx context.Context, tripID uint) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("seat_number").
		Find(&reservations).Error
	return reservations, err
}

// SeatTaken reports whether a non-cancelled reservation already holds
// the seat on the trip. A cancelled reservation frees its seat.
func (r *ReservationRepository) SeatTaken(ctx context.Context, tripID uint, seatNumber int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("trip_id = ?", tripID).
		Where("seat_number = ?", seatNumber).
		Where("status <> ?", string(domain.ReservationCancelled)).
		Count(&count).Error
	return count > 0, err
}

// CountByTripAndStatuses counts a trip's reservations in the given statuses
func (r *ReservationRepository) CountByTripAndStatuses(ctx context.Context, tripID uint, statuses ...string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("trip_id = ?", tripID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Count(&count).Error
	return count, err
}

// applyScope translates the visibility scope into query predicates.
// Reservations carry no station reference, so station-scoped staff see
// the full collection; only owner scoping restricts here.
func (r *ReservationRepository) applyScope(query *gorm.DB, scope domain.Scope) *gorm.DB {
	if scope.IsOwnerScoped() {
		return query.Where("client_id = ?", *scope.OwnerID)
	}
	return query
}
