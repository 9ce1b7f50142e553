package services

import (
	"context"
	"errors"
	"time"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/domain"

	"gorm.io/gorm"
)

// Trip service errors
var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrTripNotEditable  = errors.New("trip can no longer be edited")
	ErrCapacityTooSmall = errors.New("capacity cannot go below seats already reserved")
)

// TripService handles trip scheduling business logic
type TripService struct {
	tripRepo        *repositories.TripRepository
	reservationRepo *repositories.ReservationRepository
}

// NewTripService creates a new trip service
func NewTripService(
	tripRepo *repositories.TripRepository,
	reservationRepo *repositories.ReservationRepository,
) *TripService {
	return &TripService{
		tripRepo:        tripRepo,
		reservationRepo: reservationRepo,
	}
}

// CreateTripInput represents trip creation input
type CreateTripInput struct {
	OriginCity        string    `json:"origin_city" validate:"required,max=100"`
	DestinationCity   string    `json:"destination_city" validate:"required,max=100"`
	DepartureDate     time.Time `json:"departure_date" validate:"required"`
	DepartureTime     string    `json:"departure_time" validate:"required"`
	EstimatedDuration int       `json:"estimated_duration" validate:"required,min=1"`
	BasePrice         float64   `json:"base_price" validate:"required,min=0"`
	Capacity          int       `json:"capacity" validate:"required,min=1"`
	IsVIP             bool      `json:"is_vip"`
	CompanyName       string    `json:"company_name"`
	BusPlate          string    `json:"bus_plate"`
}

// UpdateTripInput represents trip update input
type UpdateTripInput struct {
	DepartureDate     *time.Time `json:"departure_date"`
	DepartureTime     *string    `json:"departure_time"`
	EstimatedDuration *int       `json:"estimated_duration"`
	BasePrice         *float64   `json:"base_price"`
	Capacity          *int       `json:"capacity"`
	CompanyName       *string    `json:"company_name"`
	BusPlate          *string    `json:"bus_plate"`
}

// TripStats summarizes a trip's commercial state
type TripStats struct {
	TripID         uint    `json:"trip_id"`
	Capacity       int     `json:"capacity"`
	SeatsReserved  int     `json:"seats_reserved"`
	AvailableSeats int     `json:"available_seats"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	Validated      int64   `json:"validated"`
	Cancelled      int64   `json:"cancelled"`
	Revenue        float64 `json:"revenue"`
}

// CreateTrip creates a new trip in planned status
func (s *TripService) CreateTrip(ctx context.Context, input *CreateTripInput) (*models.TripResponse, error) {
	trip := &models.Trip{
		OriginCity:        input.OriginCity,
		DestinationCity:   input.DestinationCity,
		DepartureDate:     input.DepartureDate,
		DepartureTime:     input.DepartureTime,
		EstimatedDuration: input.EstimatedDuration,
		BasePrice:         input.BasePrice,
		Capacity:          input.Capacity,
		IsVIP:             input.IsVIP,
		CompanyName:       input.CompanyName,
		BusPlate:          input.BusPlate,
		Status:            string(domain.TripPlanned),
	}
	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}
	return trip.ToResponse(), nil
}

// GetTrip gets a trip by ID
func (s *TripService) GetTrip(ctx context.Context, id uint) (*models.TripResponse, error) {
	trip, err := s.getTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	return trip.ToResponse(), nil
}

// UpdateTrip updates an editable trip. Only planned trips may change.
func (s *TripService) UpdateTrip(ctx context.Context, id uint, input *UpdateTripInput) (*models.TripResponse, error) {
	trip, err := s.getTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.TripStatus(trip.Status) != domain.TripPlanned {
		return nil, ErrTripNotEditable
	}

	if input.DepartureDate != nil {
		trip.DepartureDate = *input.DepartureDate
	}
	if input.DepartureTime != nil {
		trip.DepartureTime = *input.DepartureTime
	}
	if input.EstimatedDuration != nil {
		trip.EstimatedDuration = *input.EstimatedDuration
	}
	if input.BasePrice != nil {
		trip.BasePrice = *input.BasePrice
	}
	if input.Capacity != nil {
		if *input.Capacity < trip.SeatsReserved {
			return nil, ErrCapacityTooSmall
		}
		trip.Capacity = *input.Capacity
	}
	if input.CompanyName != nil {
		trip.CompanyName = *input.CompanyName
	}
	if input.BusPlate != nil {
		trip.BusPlate = *input.BusPlate
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}
	return trip.ToResponse(), nil
}

// ChangeStatus moves a trip through its lifecycle
func (s *TripService) ChangeStatus(ctx context.Context, id uint, next string) (*models.TripResponse, error) {
	target := domain.TripStatus(next)
	if !target.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	trip, err := s.getTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	current := domain.TripStatus(trip.Status)
	if !current.CanTransitionTo(target) {
		return nil, domain.ErrInvalidTransition
	}

	trip.Status = string(target)
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}
	return trip.ToResponse(), nil
}

// DeleteTrip soft-deletes a trip that has no active reservations
func (s *TripService) DeleteTrip(ctx context.Context, id uint) error {
	trip, err := s.getTrip(ctx, id)
	if err != nil {
		return err
	}
	if trip.SeatsReserved > 0 {
		return ErrTripNotEditable
	}
	return s.tripRepo.Delete(ctx, id)
}

// ListTrips lists trips with filters and pagination
func (s *TripService) ListTrips(ctx context.Context, filter *repositories.TripFilter, page, limit int) ([]*models.TripResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	trips, total, err := s.tripRepo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.TripResponse, len(trips))
	for i, t := range trips {
		responses[i] = t.ToResponse()
	}
	return responses, total, nil
}

// GetStats computes occupancy and revenue figures for a trip
func (s *TripService) GetStats(ctx context.Context, id uint) (*TripStats, error) {
	trip, err := s.getTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	validated, err := s.reservationRepo.CountByTripAndStatuses(ctx, id, string(domain.ReservationValidated))
	if err != nil {
		return nil, err
	}
	cancelled, err := s.reservationRepo.CountByTripAndStatuses(ctx, id, string(domain.ReservationCancelled))
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservationRepo.ListByTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	var revenue float64
	for _, r := range reservations {
		if !r.IsCancelled() {
			revenue += r.AmountPaid
		}
	}

	return &TripStats{
		TripID:         trip.ID,
		Capacity:       trip.Capacity,
		SeatsReserved:  trip.SeatsReserved,
		AvailableSeats: trip.AvailableSeats(),
		OccupancyRate:  trip.OccupancyRate(),
		Validated:      validated,
		Cancelled:      cancelled,
		Revenue:        revenue,
	}, nil
}

func (s *TripService) getTrip(ctx context.Context, id uint) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}
