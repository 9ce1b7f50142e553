package services

import (
	"context"
	"errors"
	"log"
	"time"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/domain"
	"colisso/internal/pkg/codes"

	"gorm.io/gorm"
)

// Reservation service errors
var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTripNotBookable     = errors.New("trip is not open for booking")
	ErrSeatOutOfRange      = errors.New("seat number outside trip capacity")
	ErrNotReservationOwner = errors.New("reservation belongs to another client")
)

// ReservationService handles seat booking business logic
type ReservationService struct {
	reservationRepo repositories.ReservationStore
	tripRepo        repositories.TripStore
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservationRepo repositories.ReservationStore,
	tripRepo repositories.TripStore,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		tripRepo:        tripRepo,
	}
}

// CreateReservationInput represents booking input. ClientID is set when
// a logged-in client books for themselves; counter agents book on behalf
// of walk-in customers and fill the contact fields only.
type CreateReservationInput struct {
	TripID          uint    `json:"trip_id" validate:"required"`
	SeatNumber      int     `json:"seat_number" validate:"required,min=1"`
	ClientID        *uint   `json:"client_id"`
	ClientFirstName string  `json:"client_first_name" validate:"required,max=100"`
	ClientLastName  string  `json:"client_last_name" validate:"required,max=100"`
	ClientPhone     string  `json:"client_phone" validate:"required,max=20"`
	ClientEmail     string  `json:"client_email"`
	AmountPaid      float64 `json:"amount_paid"`
}

// CreateReservation books a seat on a trip. The seat counter update is a
// conditional UPDATE so two concurrent bookings can never oversell.
func (s *ReservationService) CreateReservation(ctx context.Context, input *CreateReservationInput) (*models.ReservationResponse, error) {
	trip, err := s.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if domain.TripStatus(trip.Status) != domain.TripPlanned {
		return nil, ErrTripNotBookable
	}
	if input.SeatNumber < 1 || input.SeatNumber > trip.Capacity {
		return nil, ErrSeatOutOfRange
	}

	taken, err := s.reservationRepo.SeatTaken(ctx, input.TripID, input.SeatNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrSeatTaken
	}

	// Claim a seat on the counter before inserting the row
	reserved, err := s.tripRepo.ReserveSeat(ctx, input.TripID)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, domain.ErrTripFull
	}

	status := domain.ReservationPending
	if input.AmountPaid >= trip.BasePrice {
		status = domain.ReservationPaid
	} else if input.AmountPaid > 0 {
		status = domain.ReservationConfirmed
	}

	reservation := &models.Reservation{
		TicketNumber:    codes.NewTicketNumber(),
		TripID:          input.TripID,
		SeatNumber:      input.SeatNumber,
		ClientID:        input.ClientID,
		ClientFirstName: input.ClientFirstName,
		ClientLastName:  input.ClientLastName,
		ClientPhone:     input.ClientPhone,
		ClientEmail:     input.ClientEmail,
		Status:          string(status),
		AmountPaid:      input.AmountPaid,
		ReservedAt:      time.Now(),
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		// Give the claimed seat back so the counter stays honest
		if relErr := s.tripRepo.ReleaseSeat(ctx, input.TripID); relErr != nil {
			log.Printf("⚠️ Failed to release seat on trip %d after booking error: %v", input.TripID, relErr)
		}
		return nil, err
	}

	log.Printf("✅ Reservation %s created: trip %d seat %d", reservation.TicketNumber, input.TripID, input.SeatNumber)

	return s.getResponse(ctx, reservation.ID)
}

// UpdateReservationInput represents updatable contact fields
type UpdateReservationInput struct {
	ClientFirstName *string `json:"client_first_name"`
	ClientLastName  *string `json:"client_last_name"`
	ClientPhone     *string `json:"client_phone"`
	ClientEmail     *string `json:"client_email"`
}

// UpdateReservation updates the passenger contact details. Seat and trip
// are immutable; cancel and rebook to change them.
func (s *ReservationService) UpdateReservation(ctx context.Context, caller domain.Caller, id uint, input *UpdateReservationInput) (*models.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(caller, reservation); err != nil {
		return nil, err
	}

	current := domain.ReservationStatus(reservation.Status)
	if current.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}

	if input.ClientFirstName != nil {
		reservation.ClientFirstName = *input.ClientFirstName
	}
	if input.ClientLastName != nil {
		reservation.ClientLastName = *input.ClientLastName
	}
	if input.ClientPhone != nil {
		reservation.ClientPhone = *input.ClientPhone
	}
	if input.ClientEmail != nil {
		reservation.ClientEmail = *input.ClientEmail
	}

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}
	return s.getResponse(ctx, reservation.ID)
}

// GetReservation gets a reservation by ID, enforcing ownership for clients
func (s *ReservationService) GetReservation(ctx context.Context, caller domain.Caller, id uint) (*models.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(caller, reservation); err != nil {
		return nil, err
	}
	return reservation.ToResponse(), nil
}

// GetByTicket looks a reservation up by its ticket number
func (s *ReservationService) GetByTicket(ctx context.Context, ticketNumber string) (*models.ReservationResponse, error) {
	reservation, err := s.reservationRepo.GetByTicketNumber(ctx, ticketNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation.ToResponse(), nil
}

// ListReservations lists reservations visible to the caller
func (s *ReservationService) ListReservations(ctx context.Context, caller domain.Caller, filter *repositories.ReservationFilter, page, limit int) ([]*models.ReservationResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	scope := domain.ScopeFor(caller)
	reservations, total, err := s.reservationRepo.List(ctx, scope, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.ReservationResponse, len(reservations))
	for i, r := range reservations {
		responses[i] = r.ToResponse()
	}
	return responses, total, nil
}

// RecordPayment records a payment on a pending or confirmed reservation
func (s *ReservationService) RecordPayment(ctx context.Context, id uint, amount float64) (*models.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	current := domain.ReservationStatus(reservation.Status)
	if current.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}

	reservation.AmountPaid += amount

	var price float64
	if reservation.Trip != nil {
		price = reservation.Trip.BasePrice
	}
	if reservation.AmountPaid >= price && current.CanTransitionTo(domain.ReservationPaid) {
		reservation.Status = string(domain.ReservationPaid)
	} else if current == domain.ReservationPending {
		reservation.Status = string(domain.ReservationConfirmed)
	}

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation.ToResponse(), nil
}

// Validate marks a ticket as used at boarding. Idempotent calls are
// rejected so a ticket cannot board twice.
func (s *ReservationService) Validate(ctx context.Context, id uint, validatorID uint) (*models.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, reservation, validatorID)
}

// ValidateByTicket validates a reservation looked up by ticket number
func (s *ReservationService) ValidateByTicket(ctx context.Context, ticketNumber string, validatorID uint) (*models.ReservationResponse, error) {
	reservation, err := s.reservationRepo.GetByTicketNumber(ctx, ticketNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return s.validate(ctx, reservation, validatorID)
}

func (s *ReservationService) validate(ctx context.Context, reservation *models.Reservation, validatorID uint) (*models.ReservationResponse, error) {
	current := domain.ReservationStatus(reservation.Status)
	if current == domain.ReservationValidated {
		return nil, domain.ErrAlreadyValidated
	}
	if !current.CanTransitionTo(domain.ReservationValidated) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	reservation.Status = string(domain.ReservationValidated)
	reservation.ValidatedAt = &now
	reservation.ValidatedBy = &validatorID

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}

	log.Printf("✅ Ticket %s validated by user %d", reservation.TicketNumber, validatorID)

	return s.getResponse(ctx, reservation.ID)
}

// Cancel cancels a reservation and frees its seat. A validated ticket
// cannot be cancelled.
func (s *ReservationService) Cancel(ctx context.Context, caller domain.Caller, id uint) (*models.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(caller, reservation); err != nil {
		return nil, err
	}

	current := domain.ReservationStatus(reservation.Status)
	if !current.CanTransitionTo(domain.ReservationCancelled) {
		return nil, domain.ErrInvalidTransition
	}

	reservation.Status = string(domain.ReservationCancelled)
	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}

	if err := s.tripRepo.ReleaseSeat(ctx, reservation.TripID); err != nil {
		log.Printf("⚠️ Failed to release seat on trip %d for reservation %d: %v", reservation.TripID, reservation.ID, err)
	}

	log.Printf("✅ Reservation %s cancelled", reservation.TicketNumber)

	return reservation.ToResponse(), nil
}

func (s *ReservationService) checkOwnership(caller domain.Caller, reservation *models.Reservation) error {
	scope := domain.ScopeFor(caller)
	if scope.IsOwnerScoped() {
		if reservation.ClientID == nil || *reservation.ClientID != *scope.OwnerID {
			return ErrNotReservationOwner
		}
	}
	return nil
}

func (s *ReservationService) getReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

func (s *ReservationService) getResponse(ctx context.Context, id uint) (*models.ReservationResponse, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return reservation.ToResponse(), nil
}
