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

// Parcel service errors
var (
	ErrParcelNotFound   = errors.New("parcel not found")
	ErrSameStation      = errors.New("origin and destination stations must differ")
	ErrNotParcelSender  = errors.New("parcel belongs to another sender")
	ErrParcelFinalState = errors.New("parcel is in a final state")
	ErrParcelInTransit  = errors.New("parcel is in transit")
	ErrHistoryNotFound  = errors.New("history entry not found")
)

// ParcelService handles the parcel lifecycle
type ParcelService struct {
	parcelRepo   repositories.ParcelStore
	historyRepo  repositories.HistoryStore
	locationRepo repositories.StationGetter
	userRepo     repositories.UserRepository
}

// NewParcelService creates a new parcel service
func NewParcelService(
	parcelRepo repositories.ParcelStore,
	historyRepo repositories.HistoryStore,
	locationRepo repositories.StationGetter,
	userRepo repositories.UserRepository,
) *ParcelService {
	return &ParcelService{
		parcelRepo:   parcelRepo,
		historyRepo:  historyRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
	}
}

// CreateParcelInput represents parcel registration input
type CreateParcelInput struct {
	Description          string     `json:"description" validate:"required"`
	Weight               float64    `json:"weight" validate:"required,min=0.01"`
	DeclaredValue        *float64   `json:"declared_value"`
	SenderID             uint       `json:"sender_id" validate:"required"`
	RecipientName        string     `json:"recipient_name" validate:"required,max=200"`
	RecipientPhone       string     `json:"recipient_phone" validate:"required,max=20"`
	RecipientAddress     string     `json:"recipient_address" validate:"required"`
	OriginStationID      uint       `json:"origin_station_id" validate:"required"`
	DestinationStationID uint       `json:"destination_station_id" validate:"required"`
	Price                float64    `json:"price" validate:"required,min=0"`
	AmountPaid           float64    `json:"amount_paid"`
	ExpectedArrival      *time.Time `json:"expected_arrival"`
	Notes                string     `json:"notes"`
}

// UpdateParcelInput represents updatable descriptive fields. Routing,
// weight and pricing are fixed at registration.
type UpdateParcelInput struct {
	Description      *string    `json:"description"`
	DeclaredValue    *float64   `json:"declared_value"`
	RecipientName    *string    `json:"recipient_name"`
	RecipientPhone   *string    `json:"recipient_phone"`
	RecipientAddress *string    `json:"recipient_address"`
	ExpectedArrival  *time.Time `json:"expected_arrival"`
	Notes            *string    `json:"notes"`
}

// ChangeStatusInput represents a parcel status change request
type ChangeStatusInput struct {
	Status     string `json:"status" validate:"required"`
	Comment    string `json:"comment"`
	LocationID *uint  `json:"location_id"`
}

// ParcelStatistics aggregates parcel counts per status
type ParcelStatistics struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// CreateParcel registers a new parcel and writes the opening history
// entry at the origin station.
func (s *ParcelService) CreateParcel(ctx context.Context, actorID uint, input *CreateParcelInput) (*models.ParcelResponse, error) {
	if input.OriginStationID == input.DestinationStationID {
		return nil, ErrSameStation
	}

	if _, err := s.locationRepo.GetStation(ctx, input.OriginStationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	if _, err := s.locationRepo.GetStation(ctx, input.DestinationStationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, input.SenderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}

	// Tracking codes are random; regenerate on the rare collision
	trackingCode := codes.NewTrackingCode()
	for i := 0; i < 3; i++ {
		exists, err := s.parcelRepo.ExistsByTrackingCode(ctx, trackingCode)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		trackingCode = codes.NewTrackingCode()
	}

	parcel := &models.Parcel{
		TrackingCode:         trackingCode,
		Description:          input.Description,
		Weight:               input.Weight,
		DeclaredValue:        input.DeclaredValue,
		SenderID:             input.SenderID,
		RecipientName:        input.RecipientName,
		RecipientPhone:       input.RecipientPhone,
		RecipientAddress:     input.RecipientAddress,
		OriginStationID:      input.OriginStationID,
		DestinationStationID: input.DestinationStationID,
		Status:               string(domain.ParcelPending),
		Price:                input.Price,
		AmountPaid:           input.AmountPaid,
		ExpectedArrival:      input.ExpectedArrival,
		Notes:                input.Notes,
		IsActive:             true,
	}

	if err := s.parcelRepo.Create(ctx, parcel); err != nil {
		return nil, err
	}

	entry := &models.StatusHistory{
		ParcelID:   parcel.ID,
		OldStatus:  nil,
		NewStatus:  string(domain.ParcelPending),
		ActorID:    &actorID,
		Comment:    "Parcel registered",
		LocationID: &input.OriginStationID,
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to record opening history for parcel %s: %v", parcel.TrackingCode, err)
	}

	log.Printf("✅ Parcel %s registered: station %d -> %d", parcel.TrackingCode, input.OriginStationID, input.DestinationStationID)

	return s.getResponse(ctx, parcel.ID)
}

// GetParcel gets a parcel by ID, enforcing sender ownership for clients
func (s *ParcelService) GetParcel(ctx context.Context, caller domain.Caller, id uint) (*models.ParcelResponse, error) {
	parcel, err := s.getParcel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(caller, parcel); err != nil {
		return nil, err
	}
	return parcel.ToResponse(), nil
}

// ListParcels lists parcels visible to the caller
func (s *ParcelService) ListParcels(ctx context.Context, caller domain.Caller, filter *repositories.ParcelFilter, page, limit int) ([]*models.ParcelResponse, int64, error) {
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
	parcels, total, err := s.parcelRepo.List(ctx, scope, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.ParcelResponse, len(parcels))
	for i, p := range parcels {
		responses[i] = p.ToResponse()
	}
	return responses, total, nil
}

// UpdateParcel updates the descriptive fields on a parcel. Delivered and
// cancelled parcels are read only.
func (s *ParcelService) UpdateParcel(ctx context.Context, id uint, input *UpdateParcelInput) (*models.ParcelResponse, error) {
	parcel, err := s.getParcel(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.ParcelStatus(parcel.Status).IsTerminal() {
		return nil, ErrParcelFinalState
	}

	if input.Description != nil {
		parcel.Description = *input.Description
	}
	if input.DeclaredValue != nil {
		parcel.DeclaredValue = input.DeclaredValue
	}
	if input.RecipientName != nil {
		parcel.RecipientName = *input.RecipientName
	}
	if input.RecipientPhone != nil {
		parcel.RecipientPhone = *input.RecipientPhone
	}
	if input.RecipientAddress != nil {
		parcel.RecipientAddress = *input.RecipientAddress
	}
	if input.ExpectedArrival != nil {
		parcel.ExpectedArrival = input.ExpectedArrival
	}
	if input.Notes != nil {
		parcel.Notes = *input.Notes
	}

	if err := s.parcelRepo.Update(ctx, parcel); err != nil {
		return nil, err
	}
	return s.getResponse(ctx, parcel.ID)
}

// DeleteParcel soft-deletes a parcel. Only parcels that never entered
// transit can be removed; anything in motion must be cancelled instead.
func (s *ParcelService) DeleteParcel(ctx context.Context, id uint) error {
	parcel, err := s.getParcel(ctx, id)
	if err != nil {
		return err
	}

	switch domain.ParcelStatus(parcel.Status) {
	case domain.ParcelPending, domain.ParcelCancelled:
	default:
		return ErrParcelInTransit
	}

	if err := s.parcelRepo.Delete(ctx, parcel.ID); err != nil {
		return err
	}
	log.Printf("🧹 Parcel %s deleted", parcel.TrackingCode)
	return nil
}

// ChangeStatus moves a parcel through its lifecycle, records the change
// in the status history and stamps arrival and delivery times.
func (s *ParcelService) ChangeStatus(ctx context.Context, actorID uint, id uint, input *ChangeStatusInput) (*models.ParcelResponse, error) {
	target := domain.ParcelStatus(input.Status)
	if !target.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	parcel, err := s.getParcel(ctx, id)
	if err != nil {
		return nil, err
	}

	current := domain.ParcelStatus(parcel.Status)
	if !current.CanTransitionTo(target) {
		if current.IsTerminal() {
			return nil, ErrParcelFinalState
		}
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	old := parcel.Status
	parcel.Status = string(target)

	switch target {
	case domain.ParcelArrived:
		parcel.ArrivedAt = &now
	case domain.ParcelDelivered:
		parcel.DeliveredAt = &now
		if parcel.ArrivedAt == nil {
			parcel.ArrivedAt = &now
		}
	}

	if err := s.parcelRepo.Update(ctx, parcel); err != nil {
		return nil, err
	}

	// Arrival and delivery both happen at the destination station
	locationID := input.LocationID
	if locationID == nil && (target == domain.ParcelArrived || target == domain.ParcelDelivered) {
		locationID = &parcel.DestinationStationID
	}

	entry := &models.StatusHistory{
		ParcelID:   parcel.ID,
		OldStatus:  &old,
		NewStatus:  parcel.Status,
		ActorID:    &actorID,
		Comment:    input.Comment,
		LocationID: locationID,
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to record history for parcel %s: %v", parcel.TrackingCode, err)
	}

	log.Printf("✅ Parcel %s: %s -> %s", parcel.TrackingCode, old, parcel.Status)

	return s.getResponse(ctx, parcel.ID)
}

// RecordPayment adds a payment on a parcel
func (s *ParcelService) RecordPayment(ctx context.Context, id uint, amount float64) (*models.ParcelResponse, error) {
	parcel, err := s.getParcel(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.ParcelStatus(parcel.Status) == domain.ParcelCancelled {
		return nil, ErrParcelFinalState
	}

	parcel.AmountPaid += amount
	if err := s.parcelRepo.Update(ctx, parcel); err != nil {
		return nil, err
	}
	return parcel.ToResponse(), nil
}

// Track returns the public tracking projection for a tracking code. No
// authentication required, so contact details stay out of the payload.
func (s *ParcelService) Track(ctx context.Context, trackingCode string) (*models.TrackingResponse, error) {
	parcel, err := s.parcelRepo.GetByTrackingCode(ctx, trackingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}

	history, err := s.historyRepo.ListByParcel(ctx, parcel.ID)
	if err != nil {
		return nil, err
	}

	return parcel.ToTrackingResponse(history), nil
}

// GetHistory returns a parcel's full status history
func (s *ParcelService) GetHistory(ctx context.Context, caller domain.Caller, id uint) ([]*models.StatusHistoryResponse, error) {
	parcel, err := s.getParcel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(caller, parcel); err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ListByParcel(ctx, parcel.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.StatusHistoryResponse, len(history))
	for i, h := range history {
		responses[i] = h.ToResponse()
	}
	return responses, nil
}

// ListHistory pages through status history across parcels, newest
// first, optionally narrowed to one parcel. Used by the audit feed.
func (s *ParcelService) ListHistory(ctx context.Context, parcelID *uint, page, limit int) ([]*models.StatusHistoryResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	entries, total, err := s.historyRepo.List(ctx, parcelID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.StatusHistoryResponse, len(entries))
	for i, e := range entries {
		responses[i] = e.ToResponse()
	}
	return responses, total, nil
}

// GetHistoryEntry returns a single history entry, enforcing sender
// ownership through the parent parcel
func (s *ParcelService) GetHistoryEntry(ctx context.Context, caller domain.Caller, id uint) (*models.StatusHistoryResponse, error) {
	entry, err := s.historyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, err
	}

	parcel, err := s.getParcel(ctx, entry.ParcelID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(caller, parcel); err != nil {
		return nil, err
	}

	return entry.ToResponse(), nil
}

// GetStatistics aggregates parcel counts per status for the caller's scope
func (s *ParcelService) GetStatistics(ctx context.Context, caller domain.Caller) (*ParcelStatistics, error) {
	scope := domain.ScopeFor(caller)
	total, byStatus, err := s.parcelRepo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &ParcelStatistics{Total: total, ByStatus: byStatus}, nil
}

func (s *ParcelService) checkOwnership(caller domain.Caller, parcel *models.Parcel) error {
	scope := domain.ScopeFor(caller)
	if scope.IsOwnerScoped() && parcel.SenderID != *scope.OwnerID {
		return ErrNotParcelSender
	}
	return nil
}

func (s *ParcelService) getParcel(ctx context.Context, id uint) (*models.Parcel, error) {
	parcel, err := s.parcelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}
	return parcel, nil
}

func (s *ParcelService) getResponse(ctx context.Context, id uint) (*models.ParcelResponse, error) {
	parcel, err := s.parcelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return parcel.ToResponse(), nil
}
