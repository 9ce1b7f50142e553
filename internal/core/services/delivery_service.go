package services

import (
	"context"
	"errors"
	"log"
	"time"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/domain"

	"gorm.io/gorm"
)

// Delivery service errors
var (
	ErrDeliveryNotFound   = errors.New("delivery not found")
	ErrCourierRequired    = errors.New("assignee must have the courier role")
	ErrNotAssignedCourier = errors.New("delivery is assigned to another courier")
	ErrParcelNotArrived   = errors.New("parcel has not arrived at its destination")
	ErrFailureReasonEmpty = errors.New("failure reason is required")
	ErrDeliveryStarted    = errors.New("delivery has already started")
)

// DeliveryService handles last-mile delivery attempts. Every delivery
// step also advances the parcel itself so the two lifecycles stay in
// lockstep.
type DeliveryService struct {
	deliveryRepo *repositories.DeliveryRepository
	parcelRepo   *repositories.ParcelRepository
	historyRepo  *repositories.HistoryRepository
	userRepo     repositories.UserRepository
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	deliveryRepo *repositories.DeliveryRepository,
	parcelRepo *repositories.ParcelRepository,
	historyRepo *repositories.HistoryRepository,
	userRepo repositories.UserRepository,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		parcelRepo:   parcelRepo,
		historyRepo:  historyRepo,
		userRepo:     userRepo,
	}
}

// FinishDeliveryInput represents the outcome of a delivery attempt
type FinishDeliveryInput struct {
	Success            bool   `json:"success"`
	RecipientSignature string `json:"recipient_signature"`
	PhotoURL           string `json:"photo_url"`
	CourierComment     string `json:"courier_comment"`
	FailureReason      string `json:"failure_reason"`
}

// CreateDelivery opens a delivery attempt for an arrived parcel
func (s *DeliveryService) CreateDelivery(ctx context.Context, parcelID uint) (*models.DeliveryResponse, error) {
	parcel, err := s.parcelRepo.GetByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}

	if domain.ParcelStatus(parcel.Status) != domain.ParcelArrived {
		return nil, ErrParcelNotArrived
	}

	delivery := &models.Delivery{
		ParcelID: parcelID,
		Status:   string(domain.DeliveryPending),
	}
	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, err
	}

	return s.getResponse(ctx, delivery.ID)
}

// Assign hands a pending delivery to a courier
func (s *DeliveryService) Assign(ctx context.Context, id uint, courierID uint) (*models.DeliveryResponse, error) {
	delivery, err := s.getDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	current := domain.DeliveryStatus(delivery.Status)
	if !current.CanTransitionTo(domain.DeliveryAssigned) {
		return nil, domain.ErrInvalidTransition
	}

	courier, err := s.userRepo.GetByID(ctx, courierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}
	if courier.RoleCode() != domain.RoleCourier {
		return nil, ErrCourierRequired
	}

	now := time.Now()
	delivery.CourierID = &courierID
	delivery.Status = string(domain.DeliveryAssigned)
	delivery.AssignedAt = &now

	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, err
	}

	log.Printf("✅ Delivery %d assigned to courier %s", delivery.ID, courier.FullName())

	return s.getResponse(ctx, delivery.ID)
}

// Start begins an assigned delivery and puts the parcel out for delivery
func (s *DeliveryService) Start(ctx context.Context, id uint, courierID uint) (*models.DeliveryResponse, error) {
	delivery, err := s.getDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	if delivery.CourierID == nil || *delivery.CourierID != courierID {
		return nil, ErrNotAssignedCourier
	}

	current := domain.DeliveryStatus(delivery.Status)
	if !current.CanTransitionTo(domain.DeliveryInProgress) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	delivery.Status = string(domain.DeliveryInProgress)
	delivery.StartedAt = &now

	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, err
	}

	if err := s.advanceParcel(ctx, delivery.ParcelID, domain.ParcelOutForDelivery, courierID, "Out for delivery"); err != nil {
		return nil, err
	}

	return s.getResponse(ctx, delivery.ID)
}

// Finish records the outcome of a delivery attempt. Success delivers the
// parcel; failure flags it as problem with the courier's reason.
func (s *DeliveryService) Finish(ctx context.Context, id uint, courierID uint, input *FinishDeliveryInput) (*models.DeliveryResponse, error) {
	delivery, err := s.getDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	if delivery.CourierID == nil || *delivery.CourierID != courierID {
		return nil, ErrNotAssignedCourier
	}

	current := domain.DeliveryStatus(delivery.Status)
	now := time.Now()

	if input.Success {
		if !current.CanTransitionTo(domain.DeliveryDelivered) {
			return nil, domain.ErrInvalidTransition
		}
		delivery.Status = string(domain.DeliveryDelivered)
		delivery.CompletedAt = &now
		delivery.RecipientSignature = input.RecipientSignature
		delivery.PhotoURL = input.PhotoURL
		delivery.CourierComment = input.CourierComment

		if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
			return nil, err
		}
		if err := s.advanceParcel(ctx, delivery.ParcelID, domain.ParcelDelivered, courierID, input.CourierComment); err != nil {
			return nil, err
		}
	} else {
		if input.FailureReason == "" {
			return nil, ErrFailureReasonEmpty
		}
		if !current.CanTransitionTo(domain.DeliveryFailed) {
			return nil, domain.ErrInvalidTransition
		}
		delivery.Status = string(domain.DeliveryFailed)
		delivery.CompletedAt = &now
		delivery.FailureReason = input.FailureReason
		delivery.CourierComment = input.CourierComment

		if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
			return nil, err
		}
		if err := s.advanceParcel(ctx, delivery.ParcelID, domain.ParcelProblem, courierID, input.FailureReason); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Delivery %d finished: %s", delivery.ID, delivery.Status)

	return s.getResponse(ctx, delivery.ID)
}

// Delete removes a delivery that has not yet left the depot. Assigned
// deliveries fall back to pending on the board; anything in progress or
// finished stays on record.
func (s *DeliveryService) Delete(ctx context.Context, id uint) error {
	delivery, err := s.getDelivery(ctx, id)
	if err != nil {
		return err
	}

	switch domain.DeliveryStatus(delivery.Status) {
	case domain.DeliveryPending, domain.DeliveryAssigned:
	default:
		return ErrDeliveryStarted
	}

	return s.deliveryRepo.Delete(ctx, delivery.ID)
}

// GetDelivery gets a delivery by ID. Couriers may only read their own.
func (s *DeliveryService) GetDelivery(ctx context.Context, caller domain.Caller, id uint) (*models.DeliveryResponse, error) {
	delivery, err := s.getDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role == domain.RoleCourier {
		if delivery.CourierID == nil || *delivery.CourierID != caller.UserID {
			return nil, ErrNotAssignedCourier
		}
	}
	return delivery.ToResponse(), nil
}

// ListDeliveries lists deliveries visible to the caller
func (s *DeliveryService) ListDeliveries(ctx context.Context, caller domain.Caller, filter *repositories.DeliveryFilter, page, limit int) ([]*models.DeliveryResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	deliveries, total, err := s.deliveryRepo.List(ctx, caller, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		responses[i] = d.ToResponse()
	}
	return responses, total, nil
}

// ListAvailable lists unassigned deliveries waiting for a courier
func (s *DeliveryService) ListAvailable(ctx context.Context) ([]*models.DeliveryResponse, error) {
	deliveries, err := s.deliveryRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		responses[i] = d.ToResponse()
	}
	return responses, nil
}

// advanceParcel applies a delivery-driven status change to the parcel
// and records it in the history.
func (s *DeliveryService) advanceParcel(ctx context.Context, parcelID uint, target domain.ParcelStatus, actorID uint, comment string) error {
	parcel, err := s.parcelRepo.GetByID(ctx, parcelID)
	if err != nil {
		return err
	}

	current := domain.ParcelStatus(parcel.Status)
	if !current.CanTransitionTo(target) {
		return domain.ErrInvalidTransition
	}

	now := time.Now()
	old := parcel.Status
	parcel.Status = string(target)
	if target == domain.ParcelDelivered {
		parcel.DeliveredAt = &now
	}

	if err := s.parcelRepo.Update(ctx, parcel); err != nil {
		return err
	}

	entry := &models.StatusHistory{
		ParcelID:   parcel.ID,
		OldStatus:  &old,
		NewStatus:  parcel.Status,
		ActorID:    &actorID,
		Comment:    comment,
		LocationID: &parcel.DestinationStationID,
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to record history for parcel %s: %v", parcel.TrackingCode, err)
	}
	return nil
}

func (s *DeliveryService) getDelivery(ctx context.Context, id uint) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, err
	}
	return delivery, nil
}

func (s *DeliveryService) getResponse(ctx context.Context, id uint) (*models.DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return delivery.ToResponse(), nil
}
