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

// Manager service errors
var (
	ErrFundRequestNotFound = errors.New("fund request not found")
	ErrMemberNotFound      = errors.New("station member not found")
	ErrMemberExists        = errors.New("user already on this station's roster")
	ErrNotRequestOwner     = errors.New("fund request belongs to another manager")
)

// ManagerService handles fund request and station roster workflows
type ManagerService struct {
	fundRequestRepo *repositories.FundRequestRepository
	memberRepo      *repositories.StationMemberRepository
	locationRepo    *repositories.LocationRepository
	userRepo        repositories.UserRepository
}

// NewManagerService creates a new manager service
func NewManagerService(
	fundRequestRepo *repositories.FundRequestRepository,
	memberRepo *repositories.StationMemberRepository,
	locationRepo *repositories.LocationRepository,
	userRepo repositories.UserRepository,
) *ManagerService {
	return &ManagerService{
		fundRequestRepo: fundRequestRepo,
		memberRepo:      memberRepo,
		locationRepo:    locationRepo,
		userRepo:        userRepo,
	}
}

// CreateFundRequestInput represents a fund transfer request
type CreateFundRequestInput struct {
	StationID uint    `json:"station_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,min=0.01"`
	Reason    string  `json:"reason" validate:"required"`
}

// ProcessFundRequestInput represents an admin decision on a request
type ProcessFundRequestInput struct {
	Approve      bool   `json:"approve"`
	AdminComment string `json:"admin_comment"`
}

// AddMemberInput represents adding a user to a station roster
type AddMemberInput struct {
	UserID    uint `json:"user_id" validate:"required"`
	StationID uint `json:"station_id" validate:"required"`
}

// CreateFundRequest opens a pending fund request for a station
func (s *ManagerService) CreateFundRequest(ctx context.Context, requesterID uint, input *CreateFundRequestInput) (*models.FundRequestResponse, error) {
	if _, err := s.locationRepo.GetStation(ctx, input.StationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	request := &models.FundRequest{
		RequesterID: requesterID,
		StationID:   input.StationID,
		Amount:      input.Amount,
		Reason:      input.Reason,
		Status:      string(domain.FundRequestPending),
		RequestedAt: time.Now(),
	}

	if err := s.fundRequestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	log.Printf("✅ Fund request %d opened: station %d, amount %.2f", request.ID, input.StationID, input.Amount)

	return s.getFundResponse(ctx, request.ID)
}

// GetFundRequest gets a fund request. Managers may only read their own.
func (s *ManagerService) GetFundRequest(ctx context.Context, caller domain.Caller, id uint) (*models.FundRequestResponse, error) {
	request, err := s.getFundRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role == domain.RoleManager && request.RequesterID != caller.UserID {
		return nil, ErrNotRequestOwner
	}
	return request.ToResponse(), nil
}

// ListFundRequests lists fund requests visible to the caller
func (s *ManagerService) ListFundRequests(ctx context.Context, caller domain.Caller, filter *repositories.FundRequestFilter, page, limit int) ([]*models.FundRequestResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	requests, total, err := s.fundRequestRepo.List(ctx, caller, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.FundRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = r.ToResponse()
	}
	return responses, total, nil
}

// ProcessFundRequest approves or rejects a pending fund request. A
// request is processed exactly once.
func (s *ManagerService) ProcessFundRequest(ctx context.Context, adminID uint, id uint, input *ProcessFundRequestInput) (*models.FundRequestResponse, error) {
	request, err := s.getFundRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	current := domain.FundRequestStatus(request.Status)
	target := domain.FundRequestRejected
	if input.Approve {
		target = domain.FundRequestApproved
	}
	if !current.CanTransitionTo(target) {
		return nil, domain.ErrAlreadyProcessed
	}

	now := time.Now()
	request.Status = string(target)
	request.ProcessedAt = &now
	request.ProcessedBy = &adminID
	request.AdminComment = input.AdminComment

	if err := s.fundRequestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	log.Printf("✅ Fund request %d %s by admin %d", request.ID, request.Status, adminID)

	return s.getFundResponse(ctx, request.ID)
}

// AddMember puts a user on a station's roster
func (s *ManagerService) AddMember(ctx context.Context, addedByID uint, input *AddMemberInput) (*models.StationMemberResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}
	if _, err := s.locationRepo.GetStation(ctx, input.StationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	exists, err := s.memberRepo.Exists(ctx, input.UserID, input.StationID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberExists
	}

	member := &models.StationMember{
		UserID:    input.UserID,
		StationID: input.StationID,
		AddedByID: &addedByID,
		IsActive:  true,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	created, err := s.memberRepo.GetByID(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	return created.ToResponse(), nil
}

// SetMemberActive toggles a roster entry between active and inactive
func (s *ManagerService) SetMemberActive(ctx context.Context, id uint, active bool) (*models.StationMemberResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	member.IsActive = active
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member.ToResponse(), nil
}

// ListMembers lists a station's roster
func (s *ManagerService) ListMembers(ctx context.Context, stationID uint, activeOnly bool) ([]*models.StationMemberResponse, error) {
	if _, err := s.locationRepo.GetStation(ctx, stationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	members, err := s.memberRepo.ListByStation(ctx, stationID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.StationMemberResponse, len(members))
	for i, m := range members {
		responses[i] = m.ToResponse()
	}
	return responses, nil
}

func (s *ManagerService) getFundRequest(ctx context.Context, id uint) (*models.FundRequest, error) {
	request, err := s.fundRequestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *ManagerService) getFundResponse(ctx context.Context, id uint) (*models.FundRequestResponse, error) {
	request, err := s.fundRequestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return request.ToResponse(), nil
}
