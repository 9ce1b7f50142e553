package repositories

import (
	"context"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/core/domain"
)

// FundRequestFilter narrows fund request list queries
type FundRequestFilter struct {
	Status      string
	StationID   *uint
	RequesterID *uint
}

// FundRequestRepository handles fund request data access
type FundRequestRepository struct {
	db *gorm.DB
}

// NewFundRequestRepository creates a new fund request repository
func NewFundRequestRepository(db *gorm.DB) *FundRequestRepository {
	return &FundRequestRepository{db: db}
}

// Create creates a new fund request
func (r *FundRequestRepository) Create(ctx context.Context, request *models.FundRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID gets a fund request with its requester, station and processor
func (r *FundRequestRepository) GetByID(ctx context.Context, id uint) (*models.FundRequest, error) {
	var request models.FundRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Station").
		Preload("Processor").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Update saves changes to a fund request
func (r *FundRequestRepository) Update(ctx context.Context, request *models.FundRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// List lists fund requests with filters and pagination. Managers see only
// the requests they raised themselves; admins see everything.
func (r *FundRequestRepository) List(ctx context.Context, caller domain.Caller, filter *FundRequestFilter, offset, limit int) ([]*models.FundRequest, int64, error) {
	var requests []*models.FundRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FundRequest{})
	if caller.Role == domain.RoleManager {
		query = query.Where("requester_id = ?", caller.UserID)
	}

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.StationID != nil {
			query = query.Where("station_id = ?", *filter.StationID)
		}
		if filter.RequesterID != nil {
			query = query.Where("requester_id = ?", *filter.RequesterID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Requester").
		Preload("Station").
		Order("requested_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error

	return requests, total, err
}
