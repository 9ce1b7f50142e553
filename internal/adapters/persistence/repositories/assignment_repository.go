package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
)

// AssignmentFilter narrows station assignment list queries
type AssignmentFilter struct {
	UserID    *uint
	StationID *uint
	IsPrimary *bool
}

// AssignmentRepository handles station assignment data access
type AssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create creates a new assignment
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.StationAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// GetByID gets an assignment with its user and station
func (r *AssignmentRepository) GetByID(ctx context.Context, id uint) (*models.StationAssignment, error) {
	var assignment models.StationAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Station").
		First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Update saves changes to an assignment
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.StationAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// Delete soft-deletes an assignment
func (r *AssignmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.StationAssignment{}, id).Error
}

// List lists assignments with filters and pagination
func (r *AssignmentRepository) List(ctx context.Context, filter *AssignmentFilter, offset, limit int) ([]*models.StationAssignment, int64, error) {
	var assignments []*models.StationAssignment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.StationAssignment{})
	if filter != nil {
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.StationID != nil {
			query = query.Where("station_id = ?", *filter.StationID)
		}
		if filter.IsPrimary != nil {
			query = query.Where("is_primary = ?", *filter.IsPrimary)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Station").
		Order("start_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&assignments).Error

	return assignments, total, err
}

// ActiveStationIDs returns the stations a user is currently assigned
// to (start date reached, end date absent or in the future). Feeds the
// station-scoped visibility predicate.
func (r *AssignmentRepository) ActiveStationIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.StationAssignment{}).
		Where("user_id = ?", userID).
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Pluck("station_id", &ids).Error
	return ids, err
}
