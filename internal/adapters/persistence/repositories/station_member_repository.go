package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
)

// StationMemberRepository handles station membership data access
type StationMemberRepository struct {
	db *gorm.DB
}

// NewStationMemberRepository creates a new station member repository
func NewStationMemberRepository(db *gorm.DB) *StationMemberRepository {
	return &StationMemberRepository{db: db}
}

// Create creates a new station member
func (r *StationMemberRepository) Create(ctx context.Context, member *models.StationMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a station member with its user and station
func (r *StationMemberRepository) GetByID(ctx context.Context, id uint) (*models.StationMember, error) {
	var member models.StationMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Role").
		Preload("Station").
		Preload("AddedBy").
		First(&member, id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update saves changes to a station member
func (r *StationMemberRepository) Update(ctx context.Context, member *models.StationMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Exists reports whether a user is already on a station's roster
func (r *StationMemberRepository) Exists(ctx context.Context, userID, stationID uint) (bool, error) {
	var member models.StationMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND station_id = ?", userID, stationID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByStation lists the members of a station
func (r *StationMemberRepository) ListByStation(ctx context.Context, stationID uint, activeOnly bool) ([]*models.StationMember, error) {
	var members []*models.StationMember
	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Role").
		Where("station_id = ?", stationID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at").Find(&members).Error
	return members, err
}
