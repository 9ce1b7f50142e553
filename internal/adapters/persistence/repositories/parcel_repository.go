package repositories

import (
	"context"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/core/domain"
)

// ParcelFilter narrows parcel list queries
type ParcelFilter struct {
	Status               string
	SenderID             *uint
	OriginStationID      *uint
	DestinationStationID *uint
	Search               string // matches tracking code or recipient
}

// ParcelRepository handles parcel data access
type ParcelRepository struct {
	db *gorm.DB
}

// NewParcelRepository creates a new parcel repository
func NewParcelRepository(db *gorm.DB) *ParcelRepository {
	return &ParcelRepository{db: db}
}

// Create creates a new parcel
func (r *ParcelRepository) Create(ctx context.Context, parcel *models.Parcel) error {
	return r.db.WithContext(ctx).Create(parcel).Error
}

// GetByID gets a parcel with its sender and stations
func (r *ParcelRepository) GetByID(ctx context.Context, id uint) (*models.Parcel, error) {
	var parcel models.Parcel
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("OriginStation").
		Preload("DestinationStation").
		First(&parcel, id).Error
	if err != nil {
		return nil, err
	}
	return &parcel, nil
}

// GetByTrackingCode gets a parcel by tracking code (public tracking)
func (r *ParcelRepository) GetByTrackingCode(ctx context.Context, code string) (*models.Parcel, error) {
	var parcel models.Parcel
	err := r.db.WithContext(ctx).
		Preload("OriginStation").
		Preload("DestinationStation").
		Where("tracking_code = ?", code).
		First(&parcel).Error
	if err != nil {
		return nil, err
	}
	return &parcel, nil
}

// Update saves changes to a parcel
func (r *ParcelRepository) Update(ctx context.Context, parcel *models.Parcel) error {
	return r.db.WithContext(ctx).Save(parcel).Error
}

// Delete soft-deletes a parcel
func (r *ParcelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Parcel{}, id).Error
}

// ExistsByTrackingCode checks tracking code uniqueness, soft-deleted
// rows included
func (r *ParcelRepository) ExistsByTrackingCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Parcel{}).
		Where("tracking_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// List lists parcels under the caller's visibility scope
func (r *ParcelRepository) List(ctx context.Context, scope domain.Scope, filter *ParcelFilter, offset, limit int) ([]*models.Parcel, int64, error) {
	var parcels []*models.Parcel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Parcel{})
	query = r.applyScope(query, scope)

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.SenderID != nil {
			query = query.Where("sender_id = ?", *filter.SenderID)
		}
		if filter.OriginStationID != nil {
			query = query.Where("origin_station_id = ?", *filter.OriginStationID)
		}
		if filter.DestinationStationID != nil {
			query = query.Where("destination_station_id = ?", *filter.DestinationStationID)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			query = query.Where("tracking_code LIKE ? OR recipient_name LIKE ? OR recipient_phone LIKE ?", like, like, like)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Sender").
		Preload("OriginStation").
		Preload("DestinationStation").
		Order("shipped_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&parcels).Error

	return parcels, total, err
}

// CountByStatus returns the total parcel count and a per-status
// breakdown, within the caller's scope
func (r *ParcelRepository) CountByStatus(ctx context.Context, scope domain.Scope) (int64, map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}

	var rows []row
	query := r.db.WithContext(ctx).Model(&models.Parcel{})
	query = r.applyScope(query, scope)

	err := query.
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return 0, nil, err
	}

	var total int64
	byStatus := make(map[string]int64, len(rows))
	for _, r := range rows {
		byStatus[r.Status] = r.Count
		total += r.Count
	}
	return total, byStatus, nil
}

// applyScope translates the visibility scope into query predicates:
// owners see parcels they sent, station staff see parcels passing
// through their stations.
func (r *ParcelRepository) applyScope(query *gorm.DB, scope domain.Scope) *gorm.DB {
	switch {
	case scope.IsOwnerScoped():
		return query.Where("sender_id = ?", *scope.OwnerID)
	case scope.IsStationScoped():
		return query.Where(
			"origin_station_id IN ? OR destination_station_id IN ?",
			scope.StationIDs, scope.StationIDs,
		)
	default:
		return query
	}
}
