package repositories

import (
	"context"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
)

// HistoryRepository handles the append-only parcel status audit trail.
// Rows are inserted and read, never updated or deleted.
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append inserts one audit row
func (r *HistoryRepository) Append(ctx context.Context, entry *models.StatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets one audit row
func (r *HistoryRepository) GetByID(ctx context.Context, id uint) (*models.StatusHistory, error) {
	var entry models.StatusHistory
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Preload("Location").
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByParcel returns a parcel's audit trail in insertion order
func (r *HistoryRepository) ListByParcel(ctx context.Context, parcelID uint) ([]*models.StatusHistory, error) {
	var entries []*models.StatusHistory
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Preload("Location").
		Where("parcel_id = ?", parcelID).
		Order("created_at, id").
		Find(&entries).Error
	return entries, err
}

// List lists audit rows with pagination, newest first
func (r *HistoryRepository) List(ctx context.Context, parcelID *uint, offset, limit int) ([]*models.StatusHistory, int64, error) {
	var entries []*models.StatusHistory
	var total int64

	query := r.db.WithContext(ctx).Model(&models.StatusHistory{})
	if parcelID != nil {
		query = query.Where("parcel_id = ?", *parcelID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Actor").
		Preload("Location").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}
