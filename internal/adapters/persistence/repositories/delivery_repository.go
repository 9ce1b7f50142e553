package repositories

import (
	"context"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/core/domain"
)

// DeliveryFilter narrows delivery list queries
type DeliveryFilter struct {
	Status    string
	CourierID *uint
	ParcelID  *uint
}

// DeliveryRepository handles delivery data access
type DeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

// Create creates a new delivery
func (r *DeliveryRepository) Create(ctx context.Context, delivery *models.Delivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

// GetByID gets a delivery with its parcel and courier
func (r *DeliveryRepository) GetByID(ctx context.Context, id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Preload("Parcel").
		Preload("Parcel.DestinationStation").
		Preload("Courier").
		First(&delivery, id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// Update saves changes to a delivery
func (r *DeliveryRepository) Update(ctx context.Context, delivery *models.Delivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}

// Delete soft-deletes a delivery
func (r *DeliveryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Delivery{}, id).Error
}

// List lists deliveries with filters and pagination. Couriers see only
// deliveries assigned to them; other staff see every delivery.
func (r *DeliveryRepository) List(ctx context.Context, caller domain.Caller, filter *DeliveryFilter, offset, limit int) ([]*models.Delivery, int64, error) {
	var deliveries []*models.Delivery
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Delivery{})
	if caller.Role == domain.RoleCourier {
		query = query.Where("courier_id = ?", caller.UserID)
	}

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.CourierID != nil {
			query = query.Where("courier_id = ?", *filter.CourierID)
		}
		if filter.ParcelID != nil {
			query = query.Where("parcel_id = ?", *filter.ParcelID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Parcel").
		Preload("Courier").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&deliveries).Error

	return deliveries, total, err
}

// ListAvailable lists unassigned pending deliveries
func (r *DeliveryRepository) ListAvailable(ctx context.Context) ([]*models.Delivery, error) {
	var deliveries []*models.Delivery
	err := r.db.WithContext(ctx).
		Preload("Parcel").
		Where("status = ?", string(domain.DeliveryPending)).
		Order("created_at").
		Find(&deliveries).Error
	return deliveries, err
}
