package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
)

// TripFilter narrows trip list queries
type TripFilter struct {
	Status          string
	DepartureDate   *time.Time
	OriginCity      string
	DestinationCity string
	IsVIP           *bool
	AvailableOnly   bool
}

// TripRepository handles trip data access
type TripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create creates a new trip
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

// GetByID gets a trip by ID
func (r *TripRepository) GetByID(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).First(&trip, id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// Update saves changes to a trip
func (r *TripRepository) Update(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

// Delete soft-deletes a trip
func (r *TripRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Trip{}, id).Error
}

// List lists trips with filters and pagination
func (r *TripRepository) List(ctx context.Context, filter *TripFilter, offset, limit int) ([]*models.Trip, int64, error) {
	var trips []*models.Trip
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Trip{})
	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.DepartureDate != nil {
			query = query.Where("departure_date = ?", filter.DepartureDate.Format("2006-01-02"))
		}
		if filter.OriginCity != "" {
			query = query.Where("origin_city LIKE ?", "%"+filter.OriginCity+"%")
		}
		if filter.DestinationCity != "" {
			query = query.Where("destination_city LIKE ?", "%"+filter.DestinationCity+"%")
		}
		if filter.IsVIP != nil {
			query = query.Where("is_vip = ?", *filter.IsVIP)
		}
		if filter.AvailableOnly {
			query = query.Where("seats_reserved < capacity")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("departure_date DESC, departure_time DESC").
		Offset(offset).
		Limit(limit).
		Find(&trips).Error

	return trips, total, err
}

// ReserveSeat increments the seat counter with a conditional UPDATE so
// the counter cannot pass capacity even under concurrent requests.
// Returns false when the trip is already full.
func (r *TripRepository) ReserveSeat(ctx context.Context, tripID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id = ?", tripID).
		Where("seats_reserved < capacity").
		UpdateColumn("seats_reserved", gorm.Expr("seats_reserved + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseSeat decrements the seat counter, flooring at zero
func (r *TripRepository) ReleaseSeat(ctx context.Context, tripID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id = ?", tripID).
		Where("seats_reserved > 0").
		UpdateColumn("seats_reserved", gorm.Expr("seats_reserved - 1")).Error
}
