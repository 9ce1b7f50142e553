package repositories

import (
	"context"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *UserFilter, offset, limit int) ([]*models.User, int64, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// ReservationStore is the slice of reservation persistence the booking
// service depends on
type ReservationStore interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	GetByTicketNumber(ctx context.Context, ticketNumber string) (*models.Reservation, error)
	Update(ctx context.Context, reservation *models.Reservation) error
	List(ctx context.Context, scope domain.Scope, filter *ReservationFilter, offset, limit int) ([]*models.Reservation, int64, error)
	SeatTaken(ctx context.Context, tripID uint, seatNumber int) (bool, error)
}

// TripStore covers the trip lookup and seat counter operations bookings use
type TripStore interface {
	GetByID(ctx context.Context, id uint) (*models.Trip, error)
	ReserveSeat(ctx context.Context, tripID uint) (bool, error)
	ReleaseSeat(ctx context.Context, tripID uint) error
}

// ParcelStore is the slice of parcel persistence the parcel service
// depends on
type ParcelStore interface {
	Create(ctx context.Context, parcel *models.Parcel) error
	GetByID(ctx context.Context, id uint) (*models.Parcel, error)
	GetByTrackingCode(ctx context.Context, code string) (*models.Parcel, error)
	Update(ctx context.Context, parcel *models.Parcel) error
	Delete(ctx context.Context, id uint) error
	ExistsByTrackingCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, scope domain.Scope, filter *ParcelFilter, offset, limit int) ([]*models.Parcel, int64, error)
	CountByStatus(ctx context.Context, scope domain.Scope) (int64, map[string]int64, error)
}

// HistoryStore is the append-only status history log
type HistoryStore interface {
	Append(ctx context.Context, entry *models.StatusHistory) error
	GetByID(ctx context.Context, id uint) (*models.StatusHistory, error)
	ListByParcel(ctx context.Context, parcelID uint) ([]*models.StatusHistory, error)
	List(ctx context.Context, parcelID *uint, offset, limit int) ([]*models.StatusHistory, int64, error)
}

// StationGetter resolves stations for existence checks
type StationGetter interface {
	GetStation(ctx context.Context, id uint) (*models.Station, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
}
