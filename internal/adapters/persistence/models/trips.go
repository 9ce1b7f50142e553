package models

import (
	"math"
	"time"

	"gorm.io/gorm"

	"colisso/internal/core/domain"
)

// Trip represents the trips table. SeatsReserved is only ever mutated
// through the conditional UPDATE in TripRepository so the counter can
// never exceed Capacity.
type Trip struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	OriginCity        string         `gorm:"size:100;not null;index" json:"origin_city"`
	DestinationCity   string         `gorm:"size:100;not null;index" json:"destination_city"`
	DepartureDate     time.Time      `gorm:"type:date;not null;index" json:"departure_date"`
	DepartureTime     string         `gorm:"size:8;not null" json:"departure_time"`
	EstimatedDuration int            `gorm:"not null" json:"estimated_duration"`
	BasePrice         float64        `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Capacity          int            `gorm:"not null" json:"capacity"`
	SeatsReserved     int            `gorm:"not null;default:0" json:"seats_reserved"`
	IsVIP             bool           `gorm:"default:false" json:"is_vip"`
	CompanyName       string         `gorm:"size:100" json:"company_name"`
	BusPlate          string         `gorm:"size:50" json:"bus_plate"`
	Status            string         `gorm:"size:20;not null;default:'planned';index" json:"status"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Trip) TableName() string {
	return "trips"
}

// AvailableSeats returns the seats still open for sale
func (t *Trip) AvailableSeats() int {
	remaining := t.Capacity - t.SeatsReserved
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull reports whether every seat is reserved
func (t *Trip) IsFull() bool {
	return t.SeatsReserved >= t.Capacity
}

// OccupancyRate returns the occupancy percentage rounded to 2 decimals
func (t *Trip) OccupancyRate() float64 {
	if t.Capacity == 0 {
		return 0
	}
	rate := float64(t.SeatsReserved) / float64(t.Capacity) * 100
	return math.Round(rate*100) / 100
}

// TripResponse DTO
type TripResponse struct {
	ID                uint      `json:"id"`
	OriginCity        string    `json:"origin_city"`
	DestinationCity   string    `json:"destination_city"`
	DepartureDate     time.Time `json:"departure_date"`
	DepartureTime     string    `json:"departure_time"`
	EstimatedDuration int       `json:"estimated_duration"`
	BasePrice         float64   `json:"base_price"`
	Capacity          int       `json:"capacity"`
	SeatsReserved     int       `json:"seats_reserved"`
	AvailableSeats    int       `json:"available_seats"`
	OccupancyRate     float64   `json:"occupancy_rate"`
	IsFull            bool      `json:"is_full"`
	IsVIP             bool      `json:"is_vip"`
	CompanyName       string    `json:"company_name,omitempty"`
	BusPlate          string    `json:"bus_plate,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

func (t *Trip) ToResponse() *TripResponse {
	return &TripResponse{
		ID:                t.ID,
		OriginCity:        t.OriginCity,
		DestinationCity:   t.DestinationCity,
		DepartureDate:     t.DepartureDate,
		DepartureTime:     t.DepartureTime,
		EstimatedDuration: t.EstimatedDuration,
		BasePrice:         t.BasePrice,
		Capacity:          t.Capacity,
		SeatsReserved:     t.SeatsReserved,
		AvailableSeats:    t.AvailableSeats(),
		OccupancyRate:     t.OccupancyRate(),
		IsFull:            t.IsFull(),
		IsVIP:             t.IsVIP,
		CompanyName:       t.CompanyName,
		BusPlate:          t.BusPlate,
		Status:            t.Status,
		CreatedAt:         t.CreatedAt,
	}
}

// Reservation represents the reservations table. The (trip, seat) pair
// is unique among non-cancelled reservations; enforced by the seat
// lookup in the service, not a plain column index, because a cancelled
// reservation frees its seat for reuse.
type Reservation struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TicketNumber    string         `gorm:"uniqueIndex;size:50;not null" json:"ticket_number"`
	TripID          uint           `gorm:"not null;index" json:"trip_id"`
	SeatNumber      int            `gorm:"not null" json:"seat_number"`
	ClientID        *uint          `gorm:"index" json:"client_id"`
	ClientFirstName string         `gorm:"size:100;not null" json:"client_first_name"`
	ClientLastName  string         `gorm:"size:100;not null" json:"client_last_name"`
	ClientPhone     string         `gorm:"size:20;not null;index" json:"client_phone"`
	ClientEmail     string         `gorm:"size:100" json:"client_email,omitempty"`
	Status          string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AmountPaid      float64        `gorm:"type:decimal(10,2);default:0" json:"amount_paid"`
	ReservedAt      time.Time      `gorm:"autoCreateTime" json:"reserved_at"`
	ValidatedAt     *time.Time     `json:"validated_at"`
	ValidatedBy     *uint          `json:"validated_by"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Trip      *Trip `gorm:"foreignKey:TripID" json:"trip,omitempty"`
	Client    *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Validator *User `gorm:"foreignKey:ValidatedBy" json:"validator,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// IsValidated reports whether the ticket has been validated
func (r *Reservation) IsValidated() bool {
	return domain.ReservationStatus(r.Status) == domain.ReservationValidated
}

// IsCancelled reports whether the reservation was cancelled
func (r *Reservation) IsCancelled() bool {
	return domain.ReservationStatus(r.Status) == domain.ReservationCancelled
}

// HoldsSeat reports whether the reservation still occupies its seat
func (r *Reservation) HoldsSeat() bool {
	return !r.IsCancelled()
}

// ReservationResponse DTO
type ReservationResponse struct {
	ID              uint       `json:"id"`
	TicketNumber    string     `json:"ticket_number"`
	TripID          uint       `json:"trip_id"`
	TripRoute       string     `json:"trip_route,omitempty"`
	SeatNumber      int        `json:"seat_number"`
	ClientID        *uint      `json:"client_id"`
	ClientFirstName string     `json:"client_first_name"`
	ClientLastName  string     `json:"client_last_name"`
	ClientPhone     string     `json:"client_phone"`
	ClientEmail     string     `json:"client_email,omitempty"`
	Status          string     `json:"status"`
	AmountPaid      float64    `json:"amount_paid"`
	ReservedAt      time.Time  `json:"reserved_at"`
	ValidatedAt     *time.Time `json:"validated_at"`
	ValidatorName   string     `json:"validator_name,omitempty"`
}

func (r *Reservation) ToResponse() *ReservationResponse {
	resp := &ReservationResponse{
		ID:              r.ID,
		TicketNumber:    r.TicketNumber,
		TripID:          r.TripID,
		SeatNumber:      r.SeatNumber,
		ClientID:        r.ClientID,
		ClientFirstName: r.ClientFirstName,
		ClientLastName:  r.ClientLastName,
		ClientPhone:     r.ClientPhone,
		ClientEmail:     r.ClientEmail,
		Status:          r.Status,
		AmountPaid:      r.AmountPaid,
		ReservedAt:      r.ReservedAt,
		ValidatedAt:     r.ValidatedAt,
	}
	if r.Trip != nil {
		resp.TripRoute = r.Trip.OriginCity + " - " + r.Trip.DestinationCity
	}
	if r.Validator != nil {
		resp.ValidatorName = r.Validator.FullName()
	}
	return resp
}
