package models

import (
	"time"

	"gorm.io/gorm"
)

// Parcel represents the parcels table (colis)
type Parcel struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	TrackingCode         string         `gorm:"uniqueIndex;size:50;not null" json:"tracking_code"`
	Description          string         `gorm:"type:text;not null" json:"description"`
	Weight               float64        `gorm:"type:decimal(8,2);not null" json:"weight"`
	DeclaredValue        *float64       `gorm:"type:decimal(10,2)" json:"declared_value"`
	SenderID             uint           `gorm:"not null;index" json:"sender_id"`
	RecipientName        string         `gorm:"size:200;not null" json:"recipient_name"`
	RecipientPhone       string         `gorm:"size:20;not null;index" json:"recipient_phone"`
	RecipientAddress     string         `gorm:"type:text;not null" json:"recipient_address"`
	OriginStationID      uint           `gorm:"not null;index" json:"origin_station_id"`
	DestinationStationID uint           `gorm:"not null;index" json:"destination_station_id"`
	Status               string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Price                float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	AmountPaid           float64        `gorm:"type:decimal(10,2);default:0" json:"amount_paid"`
	ShippedAt            time.Time      `gorm:"autoCreateTime" json:"shipped_at"`
	ExpectedArrival      *time.Time     `gorm:"type:date" json:"expected_arrival"`
	ArrivedAt            *time.Time     `json:"arrived_at"`
	DeliveredAt          *time.Time     `json:"delivered_at"`
	Notes                string         `gorm:"type:text" json:"notes,omitempty"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	Sender             *User    `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	OriginStation      *Station `gorm:"foreignKey:OriginStationID" json:"origin_station,omitempty"`
	DestinationStation *Station `gorm:"foreignKey:DestinationStationID" json:"destination_station,omitempty"`
}

func (Parcel) TableName() string {
	return "parcels"
}

// IsFullyPaid reports whether the paid amount covers the price
func (p *Parcel) IsFullyPaid() bool {
	return p.AmountPaid >= p.Price
}

// ParcelResponse DTO
type ParcelResponse struct {
	ID                   uint       `json:"id"`
	TrackingCode         string     `json:"tracking_code"`
	Description          string     `json:"description"`
	Weight               float64    `json:"weight"`
	DeclaredValue        *float64   `json:"declared_value"`
	SenderID             uint       `json:"sender_id"`
	SenderName           string     `json:"sender_name,omitempty"`
	RecipientName        string     `json:"recipient_name"`
	RecipientPhone       string     `json:"recipient_phone"`
	RecipientAddress     string     `json:"recipient_address"`
	OriginStationID      uint       `json:"origin_station_id"`
	OriginStationName    string     `json:"origin_station_name,omitempty"`
	DestinationStationID uint       `json:"destination_station_id"`
	DestinationName      string     `json:"destination_station_name,omitempty"`
	Status               string     `json:"status"`
	Price                float64    `json:"price"`
	AmountPaid           float64    `json:"amount_paid"`
	IsFullyPaid          bool       `json:"is_fully_paid"`
	ShippedAt            time.Time  `json:"shipped_at"`
	ExpectedArrival      *time.Time `json:"expected_arrival"`
	ArrivedAt            *time.Time `json:"arrived_at"`
	DeliveredAt          *time.Time `json:"delivered_at"`
	Notes                string     `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func (p *Parcel) ToResponse() *ParcelResponse {
	resp := &ParcelResponse{
		ID:                   p.ID,
		TrackingCode:         p.TrackingCode,
		Description:          p.Description,
		Weight:               p.Weight,
		DeclaredValue:        p.DeclaredValue,
		SenderID:             p.SenderID,
		RecipientName:        p.RecipientName,
		RecipientPhone:       p.RecipientPhone,
		RecipientAddress:     p.RecipientAddress,
		OriginStationID:      p.OriginStationID,
		DestinationStationID: p.DestinationStationID,
		Status:               p.Status,
		Price:                p.Price,
		AmountPaid:           p.AmountPaid,
		IsFullyPaid:          p.IsFullyPaid(),
		ShippedAt:            p.ShippedAt,
		ExpectedArrival:      p.ExpectedArrival,
		ArrivedAt:            p.ArrivedAt,
		DeliveredAt:          p.DeliveredAt,
		Notes:                p.Notes,
		CreatedAt:            p.CreatedAt,
	}
	if p.Sender != nil {
		resp.SenderName = p.Sender.FullName()
	}
	if p.OriginStation != nil {
		resp.OriginStationName = p.OriginStation.Name
	}
	if p.DestinationStation != nil {
		resp.DestinationName = p.DestinationStation.Name
	}
	return resp
}

// TrackingResponse is the public projection returned by the tracking
// endpoint. Sender and recipient contact details are deliberately
// absent.
type TrackingResponse struct {
	TrackingCode    string                   `json:"tracking_code"`
	Status          string                   `json:"status"`
	OriginStation   string                   `json:"origin_station,omitempty"`
	DestinationName string                   `json:"destination_station,omitempty"`
	ShippedAt       time.Time                `json:"shipped_at"`
	ExpectedArrival *time.Time               `json:"expected_arrival"`
	ArrivedAt       *time.Time               `json:"arrived_at"`
	DeliveredAt     *time.Time               `json:"delivered_at"`
	History         []*StatusHistoryResponse `json:"history"`
}

func (p *Parcel) ToTrackingResponse(history []*StatusHistory) *TrackingResponse {
	resp := &TrackingResponse{
		TrackingCode:    p.TrackingCode,
		Status:          p.Status,
		ShippedAt:       p.ShippedAt,
		ExpectedArrival: p.ExpectedArrival,
		ArrivedAt:       p.ArrivedAt,
		DeliveredAt:     p.DeliveredAt,
		History:         make([]*StatusHistoryResponse, 0, len(history)),
	}
	if p.OriginStation != nil {
		resp.OriginStation = p.OriginStation.Name
	}
	if p.DestinationStation != nil {
		resp.DestinationName = p.DestinationStation.Name
	}
	for _, h := range history {
		resp.History = append(resp.History, h.ToResponse())
	}
	return resp
}

// Delivery represents the deliveries table. A parcel may accumulate
// several delivery attempts; each row is one attempt.
type Delivery struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ParcelID           uint           `gorm:"not null;index" json:"parcel_id"`
	CourierID          *uint          `gorm:"index" json:"courier_id"`
	Status             string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AssignedAt         *time.Time     `json:"assigned_at"`
	StartedAt          *time.Time     `json:"started_at"`
	CompletedAt        *time.Time     `json:"completed_at"`
	RecipientSignature string         `gorm:"type:text" json:"recipient_signature,omitempty"`
	PhotoURL           string         `gorm:"size:500" json:"photo_url,omitempty"`
	CourierComment     string         `gorm:"type:text" json:"courier_comment,omitempty"`
	FailureReason      string         `gorm:"type:text" json:"failure_reason,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Parcel  *Parcel `gorm:"foreignKey:ParcelID" json:"parcel,omitempty"`
	Courier *User   `gorm:"foreignKey:CourierID" json:"courier,omitempty"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

// DeliveryResponse DTO
type DeliveryResponse struct {
	ID                 uint       `json:"id"`
	ParcelID           uint       `json:"parcel_id"`
	TrackingCode       string     `json:"tracking_code,omitempty"`
	CourierID          *uint      `json:"courier_id"`
	CourierName        string     `json:"courier_name,omitempty"`
	Status             string     `json:"status"`
	AssignedAt         *time.Time `json:"assigned_at"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	RecipientSignature string     `json:"recipient_signature,omitempty"`
	PhotoURL           string     `json:"photo_url,omitempty"`
	CourierComment     string     `json:"courier_comment,omitempty"`
	FailureReason      string     `json:"failure_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (d *Delivery) ToResponse() *DeliveryResponse {
	resp := &DeliveryResponse{
		ID:                 d.ID,
		ParcelID:           d.ParcelID,
		CourierID:          d.CourierID,
		Status:             d.Status,
		AssignedAt:         d.AssignedAt,
		StartedAt:          d.StartedAt,
		CompletedAt:        d.CompletedAt,
		RecipientSignature: d.RecipientSignature,
		PhotoURL:           d.PhotoURL,
		CourierComment:     d.CourierComment,
		FailureReason:      d.FailureReason,
		CreatedAt:          d.CreatedAt,
	}
	if d.Parcel != nil {
		resp.TrackingCode = d.Parcel.TrackingCode
	}
	if d.Courier != nil {
		resp.CourierName = d.Courier.FullName()
	}
	return resp
}

// StatusHistory represents the status_histories table. Rows are
// append-only: no UpdatedAt, never mutated or deleted after insert.
type StatusHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ParcelID   uint      `gorm:"not null;index" json:"parcel_id"`
	OldStatus  *string   `gorm:"size:20" json:"old_status"`
	NewStatus  string    `gorm:"size:20;not null" json:"new_status"`
	ActorID    *uint     `json:"actor_id"`
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
	LocationID *uint     `json:"location_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Parcel   *Parcel  `gorm:"foreignKey:ParcelID" json:"parcel,omitempty"`
	Actor    *User    `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Location *Station `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

func (StatusHistory) TableName() string {
	return "status_histories"
}

// StatusHistoryResponse DTO
type StatusHistoryResponse struct {
	ID           uint      `json:"id"`
	ParcelID     uint      `json:"parcel_id"`
	OldStatus    *string   `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	ActorName    string    `json:"actor_name,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *StatusHistory) ToResponse() *StatusHistoryResponse {
	resp := &StatusHistoryResponse{
		ID:        h.ID,
		ParcelID:  h.ParcelID,
		OldStatus: h.OldStatus,
		NewStatus: h.NewStatus,
		Comment:   h.Comment,
		CreatedAt: h.CreatedAt,
	}
	if h.Actor != nil {
		resp.ActorName = h.Actor.FullName()
	}
	if h.Location != nil {
		resp.LocationName = h.Location.Name
	}
	return resp
}
