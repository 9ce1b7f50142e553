package models

import (
	"time"

	"gorm.io/gorm"
)

// FundRequest represents the fund_requests table. A station manager
// asks for a cash transfer; an admin approves or rejects it.
type FundRequest struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RequesterID  uint           `gorm:"not null;index" json:"requester_id"`
	StationID    uint           `gorm:"not null;index" json:"station_id"`
	Amount       float64        `gorm:"type:decimal(10,2);not null" json:"amount"`
	Reason       string         `gorm:"type:text;not null" json:"reason"`
	Status       string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RequestedAt  time.Time      `gorm:"autoCreateTime" json:"requested_at"`
	ProcessedAt  *time.Time     `json:"processed_at"`
	ProcessedBy  *uint          `json:"processed_by"`
	AdminComment string         `gorm:"type:text" json:"admin_comment,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Requester *User    `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Station   *Station `gorm:"foreignKey:StationID" json:"station,omitempty"`
	Processor *User    `gorm:"foreignKey:ProcessedBy" json:"processor,omitempty"`
}

func (FundRequest) TableName() string {
	return "fund_requests"
}

// FundRequestResponse DTO
type FundRequestResponse struct {
	ID            uint       `json:"id"`
	RequesterID   uint       `json:"requester_id"`
	RequesterName string     `json:"requester_name,omitempty"`
	StationID     uint       `json:"station_id"`
	StationName   string     `json:"station_name,omitempty"`
	Amount        float64    `json:"amount"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	RequestedAt   time.Time  `json:"requested_at"`
	ProcessedAt   *time.Time `json:"processed_at"`
	ProcessorName string     `json:"processor_name,omitempty"`
	AdminComment  string     `json:"admin_comment,omitempty"`
}

func (f *FundRequest) ToResponse() *FundRequestResponse {
	resp := &FundRequestResponse{
		ID:           f.ID,
		RequesterID:  f.RequesterID,
		StationID:    f.StationID,
		Amount:       f.Amount,
		Reason:       f.Reason,
		Status:       f.Status,
		RequestedAt:  f.RequestedAt,
		ProcessedAt:  f.ProcessedAt,
		AdminComment: f.AdminComment,
	}
	if f.Requester != nil {
		resp.RequesterName = f.Requester.FullName()
	}
	if f.Station != nil {
		resp.StationName = f.Station.Name
	}
	if f.Processor != nil {
		resp.ProcessorName = f.Processor.FullName()
	}
	return resp
}

// StationMember represents the station_members table: the membership
// roster a manager maintains for their station.
type StationMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_member_station,priority:1" json:"user_id"`
	StationID uint      `gorm:"not null;index;uniqueIndex:idx_member_station,priority:2" json:"station_id"`
	AddedByID *uint     `json:"added_by_id"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Station *Station `gorm:"foreignKey:StationID" json:"station,omitempty"`
	AddedBy *User    `gorm:"foreignKey:AddedByID" json:"added_by,omitempty"`
}

func (StationMember) TableName() string {
	return "station_members"
}

// StationMemberResponse DTO
type StationMemberResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	UserPhone   string    `json:"user_phone,omitempty"`
	StationID   uint      `json:"station_id"`
	StationName string    `json:"station_name,omitempty"`
	AddedByName string    `json:"added_by_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m *StationMember) ToResponse() *StationMemberResponse {
	resp := &StationMemberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		StationID: m.StationID,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		resp.UserName = m.User.FullName()
		resp.UserPhone = m.User.Phone
	}
	if m.Station != nil {
		resp.StationName = m.Station.Name
	}
	if m.AddedBy != nil {
		resp.AddedByName = m.AddedBy.FullName()
	}
	return resp
}
