package models

import (
	"time"

	"gorm.io/gorm"

	"colisso/internal/core/domain"
)

// Role represents the roles table (closed enumeration, seeded at boot)
type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"uniqueIndex;size:30;not null" json:"code"`
	Label       string         `gorm:"size:100;not null" json:"label"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Role) TableName() string {
	return "roles"
}

// User represents the users table. Phone number is the login identifier.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Phone     string         `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	FirstName string         `gorm:"size:100;not null" json:"first_name"`
	LastName  string         `gorm:"size:100;not null" json:"last_name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	RoleID    uint           `gorm:"not null;index" json:"role_id"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns "FirstName LastName"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RoleCode returns the user's role code as a domain value
func (u *User) RoleCode() domain.RoleCode {
	if u.Role == nil {
		return ""
	}
	return domain.RoleCode(u.Role.Code)
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Phone     string    `json:"phone"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	RoleID    uint      `json:"role_id"`
	RoleCode  string    `json:"role_code,omitempty"`
	RoleLabel string    `json:"role_label,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		RoleID:    u.RoleID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.Role != nil {
		resp.RoleCode = u.Role.Code
		resp.RoleLabel = u.Role.Label
	}
	return resp
}

// StationAssignment represents the station_assignments table, linking a
// staff user to the station they work at. The is_primary flag carries
// a "one primary station per user" intent that is deliberately not
// enforced by a constraint (see DESIGN.md).
type StationAssignment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:idx_assignment,priority:1" json:"user_id"`
	StationID uint           `gorm:"not null;index;uniqueIndex:idx_assignment,priority:2" json:"station_id"`
	StartDate time.Time      `gorm:"type:date;not null;uniqueIndex:idx_assignment,priority:3" json:"start_date"`
	EndDate   *time.Time     `gorm:"type:date" json:"end_date"`
	IsPrimary bool           `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Station *Station `gorm:"foreignKey:StationID" json:"station,omitempty"`
}

func (StationAssignment) TableName() string {
	return "station_assignments"
}

// StationAssignmentResponse DTO
type StationAssignmentResponse struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	UserName    string     `json:"user_name,omitempty"`
	StationID   uint       `json:"station_id"`
	StationName string     `json:"station_name,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsPrimary   bool       `json:"is_primary"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (a *StationAssignment) ToResponse() *StationAssignmentResponse {
	resp := &StationAssignmentResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		StationID: a.StationID,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		IsPrimary: a.IsPrimary,
		CreatedAt: a.CreatedAt,
	}
	if a.User != nil {
		resp.UserName = a.User.FullName()
	}
	if a.Station != nil {
		resp.StationName = a.Station.Name
	}
	return resp
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}
