package models

import (
	"time"

	"gorm.io/gorm"
)

// Reference data hierarchy: Country -> City -> District -> Station.
// Read-mostly lookup tables; stations are the only entities the
// workflows point at.

// Country represents the countries table
type Country struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Code      string         `gorm:"uniqueIndex;size:3;not null" json:"code"`
	DialCode  string         `gorm:"size:10" json:"dial_code"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Country) TableName() string {
	return "countries"
}

// City represents the cities table
type City struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:100;not null;uniqueIndex:idx_city_country,priority:1" json:"name"`
	CountryID  uint           `gorm:"not null;index;uniqueIndex:idx_city_country,priority:2" json:"country_id"`
	Population *int           `json:"population"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Country *Country `gorm:"foreignKey:CountryID" json:"country,omitempty"`
}

func (City) TableName() string {
	return "cities"
}

// District represents the districts table
type District struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null;uniqueIndex:idx_district_city,priority:1" json:"name"`
	CityID    uint           `gorm:"not null;index;uniqueIndex:idx_district_city,priority:2" json:"city_id"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	City *City `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

func (District) TableName() string {
	return "districts"
}

// Station represents the stations table (gares)
type Station struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:100;not null;uniqueIndex:idx_station_district,priority:1" json:"name"`
	DistrictID uint           `gorm:"not null;index;uniqueIndex:idx_station_district,priority:2" json:"district_id"`
	Address    string         `gorm:"type:text" json:"address"`
	Phone      string         `gorm:"size:20" json:"phone"`
	Latitude   *float64       `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude  *float64       `gorm:"type:decimal(9,6)" json:"longitude"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	District *District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

func (Station) TableName() string {
	return "stations"
}

// StationResponse DTO with the flattened location chain
type StationResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	DistrictID   uint      `json:"district_id"`
	DistrictName string    `json:"district_name,omitempty"`
	CityName     string    `json:"city_name,omitempty"`
	CountryName  string    `json:"country_name,omitempty"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Station) ToResponse() *StationResponse {
	resp := &StationResponse{
		ID:         s.ID,
		Name:       s.Name,
		DistrictID: s.DistrictID,
		Address:    s.Address,
		Phone:      s.Phone,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
	}
	if s.District != nil {
		resp.DistrictName = s.District.Name
		if s.District.City != nil {
			resp.CityName = s.District.City.Name
			if s.District.City.Country != nil {
				resp.CountryName = s.District.City.Country.Name
			}
		}
	}
	return resp
}
