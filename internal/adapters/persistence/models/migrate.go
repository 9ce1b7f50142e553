package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every application table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&RefreshToken{},
		&Country{},
		&City{},
		&District{},
		&Station{},
		&StationAssignment{},
		&Trip{},
		&Reservation{},
		&Parcel{},
		&Delivery{},
		&StatusHistory{},
		&FundRequest{},
		&StationMember{},
	)
}
