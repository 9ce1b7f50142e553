package services

import (
	"context"
	"errors"
	"strings"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Location service errors
var (
	ErrCountryNotFound  = errors.New("country not found")
	ErrCityNotFound     = errors.New("city not found")
	ErrDistrictNotFound = errors.New("district not found")
	ErrLocationInUse    = errors.New("location still has dependent records")
	ErrDuplicateName    = errors.New("a record with this name already exists")
)

// LocationService handles the country/city/district/station hierarchy
type LocationService struct {
	locationRepo *repositories.LocationRepository
}

// NewLocationService creates a new location service
func NewLocationService(locationRepo *repositories.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

// CountryInput represents country create/update input
type CountryInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Code     string `json:"code" validate:"required,len=2|len=3"`
	DialCode string `json:"dial_code"`
}

// CityInput represents city create/update input
type CityInput struct {
	Name       string `json:"name" validate:"required,max=100"`
	CountryID  uint   `json:"country_id" validate:"required"`
	Population *int   `json:"population"`
}

// DistrictInput represents district create/update input
type DistrictInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	CityID uint   `json:"city_id" validate:"required"`
}

// StationInput represents station create/update input
type StationInput struct {
	Name       string   `json:"name" validate:"required,max=100"`
	DistrictID uint     `json:"district_id" validate:"required"`
	Address    string   `json:"address"`
	Phone      string   `json:"phone"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

func isDuplicateErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}

// CreateCountry creates a new country
func (s *LocationService) CreateCountry(ctx context.Context, input *CountryInput) (*models.Country, error) {
	country := &models.Country{
		Name:     input.Name,
		Code:     strings.ToUpper(input.Code),
		DialCode: input.DialCode,
	}
	if err := s.locationRepo.CreateCountry(ctx, country); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return country, nil
}

// GetCountry gets a country by ID
func (s *LocationService) GetCountry(ctx context.Context, id uint) (*models.Country, error) {
	country, err := s.locationRepo.GetCountry(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return country, nil
}

// UpdateCountry updates a country
func (s *LocationService) UpdateCountry(ctx context.Context, id uint, input *CountryInput) (*models.Country, error) {
	country, err := s.GetCountry(ctx, id)
	if err != nil {
		return nil, err
	}

	country.Name = input.Name
	country.Code = strings.ToUpper(input.Code)
	country.DialCode = input.DialCode

	if err := s.locationRepo.UpdateCountry(ctx, country); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return country, nil
}

// DeleteCountry soft-deletes a country
func (s *LocationService) DeleteCountry(ctx context.Context, id uint) error {
	if _, err := s.GetCountry(ctx, id); err != nil {
		return err
	}
	cities, _, err := s.locationRepo.ListCities(ctx, &id, "", 0, 1)
	if err != nil {
		return err
	}
	if len(cities) > 0 {
		return ErrLocationInUse
	}
	return s.locationRepo.DeleteCountry(ctx, id)
}

// ListCountries lists countries with pagination
func (s *LocationService) ListCountries(ctx context.Context, search string, offset, limit int) ([]*models.Country, int64, error) {
	return s.locationRepo.ListCountries(ctx, search, offset, limit)
}

// CreateCity creates a new city
func (s *LocationService) CreateCity(ctx context.Context, input *CityInput) (*models.City, error) {
	if _, err := s.GetCountry(ctx, input.CountryID); err != nil {
		return nil, err
	}

	city := &models.City{
		Name:       input.Name,
		CountryID:  input.CountryID,
		Population: input.Population,
	}
	if err := s.locationRepo.CreateCity(ctx, city); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return s.locationRepo.GetCity(ctx, city.ID)
}

// GetCity gets a city by ID
func (s *LocationService) GetCity(ctx context.Context, id uint) (*models.City, error) {
	city, err := s.locationRepo.GetCity(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return city, nil
}

// UpdateCity updates a city
func (s *LocationService) UpdateCity(ctx context.Context, id uint, input *CityInput) (*models.City, error) {
	city, err := s.GetCity(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CountryID != city.CountryID {
		if _, err := s.GetCountry(ctx, input.CountryID); err != nil {
			return nil, err
		}
		city.CountryID = input.CountryID
	}

	city.Name = input.Name
	city.Population = input.Population

	if err := s.locationRepo.UpdateCity(ctx, city); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return s.locationRepo.GetCity(ctx, city.ID)
}

// DeleteCity soft-deletes a city
func (s *LocationService) DeleteCity(ctx context.Context, id uint) error {
	if _, err := s.GetCity(ctx, id); err != nil {
		return err
	}
	districts, _, err := s.locationRepo.ListDistricts(ctx, &id, "", 0, 1)
	if err != nil {
		return err
	}
	if len(districts) > 0 {
		return ErrLocationInUse
	}
	return s.locationRepo.DeleteCity(ctx, id)
}

// ListCities lists cities with pagination
func (s *LocationService) ListCities(ctx context.Context, countryID *uint, search string, offset, limit int) ([]*models.City, int64, error) {
	return s.locationRepo.ListCities(ctx, countryID, search, offset, limit)
}

// CreateDistrict creates a new district
func (s *LocationService) CreateDistrict(ctx context.Context, input *DistrictInput) (*models.District, error) {
	if _, err := s.GetCity(ctx, input.CityID); err != nil {
		return nil, err
	}

	district := &models.District{
		Name:   input.Name,
		CityID: input.CityID,
	}
	if err := s.locationRepo.CreateDistrict(ctx, district); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return s.locationRepo.GetDistrict(ctx, district.ID)
}

// GetDistrict gets a district by ID
func (s *LocationService) GetDistrict(ctx context.Context, id uint) (*models.District, error) {
	district, err := s.locationRepo.GetDistrict(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistrictNotFound
		}
		return nil, err
	}
	return district, nil
}

// UpdateDistrict updates a district
func (s *LocationService) UpdateDistrict(ctx context.Context, id uint, input *DistrictInput) (*models.District, error) {
	district, err := s.GetDistrict(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CityID != district.CityID {
		if _, err := s.GetCity(ctx, input.CityID); err != nil {
			return nil, err
		}
		district.CityID = input.CityID
	}

	district.Name = input.Name

	if err := s.locationRepo.UpdateDistrict(ctx, district); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return s.locationRepo.GetDistrict(ctx, district.ID)
}

// DeleteDistrict soft-deletes a district
func (s *LocationService) DeleteDistrict(ctx context.Context, id uint) error {
	if _, err := s.GetDistrict(ctx, id); err != nil {
		return err
	}
	stations, _, err := s.locationRepo.ListStations(ctx, &id, "", 0, 1)
	if err != nil {
		return err
	}
	if len(stations) > 0 {
		return ErrLocationInUse
	}
	return s.locationRepo.DeleteDistrict(ctx, id)
}

// ListDistricts lists districts with pagination
func (s *LocationService) ListDistricts(ctx context.Context, cityID *uint, search string, offset, limit int) ([]*models.District, int64, error) {
	return s.locationRepo.ListDistricts(ctx, cityID, search, offset, limit)
}

// CreateStation creates a new station
func (s *LocationService) CreateStation(ctx context.Context, input *StationInput) (*models.Station, error) {
	if _, err := s.GetDistrict(ctx, input.DistrictID); err != nil {
		return nil, err
	}

	station := &models.Station{
		Name:       input.Name,
		DistrictID: input.DistrictID,
		Address:    input.Address,
		Phone:      input.Phone,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
	}
	if err := s.locationRepo.CreateStation(ctx, station); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return s.locationRepo.GetStation(ctx, station.ID)
}

// GetStation gets a station by ID
func (s *LocationService) GetStation(ctx context.Context, id uint) (*models.Station, error) {
	station, err := s.locationRepo.GetStation(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

// UpdateStation updates a station
func (s *LocationService) UpdateStation(ctx context.Context, id uint, input *StationInput) (*models.Station, error) {
	station, err := s.GetStation(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.DistrictID != station.DistrictID {
		if _, err := s.GetDistrict(ctx, input.DistrictID); err != nil {
			return nil, err
		}
		station.DistrictID = input.DistrictID
	}

	station.Name = input.Name
	station.Address = input.Address
	station.Phone = input.Phone
	station.Latitude = input.Latitude
	station.Longitude = input.Longitude

	if err := s.locationRepo.UpdateStation(ctx, station); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return s.locationRepo.GetStation(ctx, station.ID)
}

// DeleteStation soft-deletes a station
func (s *LocationService) DeleteStation(ctx context.Context, id uint) error {
	if _, err := s.GetStation(ctx, id); err != nil {
		return err
	}
	return s.locationRepo.DeleteStation(ctx, id)
}

// ListStations lists stations with pagination
func (s *LocationService) ListStations(ctx context.Context, districtID *uint, search string, offset, limit int) ([]*models.Station, int64, error) {
	return s.locationRepo.ListStations(ctx, districtID, search, offset, limit)
}
