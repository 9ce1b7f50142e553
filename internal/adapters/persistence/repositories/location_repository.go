package repositories

import (
	"context"

	"gorm.io/gorm"

	"colisso/internal/adapters/persistence/models"
)

// LocationRepository handles the Country -> City -> District -> Station
// reference hierarchy. One repository for the four lookup tables; they
// share the same read-mostly access pattern.
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// ---- Countries ----

func (r *LocationRepository) CreateCountry(ctx context.Context, country *models.Country) error {
	return r.db.WithContext(ctx).Create(country).Error
}

func (r *LocationRepository) GetCountry(ctx context.Context, id uint) (*models.Country, error) {
	var country models.Country
	if err := r.db.WithContext(ctx).First(&country, id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

func (r *LocationRepository) UpdateCountry(ctx context.Context, country *models.Country) error {
	return r.db.WithContext(ctx).Save(country).Error
}

func (r *LocationRepository) DeleteCountry(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Country{}, id).Error
}

func (r *LocationRepository) ListCountries(ctx context.Context, search string, offset, limit int) ([]*models.Country, int64, error) {
	var countries []*models.Country
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Country{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("name").Offset(offset).Limit(limit).Find(&countries).Error
	return countries, total, err
}

// ---- Cities ----

func (r *LocationRepository) CreateCity(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Create(city).Error
}

func (r *LocationRepository) GetCity(ctx context.Context, id uint) (*models.City, error) {
	var city models.City
	if err := r.db.WithContext(ctx).Preload("Country").First(&city, id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *LocationRepository) UpdateCity(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Save(city).Error
}

func (r *LocationRepository) DeleteCity(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.City{}, id).Error
}

func (r *LocationRepository) ListCities(ctx context.Context, countryID *uint, search string, offset, limit int) ([]*models.City, int64, error) {
	var cities []*models.City
	var total int64

	query := r.db.WithContext(ctx).Model(&models.City{})
	if countryID != nil {
		query = query.Where("country_id = ?", *countryID)
	}
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Country").Order("name").Offset(offset).Limit(limit).Find(&cities).Error
	return cities, total, err
}

// ---- Districts ----

func (r *LocationRepository) CreateDistrict(ctx context.Context, district *models.District) error {
	return r.db.WithContext(ctx).Create(district).Error
}

func (r *LocationRepository) GetDistrict(ctx context.Context, id uint) (*models.District, error) {
	var district models.District
	err := r.db.WithContext(ctx).
		Preload("City").
		Preload("City.Country").
		First(&district, id).Error
	if err != nil {
		return nil, err
	}
	return &district, nil
}

func (r *LocationRepository) UpdateDistrict(ctx context.Context, district *models.District) error {
	return r.db.WithContext(ctx).Save(district).Error
}

func (r *LocationRepository) DeleteDistrict(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.District{}, id).Error
}

func (r *LocationRepository) ListDistricts(ctx context.Context, cityID *uint, search string, offset, limit int) ([]*models.District, int64, error) {
	var districts []*models.District
	var total int64

	query := r.db.WithContext(ctx).Model(&models.District{})
	if cityID != nil {
		query = query.Where("city_id = ?", *cityID)
	}
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("City").Order("name").Offset(offset).Limit(limit).Find(&districts).Error
	return districts, total, err
}

// ---- Stations ----

func (r *LocationRepository) CreateStation(ctx context.Context, station *models.Station) error {
	return r.db.WithContext(ctx).Create(station).Error
}

func (r *LocationRepository) GetStation(ctx context.Context, id uint) (*models.Station, error) {
	var station models.Station
	err := r.db.WithContext(ctx).
		Preload("District").
		Preload("District.City").
		Preload("District.City.Country").
		First(&station, id).Error
	if err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *LocationRepository) UpdateStation(ctx context.Context, station *models.Station) error {
	return r.db.WithContext(ctx).Save(station).Error
}

func (r *LocationRepository) DeleteStation(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Station{}, id).Error
}

func (r *LocationRepository) ListStations(ctx context.Context, districtID *uint, search string, offset, limit int) ([]*models.Station, int64, error) {
	var stations []*models.Station
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Station{})
	if districtID != nil {
		query = query.Where("district_id = ?", *districtID)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR address LIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("District").
		Preload("District.City").
		Order("name").
		Offset(offset).
		Limit(limit).
		Find(&stations).Error
	return stations, total, err
}
