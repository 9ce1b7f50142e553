package handlers

import (
	"errors"
	"strconv"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/core/services"
	"colisso/internal/pkg/pagination"
	"colisso/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LocationHandler handles the country/city/district/station endpoints
type LocationHandler struct {
	locationService *services.LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *LocationHandler) handleLocationError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrCountryNotFound):
		return response.NotFound(c, "Country not found")
	case errors.Is(err, services.ErrCityNotFound):
		return response.NotFound(c, "City not found")
	case errors.Is(err, services.ErrDistrictNotFound):
		return response.NotFound(c, "District not found")
	case errors.Is(err, services.ErrStationNotFound):
		return response.NotFound(c, "Station not found")
	case errors.Is(err, services.ErrDuplicateName):
		return response.Conflict(c, "A record with this name already exists")
	case errors.Is(err, services.ErrLocationInUse):
		return response.Conflict(c, "Location still has dependent records")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// ListCountries handles listing countries
// @Summary List countries
// @Tags Locations
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {object} response.Response
// @Router /locations/countries [get]
func (h *LocationHandler) ListCountries(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	countries, total, err := h.locationService.ListCountries(c.Context(), c.Query("search"), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list countries")
	}
	return response.Success(c, "Countries retrieved successfully", pagination.NewResponse(countries, params, total))
}

// CreateCountry handles creating a country (admin)
// @Summary Create country
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CountryInput true "Country data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /locations/countries [post]
func (h *LocationHandler) CreateCountry(c *fiber.Ctx) error {
	var input services.CountryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.Code == "" {
		return response.BadRequest(c, "Name and code are required")
	}

	country, err := h.locationService.CreateCountry(c.Context(), &input)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to create country")
	}
	return response.Created(c, "Country created successfully", country)
}

// GetCountry handles getting a country
// @Summary Get country
// @Tags Locations
// @Produce json
// @Param id path int true "Country ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /locations/countries/{id} [get]
func (h *LocationHandler) GetCountry(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid country ID")
	}
	country, err := h.locationService.GetCountry(c.Context(), id)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to get country")
	}
	return response.Success(c, "Country retrieved successfully", country)
}

// UpdateCountry handles updating a country (admin)
// @Summary Update country
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Country ID"
// @Param body body services.CountryInput true "Country data"
// @Success 200 {object} response.Response
// @Router /locations/countries/{id} [put]
func (h *LocationHandler) UpdateCountry(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid country ID")
	}
	var input services.CountryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	country, err := h.locationService.UpdateCountry(c.Context(), id, &input)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to update country")
	}
	return response.Success(c, "Country updated successfully", country)
}

// DeleteCountry handles deleting a country (admin)
// @Summary Delete country
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Country ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /locations/countries/{id} [delete]
func (h *LocationHandler) DeleteCountry(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid country ID")
	}
	if err := h.locationService.DeleteCountry(c.Context(), id); err != nil {
		return h.handleLocationError(c, err, "Failed to delete country")
	}
	return response.Success(c, "Country deleted successfully", nil)
}

// ListCities handles listing cities
// @Summary List cities
// @Tags Locations
// @Produce json
// @Param country_id query int false "Filter by country"
// @Param search query string false "Search by name"
// @Success 200 {object} response.Response
// @Router /locations/cities [get]
func (h *LocationHandler) ListCities(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	var countryID *uint
	if v := c.QueryInt("country_id"); v > 0 {
		id := uint(v)
		countryID = &id
	}
	cities, total, err := h.locationService.ListCities(c.Context(), countryID, c.Query("search"), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list cities")
	}
	return response.Success(c, "Cities retrieved successfully", pagination.NewResponse(cities, params, total))
}

// CreateCity handles creating a city (admin)
// @Summary Create city
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CityInput true "City data"
// @Success 201 {object} response.Response
// @Router /locations/cities [post]
func (h *LocationHandler) CreateCity(c *fiber.Ctx) error {
	var input services.CityInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.CountryID == 0 {
		return response.BadRequest(c, "Name and country ID are required")
	}

	city, err := h.locationService.CreateCity(c.Context(), &input)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to create city")
	}
	return response.Created(c, "City created successfully", city)
}

// GetCity handles getting a city
// @Summary Get city
// @Tags Locations
// @Produce json
// @Param id path int true "City ID"
// @Success 200 {object} response.Response
// @Router /locations/cities/{id} [get]
func (h *LocationHandler) GetCity(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid city ID")
	}
	city, err := h.locationService.GetCity(c.Context(), id)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to get city")
	}
	return response.Success(c, "City retrieved successfully", city)
}

// UpdateCity handles updating a city (admin)
// @Summary Update city
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "City ID"
// @Param body body services.CityInput true "City data"
// @Success 200 {object} response.Response
// @Router /locations/cities/{id} [put]
func (h *LocationHandler) UpdateCity(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid city ID")
	}
	var input services.CityInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	city, err := h.locationService.UpdateCity(c.Context(), id, &input)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to update city")
	}
	return response.Success(c, "City updated successfully", city)
}

// DeleteCity handles deleting a city (admin)
// @Summary Delete city
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "City ID"
// @Success 200 {object} response.Response
// @Router /locations/cities/{id} [delete]
func (h *LocationHandler) DeleteCity(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid city ID")
	}
	if err := h.locationService.DeleteCity(c.Context(), id); err != nil {
		return h.handleLocationError(c, err, "Failed to delete city")
	}
	return response.Success(c, "City deleted successfully", nil)
}

// ListDistricts handles listing districts
// @Summary List districts
// @Tags Locations
// @Produce json
// @Param city_id query int false "Filter by city"
// @Param search query string false "Search by name"
// @Success 200 {object} response.Response
// @Router /locations/districts [get]
func (h *LocationHandler) ListDistricts(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	var cityID *uint
	if v := c.QueryInt("city_id"); v > 0 {
		id := uint(v)
		cityID = &id
	}
	districts, total, err := h.locationService.ListDistricts(c.Context(), cityID, c.Query("search"), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list districts")
	}
	return response.Success(c, "Districts retrieved successfully", pagination.NewResponse(districts, params, total))
}

// CreateDistrict handles creating a district (admin)
// @Summary Create district
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DistrictInput true "District data"
// @Success 201 {object} response.Response
// @Router /locations/districts [post]
func (h *LocationHandler) CreateDistrict(c *fiber.Ctx) error {
	var input services.DistrictInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.CityID == 0 {
		return response.BadRequest(c, "Name and city ID are required")
	}

	district, err := h.locationService.CreateDistrict(c.Context(), &input)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to create district")
	}
	return response.Created(c, "District created successfully", district)
}

// GetDistrict handles getting a district
// @Summary Get district
// @Tags Locations
// @Produce json
// @Param id path int true "District ID"
// @Success 200 {object} response.Response
// @Router /locations/districts/{id} [get]
func (h *LocationHandler) GetDistrict(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid district ID")
	}
	district, err := h.locationService.GetDistrict(c.Context(), id)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to get district")
	}
	return response.Success(c, "District retrieved successfully", district)
}

// UpdateDistrict handles updating a district (admin)
// @Summary Update district
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "District ID"
// @Param body body services.DistrictInput true "District data"
// @Success 200 {object} response.Response
// @Router /locations/districts/{id} [put]
func (h *LocationHandler) UpdateDistrict(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid district ID")
	}
	var input services.DistrictInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	district, err := h.locationService.UpdateDistrict(c.Context(), id, &input)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to update district")
	}
	return response.Success(c, "District updated successfully", district)
}

// DeleteDistrict handles deleting a district (admin)
// @Summary Delete district
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "District ID"
// @Success 200 {object} response.Response
// @Router /locations/districts/{id} [delete]
func (h *LocationHandler) DeleteDistrict(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid district ID")
	}
	if err := h.locationService.DeleteDistrict(c.Context(), id); err != nil {
		return h.handleLocationError(c, err, "Failed to delete district")
	}
	return response.Success(c, "District deleted successfully", nil)
}

// ListStations handles listing stations
// @Summary List stations
// @Tags Locations
// @Produce json
// @Param district_id query int false "Filter by district"
// @Param search query string false "Search by name"
// @Success 200 {object} response.Response
// @Router /locations/stations [get]
func (h *LocationHandler) ListStations(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	var districtID *uint
	if v := c.QueryInt("district_id"); v > 0 {
		id := uint(v)
		districtID = &id
	}
	stations, total, err := h.locationService.ListStations(c.Context(), districtID, c.Query("search"), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list stations")
	}

	responses := make([]*models.StationResponse, len(stations))
	for i, s := range stations {
		responses[i] = s.ToResponse()
	}
	return response.Success(c, "Stations retrieved successfully", pagination.NewResponse(responses, params, total))
}

// CreateStation handles creating a station (admin)
// @Summary Create station
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.StationInput true "Station data"
// @Success 201 {object} response.Response
// @Router /locations/stations [post]
func (h *LocationHandler) CreateStation(c *fiber.Ctx) error {
	var input services.StationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.DistrictID == 0 {
		return response.BadRequest(c, "Name and district ID are required")
	}

	station, err := h.locationService.CreateStation(c.Context(), &input)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to create station")
	}
	return response.Created(c, "Station created successfully", station.ToResponse())
}

// GetStation handles getting a station
// @Summary Get station
// @Tags Locations
// @Produce json
// @Param id path int true "Station ID"
// @Success 200 {object} response.Response
// @Router /locations/stations/{id} [get]
func (h *LocationHandler) GetStation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid station ID")
	}
	station, err := h.locationService.GetStation(c.Context(), id)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to get station")
	}
	return response.Success(c, "Station retrieved successfully", station.ToResponse())
}

// UpdateStation handles updating a station (admin)
// @Summary Update station
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Station ID"
// @Param body body services.StationInput true "Station data"
// @Success 200 {object} response.Response
// @Router /locations/stations/{id} [put]
func (h *LocationHandler) UpdateStation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid station ID")
	}
	var input services.StationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	station, err := h.locationService.UpdateStation(c.Context(), id, &input)
	if err != nil {
		return h.handleLocationError(c, err, "Failed to update station")
	}
	return response.Success(c, "Station updated successfully", station.ToResponse())
}

// DeleteStation handles deleting a station (admin)
// @Summary Delete station
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Station ID"
// @Success 200 {object} response.Response
// @Router /locations/stations/{id} [delete]
func (h *LocationHandler) DeleteStation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid station ID")
	}
	if err := h.locationService.DeleteStation(c.Context(), id); err != nil {
		return h.handleLocationError(c, err, "Failed to delete station")
	}
	return response.Success(c, "Station deleted successfully", nil)
}
