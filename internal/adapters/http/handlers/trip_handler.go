package handlers

import (
	"errors"
	"time"

	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/domain"
	"colisso/internal/core/services"
	"colisso/internal/pkg/pagination"
	"colisso/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TripHandler handles trip scheduling endpoints
type TripHandler struct {
	tripService *services.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService *services.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// ListTrips handles listing trips, public so clients can browse schedules
// @Summary List trips
// @Description List trips with filters and pagination
// @Tags Trips
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Param origin query string false "Filter by origin city"
// @Param destination query string false "Filter by destination city"
// @Param date query string false "Filter by departure date (YYYY-MM-DD)"
// @Param available query bool false "Only trips with open seats"
// @Success 200 {object} response.Response
// @Router /trips [get]
func (h *TripHandler) ListTrips(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := &repositories.TripFilter{
		Status:          c.Query("status"),
		OriginCity:      c.Query("origin"),
		DestinationCity: c.Query("destination"),
		AvailableOnly:   c.Query("available") == "true",
	}
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		filter.DepartureDate = &parsed
	}
	if vip := c.Query("is_vip"); vip != "" {
		isVIP := vip == "true"
		filter.IsVIP = &isVIP
	}

	trips, total, err := h.tripService.ListTrips(c.Context(), filter, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list trips")
	}

	return response.Success(c, "Trips retrieved successfully", pagination.NewResponse(trips, params, total))
}

// CreateTrip handles trip creation (counter staff)
// @Summary Create trip
// @Description Schedule a new trip
// @Tags Trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateTripInput true "Trip data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /trips [post]
func (h *TripHandler) CreateTrip(c *fiber.Ctx) error {
	var input services.CreateTripInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.OriginCity == "" || input.DestinationCity == "" {
		return response.BadRequest(c, "Origin and destination cities are required")
	}
	if input.Capacity < 1 {
		return response.BadRequest(c, "Capacity must be at least 1")
	}
	if input.BasePrice < 0 {
		return response.BadRequest(c, "Base price cannot be negative")
	}

	trip, err := h.tripService.CreateTrip(c.Context(), &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create trip")
	}

	return response.Created(c, "Trip created successfully", trip)
}

// GetTrip handles getting a trip
// @Summary Get trip
// @Tags Trips
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /trips/{id} [get]
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	trip, err := h.tripService.GetTrip(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			return response.NotFound(c, "Trip not found")
		}
		return response.InternalServerError(c, "Failed to get trip")
	}

	return response.Success(c, "Trip retrieved successfully", trip)
}

// UpdateTrip handles updating a planned trip (counter staff)
// @Summary Update trip
// @Description Update a trip that is still in planned status
// @Tags Trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Param body body services.UpdateTripInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /trips/{id} [put]
func (h *TripHandler) UpdateTrip(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	var input services.UpdateTripInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	trip, err := h.tripService.UpdateTrip(c.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			return response.NotFound(c, "Trip not found")
		case errors.Is(err, services.ErrTripNotEditable):
			return response.Conflict(c, "Trip can no longer be edited")
		case errors.Is(err, services.ErrCapacityTooSmall):
			return response.BadRequest(c, "Capacity cannot go below seats already reserved")
		default:
			return response.InternalServerError(c, "Failed to update trip")
		}
	}

	return response.Success(c, "Trip updated successfully", trip)
}

// ChangeStatus handles trip lifecycle changes (counter staff)
// @Summary Change trip status
// @Description Move a trip to the next lifecycle state
// @Tags Trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /trips/{id}/status [put]
func (h *TripHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	trip, err := h.tripService.ChangeStatus(c.Context(), id, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			return response.NotFound(c, "Trip not found")
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "Unknown trip status")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Status transition not allowed")
		default:
			return response.InternalServerError(c, "Failed to change trip status")
		}
	}

	return response.Success(c, "Trip status updated successfully", trip)
}

// DeleteTrip handles deleting a trip without reservations (admin)
// @Summary Delete trip
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /trips/{id} [delete]
func (h *TripHandler) DeleteTrip(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	if err := h.tripService.DeleteTrip(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			return response.NotFound(c, "Trip not found")
		case errors.Is(err, services.ErrTripNotEditable):
			return response.Conflict(c, "Trip has reservations and cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete trip")
		}
	}

	return response.Success(c, "Trip deleted successfully", nil)
}

// GetStats handles trip statistics (staff)
// @Summary Trip statistics
// @Description Occupancy and revenue figures for a trip
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} response.Response
// @Router /trips/{id}/stats [get]
func (h *TripHandler) GetStats(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	stats, err := h.tripService.GetStats(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			return response.NotFound(c, "Trip not found")
		}
		return response.InternalServerError(c, "Failed to compute trip statistics")
	}

	return response.Success(c, "Trip statistics retrieved successfully", stats)
}
