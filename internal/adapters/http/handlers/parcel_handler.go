package handlers

import (
	"errors"

	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/adapters/http/middleware"
	"colisso/internal/core/domain"
	"colisso/internal/core/services"
	"colisso/internal/pkg/pagination"
	"colisso/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ParcelHandler handles parcel registration and tracking endpoints
type ParcelHandler struct {
	parcelService *services.ParcelService
}

// NewParcelHandler creates a new parcel handler
func NewParcelHandler(parcelService *services.ParcelService) *ParcelHandler {
	return &ParcelHandler{parcelService: parcelService}
}

// CreateParcel handles registering a parcel at a counter
// @Summary Register parcel
// @Description Register a new parcel and issue its tracking code
// @Tags Parcels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateParcelInput true "Parcel data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /parcels [post]
func (h *ParcelHandler) CreateParcel(c *fiber.Ctx) error {
	var input services.CreateParcelInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Description == "" || input.Weight <= 0 {
		return response.BadRequest(c, "Description and weight are required")
	}
	if input.RecipientName == "" || input.RecipientPhone == "" || input.RecipientAddress == "" {
		return response.BadRequest(c, "Recipient name, phone and address are required")
	}
	if input.SenderID == 0 || input.OriginStationID == 0 || input.DestinationStationID == 0 {
		return response.BadRequest(c, "Sender and stations are required")
	}
	if input.Price < 0 {
		return response.BadRequest(c, "Price cannot be negative")
	}

	actorID, _ := c.Locals("userID").(uint)

	parcel, err := h.parcelService.CreateParcel(c.Context(), actorID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSameStation):
			return response.BadRequest(c, "Origin and destination stations must differ")
		case errors.Is(err, services.ErrStationNotFound):
			return response.NotFound(c, "Station not found")
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "Sender not found")
		default:
			return response.InternalServerError(c, "Failed to register parcel")
		}
	}

	return response.Created(c, "Parcel registered successfully", parcel)
}

// ListParcels handles listing parcels visible to the caller
// @Summary List parcels
// @Tags Parcels
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param origin query int false "Filter by origin station"
// @Param destination query int false "Filter by destination station"
// @Param search query string false "Tracking code or recipient"
// @Success 200 {object} response.Response
// @Router /parcels [get]
func (h *ParcelHandler) ListParcels(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	caller := middleware.Caller(c)

	filter := &repositories.ParcelFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if v := c.QueryInt("origin"); v > 0 {
		id := uint(v)
		filter.OriginStationID = &id
	}
	if v := c.QueryInt("destination"); v > 0 {
		id := uint(v)
		filter.DestinationStationID = &id
	}
	if v := c.QueryInt("sender_id"); v > 0 {
		id := uint(v)
		filter.SenderID = &id
	}

	parcels, total, err := h.parcelService.ListParcels(c.Context(), caller, filter, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list parcels")
	}

	return response.Success(c, "Parcels retrieved successfully", pagination.NewResponse(parcels, params, total))
}

// GetParcel handles getting a parcel
// @Summary Get parcel
// @Tags Parcels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parcel ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parcels/{id} [get]
func (h *ParcelHandler) GetParcel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid parcel ID")
	}

	caller := middleware.Caller(c)
	parcel, err := h.parcelService.GetParcel(c.Context(), caller, id)
	if err != nil {
		return h.handleParcelError(c, err)
	}

	return response.Success(c, "Parcel retrieved successfully", parcel)
}

// UpdateParcel handles updating parcel details
// @Summary Update parcel
// @Description Update recipient and descriptive details on a parcel
// @Tags Parcels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parcel ID"
// @Param body body services.UpdateParcelInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /parcels/{id} [put]
func (h *ParcelHandler) UpdateParcel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid parcel ID")
	}

	var input services.UpdateParcelInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	parcel, err := h.parcelService.UpdateParcel(c.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParcelNotFound):
			return response.NotFound(c, "Parcel not found")
		case errors.Is(err, services.ErrParcelFinalState):
			return response.Conflict(c, "Parcel is in a final state")
		default:
			return response.InternalServerError(c, "Failed to update parcel")
		}
	}

	return response.Success(c, "Parcel updated successfully", parcel)
}

// DeleteParcel handles removing a parcel that never entered transit
// @Summary Delete parcel
// @Tags Parcels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parcel ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /parcels/{id} [delete]
func (h *ParcelHandler) DeleteParcel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid parcel ID")
	}

	if err := h.parcelService.DeleteParcel(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrParcelNotFound):
			return response.NotFound(c, "Parcel not found")
		case errors.Is(err, services.ErrParcelInTransit):
			return response.Conflict(c, "Parcel in transit cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete parcel")
		}
	}

	return response.Success(c, "Parcel deleted successfully", nil)
}

// ChangeStatus handles advancing a parcel along its lifecycle
// @Summary Change parcel status
// @Description Move a parcel to a new status and append a history entry
// @Tags Parcels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parcel ID"
// @Param body body services.ChangeStatusInput true "New status"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /parcels/{id}/status [patch]
func (h *ParcelHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid parcel ID")
	}

	var input services.ChangeStatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	actorID, _ := c.Locals("userID").(uint)

	parcel, err := h.parcelService.ChangeStatus(c.Context(), actorID, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParcelNotFound):
			return response.NotFound(c, "Parcel not found")
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "Unknown parcel status")
		case errors.Is(err, services.ErrParcelFinalState):
			return response.Conflict(c, "Parcel is in a final state")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Status transition not allowed")
		default:
			return response.InternalServerError(c, "Failed to change parcel status")
		}
	}

	return response.Success(c, "Parcel status updated successfully", parcel)
}

// RecordPayment handles recording a shipping payment
// @Summary Record parcel payment
// @Tags Parcels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parcel ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /parcels/{id}/payment [post]
func (h *ParcelHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid parcel ID")
	}

	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Amount <= 0 {
		return response.BadRequest(c, "Amount must be positive")
	}

	parcel, err := h.parcelService.RecordPayment(c.Context(), id, body.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParcelNotFound):
			return response.NotFound(c, "Parcel not found")
		case errors.Is(err, services.ErrParcelFinalState):
			return response.Conflict(c, "Cancelled parcel cannot take payments")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Success(c, "Payment recorded successfully", parcel)
}

// Track handles public tracking by code, no authentication required
// @Summary Track parcel
// @Description Public lookup of a parcel by tracking code
// @Tags Parcels
// @Produce json
// @Param code path string true "Tracking code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /track/{code} [get]
func (h *ParcelHandler) Track(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return response.BadRequest(c, "Tracking code is required")
	}

	tracking, err := h.parcelService.Track(c.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrParcelNotFound) {
			return response.NotFound(c, "Parcel not found")
		}
		return response.InternalServerError(c, "Failed to track parcel")
	}

	return response.Success(c, "Parcel tracked successfully", tracking)
}

// GetHistory handles fetching the full status history of a parcel
// @Summary Parcel status history
// @Tags Parcels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parcel ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parcels/{id}/history [get]
func (h *ParcelHandler) GetHistory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid parcel ID")
	}

	caller := middleware.Caller(c)
	history, err := h.parcelService.GetHistory(c.Context(), caller, id)
	if err != nil {
		return h.handleParcelError(c, err)
	}

	return response.Success(c, "Parcel history retrieved successfully", history)
}

// ListHistory handles the status change audit feed across parcels
// @Summary List status history
// @Description Page through status changes across all parcels, newest first
// @Tags Parcels
// @Produce json
// @Security BearerAuth
// @Param parcel_id query int false "Filter by parcel"
// @Success 200 {object} response.Response
// @Router /parcels/history [get]
func (h *ParcelHandler) ListHistory(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var parcelID *uint
	if v := c.QueryInt("parcel_id"); v > 0 {
		id := uint(v)
		parcelID = &id
	}

	history, total, err := h.parcelService.ListHistory(c.Context(), parcelID, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list parcel history")
	}

	return response.Success(c, "Parcel history retrieved successfully", pagination.NewResponse(history, params, total))
}

// GetHistoryEntry handles fetching a single status history entry
// @Summary Get history entry
// @Tags Parcels
// @Produce json
// @Security BearerAuth
// @Param id path int true "History entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parcels/history/{id} [get]
func (h *ParcelHandler) GetHistoryEntry(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid history entry ID")
	}

	caller := middleware.Caller(c)
	entry, err := h.parcelService.GetHistoryEntry(c.Context(), caller, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrHistoryNotFound):
			return response.NotFound(c, "History entry not found")
		default:
			return h.handleParcelError(c, err)
		}
	}

	return response.Success(c, "History entry retrieved successfully", entry)
}

// GetStatistics handles parcel counts per status for dashboards
// @Summary Parcel statistics
// @Tags Parcels
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /parcels/statistics [get]
func (h *ParcelHandler) GetStatistics(c *fiber.Ctx) error {
	caller := middleware.Caller(c)

	stats, err := h.parcelService.GetStatistics(c.Context(), caller)
	if err != nil {
		return response.InternalServerError(c, "Failed to get parcel statistics")
	}

	return response.Success(c, "Parcel statistics retrieved successfully", stats)
}

func (h *ParcelHandler) handleParcelError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrParcelNotFound):
		return response.NotFound(c, "Parcel not found")
	case errors.Is(err, services.ErrNotParcelSender):
		return response.Forbidden(c, "Parcel belongs to another sender")
	default:
		return response.InternalServerError(c, "Failed to get parcel")
	}
}
