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

// DeliveryHandler handles last-mile delivery endpoints
type DeliveryHandler struct {
	deliveryService *services.DeliveryService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(deliveryService *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// CreateDelivery handles opening a delivery attempt for an arrived parcel
// @Summary Create delivery
// @Tags Deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deliveries [post]
func (h *DeliveryHandler) CreateDelivery(c *fiber.Ctx) error {
	var body struct {
		ParcelID uint `json:"parcel_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.ParcelID == 0 {
		return response.BadRequest(c, "Parcel ID is required")
	}

	delivery, err := h.deliveryService.CreateDelivery(c.Context(), body.ParcelID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParcelNotFound):
			return response.NotFound(c, "Parcel not found")
		case errors.Is(err, services.ErrParcelNotArrived):
			return response.Conflict(c, "Parcel has not arrived at its destination yet")
		default:
			return response.InternalServerError(c, "Failed to create delivery")
		}
	}

	return response.Created(c, "Delivery created successfully", delivery)
}

// Assign handles assigning a courier to a pending delivery
// @Summary Assign courier
// @Tags Deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deliveries/{id}/assign [post]
func (h *DeliveryHandler) Assign(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid delivery ID")
	}

	var body struct {
		CourierID uint `json:"courier_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Couriers may claim a pending delivery for themselves
	courierID := body.CourierID
	caller := middleware.Caller(c)
	if caller.Role == domain.RoleCourier {
		courierID = caller.UserID
	}
	if courierID == 0 {
		return response.BadRequest(c, "Courier ID is required")
	}

	delivery, err := h.deliveryService.Assign(c.Context(), id, courierID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDeliveryNotFound):
			return response.NotFound(c, "Delivery not found")
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "Courier not found")
		case errors.Is(err, services.ErrCourierRequired):
			return response.BadRequest(c, "Assignee must have the courier role")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Delivery can no longer be assigned")
		default:
			return response.InternalServerError(c, "Failed to assign delivery")
		}
	}

	return response.Success(c, "Delivery assigned successfully", delivery)
}

// Start handles a courier starting an assigned delivery
// @Summary Start delivery
// @Description Start a delivery run. The parcel moves to out_for_delivery.
// @Tags Deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deliveries/{id}/start [post]
func (h *DeliveryHandler) Start(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid delivery ID")
	}

	courierID, _ := c.Locals("userID").(uint)

	delivery, err := h.deliveryService.Start(c.Context(), id, courierID)
	if err != nil {
		return h.handleDeliveryError(c, err)
	}

	return response.Success(c, "Delivery started successfully", delivery)
}

// Finish handles completing or failing a delivery
// @Summary Finish delivery
// @Description Record the outcome of a delivery run. A failed run needs
// @Description a failure reason and moves the parcel to problem status.
// @Tags Deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Param body body services.FinishDeliveryInput true "Outcome"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deliveries/{id}/finish [post]
func (h *DeliveryHandler) Finish(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid delivery ID")
	}

	var input services.FinishDeliveryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	courierID, _ := c.Locals("userID").(uint)

	delivery, err := h.deliveryService.Finish(c.Context(), id, courierID, &input)
	if err != nil {
		if errors.Is(err, services.ErrFailureReasonEmpty) {
			return response.BadRequest(c, "Failure reason is required for a failed delivery")
		}
		return h.handleDeliveryError(c, err)
	}

	return response.Success(c, "Delivery finished successfully", delivery)
}

// GetDelivery handles getting a delivery
// @Summary Get delivery
// @Tags Deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /deliveries/{id} [get]
func (h *DeliveryHandler) GetDelivery(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid delivery ID")
	}

	caller := middleware.Caller(c)
	delivery, err := h.deliveryService.GetDelivery(c.Context(), caller, id)
	if err != nil {
		return h.handleDeliveryError(c, err)
	}

	return response.Success(c, "Delivery retrieved successfully", delivery)
}

// Delete handles removing a delivery that has not started
// @Summary Delete delivery
// @Tags Deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deliveries/{id} [delete]
func (h *DeliveryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid delivery ID")
	}

	if err := h.deliveryService.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrDeliveryNotFound):
			return response.NotFound(c, "Delivery not found")
		case errors.Is(err, services.ErrDeliveryStarted):
			return response.Conflict(c, "Delivery has already started")
		default:
			return response.InternalServerError(c, "Failed to delete delivery")
		}
	}

	return response.Success(c, "Delivery deleted successfully", nil)
}

// ListDeliveries handles listing deliveries. Couriers see only their own.
// @Summary List deliveries
// @Tags Deliveries
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param courier_id query int false "Filter by courier"
// @Success 200 {object} response.Response
// @Router /deliveries [get]
func (h *DeliveryHandler) ListDeliveries(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	caller := middleware.Caller(c)

	filter := &repositories.DeliveryFilter{
		Status: c.Query("status"),
	}
	if v := c.QueryInt("courier_id"); v > 0 {
		id := uint(v)
		filter.CourierID = &id
	}
	if v := c.QueryInt("parcel_id"); v > 0 {
		id := uint(v)
		filter.ParcelID = &id
	}

	deliveries, total, err := h.deliveryService.ListDeliveries(c.Context(), caller, filter, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list deliveries")
	}

	return response.Success(c, "Deliveries retrieved successfully", pagination.NewResponse(deliveries, params, total))
}

// ListAvailable handles listing unassigned deliveries couriers can claim
// @Summary List available deliveries
// @Tags Deliveries
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /deliveries/available [get]
func (h *DeliveryHandler) ListAvailable(c *fiber.Ctx) error {
	deliveries, err := h.deliveryService.ListAvailable(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list available deliveries")
	}

	return response.Success(c, "Available deliveries retrieved successfully", deliveries)
}

func (h *DeliveryHandler) handleDeliveryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDeliveryNotFound):
		return response.NotFound(c, "Delivery not found")
	case errors.Is(err, services.ErrNotAssignedCourier):
		return response.Forbidden(c, "Delivery is assigned to another courier")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, "Delivery status does not allow this action")
	default:
		return response.InternalServerError(c, "Failed to process delivery")
	}
}
