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

// ReservationHandler handles seat booking endpoints
type ReservationHandler struct {
	reservationService *services.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// CreateReservation handles booking a seat
// @Summary Create reservation
// @Description Book a seat on a trip. Clients book for themselves;
// @Description counter staff book on behalf of walk-in customers.
// @Tags Reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateReservationInput true "Booking data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *fiber.Ctx) error {
	var input services.CreateReservationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.TripID == 0 || input.SeatNumber == 0 {
		return response.BadRequest(c, "Trip ID and seat number are required")
	}
	if input.ClientFirstName == "" || input.ClientLastName == "" || input.ClientPhone == "" {
		return response.BadRequest(c, "Client name and phone are required")
	}

	// Clients always book in their own name
	caller := middleware.Caller(c)
	if caller.Role == domain.RoleClient || caller.Role == domain.RoleShipper {
		input.ClientID = &caller.UserID
	}

	reservation, err := h.reservationService.CreateReservation(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			return response.NotFound(c, "Trip not found")
		case errors.Is(err, services.ErrTripNotBookable):
			return response.Conflict(c, "Trip is not open for booking")
		case errors.Is(err, services.ErrSeatOutOfRange):
			return response.BadRequest(c, "Seat number outside trip capacity")
		case errors.Is(err, domain.ErrSeatTaken):
			return response.Conflict(c, "Seat already reserved")
		case errors.Is(err, domain.ErrTripFull):
			return response.Conflict(c, "Trip is fully booked")
		default:
			return response.InternalServerError(c, "Failed to create reservation")
		}
	}

	return response.Created(c, "Reservation created successfully", reservation)
}

// ListReservations handles listing reservations visible to the caller
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param trip_id query int false "Filter by trip"
// @Param status query string false "Filter by status"
// @Param phone query string false "Filter by client phone"
// @Success 200 {object} response.Response
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	caller := middleware.Caller(c)

	filter := &repositories.ReservationFilter{
		Status:       c.Query("status"),
		ClientPhone:  c.Query("phone"),
		TicketNumber: c.Query("ticket"),
	}
	if v := c.QueryInt("trip_id"); v > 0 {
		id := uint(v)
		filter.TripID = &id
	}

	reservations, total, err := h.reservationService.ListReservations(c.Context(), caller, filter, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reservations")
	}

	return response.Success(c, "Reservations retrieved successfully", pagination.NewResponse(reservations, params, total))
}

// ListByTrip handles the passenger manifest of a single trip
// @Summary List trip reservations
// @Description List the reservations booked on a trip
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /trips/{id}/reservations [get]
func (h *ReservationHandler) ListByTrip(c *fiber.Ctx) error {
	tripID, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	params := pagination.GetParams(c)
	caller := middleware.Caller(c)

	filter := &repositories.ReservationFilter{
		Status: c.Query("status"),
		TripID: &tripID,
	}

	reservations, total, err := h.reservationService.ListReservations(c.Context(), caller, filter, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list trip reservations")
	}

	return response.Success(c, "Trip reservations retrieved successfully", pagination.NewResponse(reservations, params, total))
}

// GetReservation handles getting a reservation
// @Summary Get reservation
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reservation ID")
	}

	caller := middleware.Caller(c)
	reservation, err := h.reservationService.GetReservation(c.Context(), caller, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			return response.NotFound(c, "Reservation not found")
		case errors.Is(err, services.ErrNotReservationOwner):
			return response.Forbidden(c, "Reservation belongs to another client")
		default:
			return response.InternalServerError(c, "Failed to get reservation")
		}
	}

	return response.Success(c, "Reservation retrieved successfully", reservation)
}

// UpdateReservation handles updating passenger contact details
// @Summary Update reservation
// @Description Update the passenger contact details on a reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Param input body services.UpdateReservationInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reservations/{id} [put]
func (h *ReservationHandler) UpdateReservation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reservation ID")
	}

	var input services.UpdateReservationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	caller := middleware.Caller(c)
	reservation, err := h.reservationService.UpdateReservation(c.Context(), caller, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			return response.NotFound(c, "Reservation not found")
		case errors.Is(err, services.ErrNotReservationOwner):
			return response.Forbidden(c, "Reservation belongs to another client")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Reservation can no longer be updated")
		default:
			return response.InternalServerError(c, "Failed to update reservation")
		}
	}

	return response.Success(c, "Reservation updated successfully", reservation)
}

// GetByTicket handles ticket lookup (counter staff)
// @Summary Lookup by ticket
// @Description Look a reservation up by its ticket number
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param ticket path string true "Ticket number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reservations/ticket/{ticket} [get]
func (h *ReservationHandler) GetByTicket(c *fiber.Ctx) error {
	ticket := c.Params("ticket")
	if ticket == "" {
		return response.BadRequest(c, "Ticket number is required")
	}

	reservation, err := h.reservationService.GetByTicket(c.Context(), ticket)
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			return response.NotFound(c, "Reservation not found")
		}
		return response.InternalServerError(c, "Failed to get reservation")
	}

	return response.Success(c, "Reservation retrieved successfully", reservation)
}

// RecordPayment handles recording a payment (counter staff)
// @Summary Record payment
// @Tags Reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reservations/{id}/payment [post]
func (h *ReservationHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reservation ID")
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

	reservation, err := h.reservationService.RecordPayment(c.Context(), id, body.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			return response.NotFound(c, "Reservation not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Reservation is in a final state")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Success(c, "Payment recorded successfully", reservation)
}

// Validate handles validating a ticket at boarding (counter staff)
// @Summary Validate reservation
// @Description Mark a ticket as used at boarding, exactly once
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reservations/{id}/validate [post]
func (h *ReservationHandler) Validate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reservation ID")
	}

	validatorID, _ := c.Locals("userID").(uint)

	reservation, err := h.reservationService.Validate(c.Context(), id, validatorID)
	if err != nil {
		return h.handleValidateError(c, err)
	}

	return response.Success(c, "Ticket validated successfully", reservation)
}

// ValidateByTicket handles validating a ticket by its number (counter staff)
// @Summary Validate by ticket number
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param ticket path string true "Ticket number"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reservations/ticket/{ticket}/validate [post]
func (h *ReservationHandler) ValidateByTicket(c *fiber.Ctx) error {
	ticket := c.Params("ticket")
	if ticket == "" {
		return response.BadRequest(c, "Ticket number is required")
	}

	validatorID, _ := c.Locals("userID").(uint)

	reservation, err := h.reservationService.ValidateByTicket(c.Context(), ticket, validatorID)
	if err != nil {
		return h.handleValidateError(c, err)
	}

	return response.Success(c, "Ticket validated successfully", reservation)
}

// Cancel handles cancelling a reservation
// @Summary Cancel reservation
// @Description Cancel a reservation and free its seat
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reservation ID")
	}

	caller := middleware.Caller(c)
	reservation, err := h.reservationService.Cancel(c.Context(), caller, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			return response.NotFound(c, "Reservation not found")
		case errors.Is(err, services.ErrNotReservationOwner):
			return response.Forbidden(c, "Reservation belongs to another client")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Reservation can no longer be cancelled")
		default:
			return response.InternalServerError(c, "Failed to cancel reservation")
		}
	}

	return response.Success(c, "Reservation cancelled successfully", reservation)
}

func (h *ReservationHandler) handleValidateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrReservationNotFound):
		return response.NotFound(c, "Reservation not found")
	case errors.Is(err, domain.ErrAlreadyValidated):
		return response.Conflict(c, "Ticket already validated")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, "Cancelled ticket cannot be validated")
	default:
		return response.InternalServerError(c, "Failed to validate ticket")
	}
}
