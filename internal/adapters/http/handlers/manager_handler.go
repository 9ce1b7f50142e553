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

// ManagerHandler handles fund requests and station rosters
type ManagerHandler struct {
	managerService *services.ManagerService
}

// NewManagerHandler creates a new manager handler
func NewManagerHandler(managerService *services.ManagerService) *ManagerHandler {
	return &ManagerHandler{managerService: managerService}
}

// CreateFundRequest handles opening a fund request
// @Summary Create fund request
// @Description Request operating funds for a station
// @Tags Manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateFundRequestInput true "Request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /fund-requests [post]
func (h *ManagerHandler) CreateFundRequest(c *fiber.Ctx) error {
	var input services.CreateFundRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.StationID == 0 || input.Reason == "" {
		return response.BadRequest(c, "Station and reason are required")
	}
	if input.Amount <= 0 {
		return response.BadRequest(c, "Amount must be positive")
	}

	requesterID, _ := c.Locals("userID").(uint)

	request, err := h.managerService.CreateFundRequest(c.Context(), requesterID, &input)
	if err != nil {
		if errors.Is(err, services.ErrStationNotFound) {
			return response.NotFound(c, "Station not found")
		}
		return response.InternalServerError(c, "Failed to create fund request")
	}

	return response.Created(c, "Fund request created successfully", request)
}

// ListFundRequests handles listing fund requests. Managers see their own.
// @Summary List fund requests
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param station_id query int false "Filter by station"
// @Success 200 {object} response.Response
// @Router /fund-requests [get]
func (h *ManagerHandler) ListFundRequests(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	caller := middleware.Caller(c)

	filter := &repositories.FundRequestFilter{
		Status: c.Query("status"),
	}
	if v := c.QueryInt("station_id"); v > 0 {
		id := uint(v)
		filter.StationID = &id
	}
	if v := c.QueryInt("requester_id"); v > 0 {
		id := uint(v)
		filter.RequesterID = &id
	}

	requests, total, err := h.managerService.ListFundRequests(c.Context(), caller, filter, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list fund requests")
	}

	return response.Success(c, "Fund requests retrieved successfully", pagination.NewResponse(requests, params, total))
}

// GetFundRequest handles getting a fund request
// @Summary Get fund request
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fund request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /fund-requests/{id} [get]
func (h *ManagerHandler) GetFundRequest(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid fund request ID")
	}

	caller := middleware.Caller(c)
	request, err := h.managerService.GetFundRequest(c.Context(), caller, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFundRequestNotFound):
			return response.NotFound(c, "Fund request not found")
		case errors.Is(err, services.ErrNotRequestOwner):
			return response.Forbidden(c, "Fund request belongs to another manager")
		default:
			return response.InternalServerError(c, "Failed to get fund request")
		}
	}

	return response.Success(c, "Fund request retrieved successfully", request)
}

// ProcessFundRequest handles approving or rejecting a fund request
// @Summary Process fund request
// @Description Approve or reject a pending fund request, exactly once
// @Tags Manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fund request ID"
// @Param body body services.ProcessFundRequestInput true "Decision"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /fund-requests/{id}/process [post]
func (h *ManagerHandler) ProcessFundRequest(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid fund request ID")
	}

	var input services.ProcessFundRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	adminID, _ := c.Locals("userID").(uint)

	request, err := h.managerService.ProcessFundRequest(c.Context(), adminID, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFundRequestNotFound):
			return response.NotFound(c, "Fund request not found")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.Conflict(c, "Fund request already processed")
		default:
			return response.InternalServerError(c, "Failed to process fund request")
		}
	}

	return response.Success(c, "Fund request processed successfully", request)
}

// AddMember handles adding a user to a station roster
// @Summary Add station member
// @Tags Manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AddMemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /station-members [post]
func (h *ManagerHandler) AddMember(c *fiber.Ctx) error {
	var input services.AddMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.UserID == 0 || input.StationID == 0 {
		return response.BadRequest(c, "User and station are required")
	}

	addedByID, _ := c.Locals("userID").(uint)

	member, err := h.managerService.AddMember(c.Context(), addedByID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrStationNotFound):
			return response.NotFound(c, "Station not found")
		case errors.Is(err, services.ErrMemberExists):
			return response.Conflict(c, "User is already on this station roster")
		default:
			return response.InternalServerError(c, "Failed to add station member")
		}
	}

	return response.Created(c, "Station member added successfully", member)
}

// ActivateMember handles reactivating a roster entry
// @Summary Activate station member
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /station-members/{id}/activate [post]
func (h *ManagerHandler) ActivateMember(c *fiber.Ctx) error {
	return h.setMemberActive(c, true, "Station member activated successfully")
}

// DeactivateMember handles deactivating a roster entry
// @Summary Deactivate station member
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /station-members/{id}/deactivate [post]
func (h *ManagerHandler) DeactivateMember(c *fiber.Ctx) error {
	return h.setMemberActive(c, false, "Station member deactivated successfully")
}

// ListMembers handles listing the roster of a station
// @Summary List station members
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Station ID"
// @Param active query bool false "Only active members"
// @Success 200 {object} response.Response
// @Router /locations/stations/{id}/members [get]
func (h *ManagerHandler) ListMembers(c *fiber.Ctx) error {
	stationID, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid station ID")
	}

	activeOnly := c.QueryBool("active")

	members, err := h.managerService.ListMembers(c.Context(), stationID, activeOnly)
	if err != nil {
		if errors.Is(err, services.ErrStationNotFound) {
			return response.NotFound(c, "Station not found")
		}
		return response.InternalServerError(c, "Failed to list station members")
	}

	return response.Success(c, "Station members retrieved successfully", members)
}

func (h *ManagerHandler) setMemberActive(c *fiber.Ctx, active bool, message string) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.managerService.SetMemberActive(c.Context(), id, active)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return response.NotFound(c, "Station member not found")
		}
		return response.InternalServerError(c, "Failed to update station member")
	}

	return response.Success(c, message, member)
}
