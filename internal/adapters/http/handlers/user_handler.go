package handlers

import (
	"errors"
	"strconv"
	"time"

	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/services"
	"colisso/internal/pkg/pagination"
	"colisso/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles listing users (admin)
// @Summary List users
// @Description List users with pagination and filters
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search by name or phone"
// @Param role query string false "Filter by role code"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListUsersInput{
		Page:     params.Page,
		Limit:    params.Limit,
		Search:   c.Query("search"),
		RoleCode: c.Query("role"),
	}
	if active := c.Query("is_active"); active != "" {
		isActive := active == "true"
		input.IsActive = &isActive
	}

	result, err := h.userService.ListUsers(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			return response.BadRequest(c, "Unknown role code")
		}
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// CreateUser handles staff account creation (admin)
// @Summary Create user
// @Description Create a staff account with an explicit role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Phone == "" || input.FirstName == "" || input.LastName == "" {
		return response.BadRequest(c, "Phone, first name and last name are required")
	}
	if input.RoleCode == "" {
		return response.BadRequest(c, "Role code is required")
	}

	user, err := h.userService.CreateUser(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		case errors.Is(err, services.ErrPhoneAlreadyUsed):
			return response.Conflict(c, "Phone number already registered")
		case errors.Is(err, services.ErrRoleNotFound):
			return response.BadRequest(c, "Unknown role code")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", user)
}

// GetUser handles getting a user by ID (admin)
// @Summary Get user
// @Description Get a user by ID
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFoundSvc) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user)
}

// UpdateUser handles updating a user (admin)
// @Summary Update user
// @Description Update a user's name, role or active flag
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserByAdminInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	adminID, _ := c.Locals("userID").(uint)

	var input services.UpdateUserByAdminInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUserByAdmin(c.Context(), uint(id), adminID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrRoleNotFound):
			return response.BadRequest(c, "Unknown role code")
		case errors.Is(err, services.ErrCannotChangeOwnRole):
			return response.BadRequest(c, "Cannot change your own role")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", user)
}

// DeleteUser handles soft-deleting a user (admin)
// @Summary Delete user
// @Description Soft-delete a user account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	adminID, _ := c.Locals("userID").(uint)

	if err := h.userService.DeleteUser(c.Context(), uint(id), adminID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrCannotDeleteSelf):
			return response.BadRequest(c, "Cannot delete your own account")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}

// ListRoles handles listing the role catalogue
// @Summary List roles
// @Description List the available role codes
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles [get]
func (h *UserHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.userService.ListRoles(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list roles")
	}
	return response.Success(c, "Roles retrieved successfully", roles)
}

// GetProfile handles fetching own profile
// @Summary Get profile
// @Description Get the authenticated user's own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFoundSvc) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", user)
}

// UpdateProfile handles updating own profile
// @Summary Update profile
// @Description Update the authenticated user's own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile data"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFoundSvc) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", user)
}

// ChangePassword handles changing own password
// @Summary Change password
// @Description Change the authenticated user's password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Password data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &input); err != nil {
		switch {
		case errors.Is(err, services.ErrOldPasswordWrong):
			return response.BadRequest(c, "Old password is incorrect")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "New password must be at least 8 characters")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// AssignStation handles assigning a user to a station (admin)
// @Summary Assign station
// @Description Attach a staff user to a station
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AssignStationInput true "Assignment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assignments [post]
func (h *UserHandler) AssignStation(c *fiber.Ctx) error {
	var input services.AssignStationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.UserID == 0 || input.StationID == 0 {
		return response.BadRequest(c, "User ID and station ID are required")
	}

	assignment, err := h.userService.AssignStation(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrStationNotFound):
			return response.NotFound(c, "Station not found")
		case errors.Is(err, services.ErrAssignmentExists):
			return response.Conflict(c, "User already assigned to this station")
		default:
			return response.InternalServerError(c, "Failed to assign station")
		}
	}

	return response.Created(c, "Station assigned successfully", assignment)
}

// EndAssignment handles closing a station assignment (admin)
// @Summary End assignment
// @Description Close a station assignment with an end date
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /assignments/{id}/end [post]
func (h *UserHandler) EndAssignment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	var body struct {
		EndDate *time.Time `json:"end_date"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	assignment, err := h.userService.EndAssignment(c.Context(), uint(id), body.EndDate)
	if err != nil {
		if errors.Is(err, services.ErrAssignmentNotFound) {
			return response.NotFound(c, "Station assignment not found")
		}
		return response.InternalServerError(c, "Failed to end assignment")
	}

	return response.Success(c, "Assignment ended successfully", assignment)
}

// DeleteAssignment handles removing a mistaken assignment (admin)
// @Summary Delete assignment
// @Description Remove a station assignment created by mistake
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /assignments/{id} [delete]
func (h *UserHandler) DeleteAssignment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	if err := h.userService.DeleteAssignment(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrAssignmentNotFound) {
			return response.NotFound(c, "Station assignment not found")
		}
		return response.InternalServerError(c, "Failed to delete assignment")
	}

	return response.Success(c, "Assignment deleted successfully", nil)
}

// ListAssignments handles listing station assignments (admin)
// @Summary List assignments
// @Description List station assignments with filters
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Filter by user"
// @Param station_id query int false "Filter by station"
// @Success 200 {object} response.Response
// @Router /assignments [get]
func (h *UserHandler) ListAssignments(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := &repositories.AssignmentFilter{}
	if v := c.QueryInt("user_id"); v > 0 {
		id := uint(v)
		filter.UserID = &id
	}
	if v := c.QueryInt("station_id"); v > 0 {
		id := uint(v)
		filter.StationID = &id
	}

	assignments, total, err := h.userService.ListAssignments(c.Context(), filter, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list assignments")
	}

	return response.Success(c, "Assignments retrieved successfully", pagination.NewResponse(assignments, params, total))
}
