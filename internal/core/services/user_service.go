package services

import (
	"context"
	"errors"
	"time"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/domain"
	"colisso/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrUserNotFoundSvc     = errors.New("user not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrStationNotFound     = errors.New("station not found")
	ErrOldPasswordWrong    = errors.New("old password is incorrect")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrAssignmentNotFound  = errors.New("station assignment not found")
	ErrAssignmentExists    = errors.New("user already assigned to this station")
)

// UserService handles user and station assignment management
type UserService struct {
	userRepo       repositories.UserRepository
	roleRepo       *repositories.RoleRepository
	assignmentRepo *repositories.AssignmentRepository
	locationRepo   *repositories.LocationRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	roleRepo *repositories.RoleRepository,
	assignmentRepo *repositories.AssignmentRepository,
	locationRepo *repositories.LocationRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		assignmentRepo: assignmentRepo,
		locationRepo:   locationRepo,
	}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page     int
	Limit    int
	Search   string
	RoleCode string
	IsActive *bool
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users      []*models.UserResponse `json:"users"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// CreateUserInput represents staff account creation input (admin only)
type CreateUserInput struct {
	Phone     string `json:"phone" validate:"required"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Password  string `json:"password" validate:"required,min=8"`
	RoleCode  string `json:"role_code" validate:"required"`
}

// UpdateUserByAdminInput represents update user input (for admin)
type UpdateUserByAdminInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	RoleCode  *string `json:"role_code"`
	IsActive  *bool   `json:"is_active"`
}

// UpdateProfileInput represents update profile input (for self)
type UpdateProfileInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AssignStationInput represents a station assignment request
type AssignStationInput struct {
	UserID    uint       `json:"user_id" validate:"required"`
	StationID uint       `json:"station_id" validate:"required"`
	StartDate *time.Time `json:"start_date"`
	IsPrimary bool       `json:"is_primary"`
}

// CreateUser creates a staff account with an explicit role
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.UserResponse, error) {
	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByPhone(ctx, input.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPhoneAlreadyUsed
	}

	role, err := s.roleRepo.GetByCode(ctx, input.RoleCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Phone:     input.Phone,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  hashedPassword,
		RoleID:    role.ID,
		Role:      role,
		IsActive:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// ListUsers lists all users with pagination
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	// Set defaults
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit

	filter := &repositories.UserFilter{
		Search:   input.Search,
		IsActive: input.IsActive,
	}
	if input.RoleCode != "" {
		role, err := s.roleRepo.GetByCode(ctx, input.RoleCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, err
		}
		filter.RoleID = &role.ID
	}

	users, total, err := s.userRepo.List(ctx, filter, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	userResponses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      userResponses,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}

	return user.ToResponse(), nil
}

// ListRoles lists the role catalogue
func (s *UserService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.roleRepo.List(ctx)
}

// UpdateUserByAdmin updates a user by admin
func (s *UserService) UpdateUserByAdmin(ctx context.Context, id uint, adminID uint, input *UpdateUserByAdminInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}

	// Prevent admin from changing own role
	if id == adminID && input.RoleCode != nil {
		return nil, ErrCannotChangeOwnRole
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if input.RoleCode != nil {
		if !domain.RoleCode(*input.RoleCode).IsValid() {
			return nil, ErrRoleNotFound
		}
		role, err := s.roleRepo.GetByCode(ctx, *input.RoleCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = role
	}

	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// DeleteUser deletes a user (soft delete)
func (s *UserService) DeleteUser(ctx context.Context, id uint, adminID uint) error {
	// Prevent admin from deleting self
	if id == adminID {
		return ErrCannotDeleteSelf
	}

	_, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFoundSvc
		}
		return err
	}

	return s.userRepo.Delete(ctx, id)
}

// GetProfile gets own profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	return s.GetUserByID(ctx, userID)
}

// UpdateProfile updates own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFoundSvc
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// ChangePassword changes user's password
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFoundSvc
	}

	// Verify old password
	if !password.Verify(input.OldPassword, user.Password) {
		return ErrOldPasswordWrong
	}

	if !password.Validate(input.NewPassword) {
		return ErrWeakPassword
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// AssignStation attaches a staff user to a station
func (s *UserService) AssignStation(ctx context.Context, input *AssignStationInput) (*models.StationAssignmentResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}
	if _, err := s.locationRepo.GetStation(ctx, input.StationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	// Refuse a second open assignment to the same station
	stationIDs, err := s.assignmentRepo.ActiveStationIDs(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	for _, id := range stationIDs {
		if id == input.StationID {
			return nil, ErrAssignmentExists
		}
	}

	startDate := time.Now()
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	assignment := &models.StationAssignment{
		UserID:    input.UserID,
		StationID: input.StationID,
		StartDate: startDate,
		IsPrimary: input.IsPrimary,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	created, err := s.assignmentRepo.GetByID(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}
	return created.ToResponse(), nil
}

// EndAssignment closes a station assignment at the given date (today if nil)
func (s *UserService) EndAssignment(ctx context.Context, id uint, endDate *time.Time) (*models.StationAssignmentResponse, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	when := time.Now()
	if endDate != nil {
		when = *endDate
	}
	assignment.EndDate = &when

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment.ToResponse(), nil
}

// DeleteAssignment removes an assignment created by mistake. Closing a
// legitimate assignment goes through EndAssignment instead.
func (s *UserService) DeleteAssignment(ctx context.Context, id uint) error {
	if _, err := s.assignmentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return s.assignmentRepo.Delete(ctx, id)
}

// ListAssignments lists station assignments with filters
func (s *UserService) ListAssignments(ctx context.Context, filter *repositories.AssignmentFilter, page, limit int) ([]*models.StationAssignmentResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	assignments, total, err := s.assignmentRepo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.StationAssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = a.ToResponse()
	}
	return responses, total, nil
}
