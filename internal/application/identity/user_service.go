package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserService handles user account use cases
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a new client account. It is open to anonymous callers.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateEmail
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, shared.NewValidationError().Add("birth_date", "must be a valid date in YYYY-MM-DD format")
		}
		birthDate = &parsed
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Phone, birthDate, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetMe returns the authenticated caller's own account
func (s *UserService) GetMe(ctx context.Context, principal identity.Principal) (*UserResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns a user account. Clients may only read their own.
func (s *UserService) GetByID(ctx context.Context, principal identity.Principal, id uuid.UUID) (*UserResponse, error) {
	if err := identity.RequireSelfOrAdmin(principal, id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns all user accounts. Admin only.
func (s *UserService) List(ctx context.Context, principal identity.Principal) ([]UserResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return ToUserResponses(users), nil
}

// AssignRole grants an additional role to a user. Admin only.
func (s *UserService) AssignRole(ctx context.Context, principal identity.Principal, id uuid.UUID, req AssignRoleRequest) (*UserResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.AssignRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("role assigned",
		zap.String("user_id", user.ID.String()),
		zap.String("role", req.Role))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user account. Admin only. Users that have placed
// orders are protected by referential integrity and surface a conflict.
func (s *UserService) Delete(ctx context.Context, principal identity.Principal, id uuid.UUID) error {
	if err := identity.RequireAdmin(principal); err != nil {
		return err
	}

	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}
