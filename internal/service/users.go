package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pebec/beepa-tracker/internal/model"
)

// AdminUserRepository defines the user repo interface needed by AdminUsersService
type AdminUserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	SetRole(ctx context.Context, userID string, role model.UserRole) error
	SetStatus(ctx context.Context, userID string, status model.UserStatus) error
	SetAssignedMDAs(ctx context.Context, userID string, mdaIDs []string) error
	Delete(ctx context.Context, id string) error
}

// AdminUsersService handles admin user management operations
type AdminUsersService struct {
	userRepo AdminUserRepository
	logger   *slog.Logger
}

// NewAdminUsersService creates a new admin users service
func NewAdminUsersService(userRepo AdminUserRepository, logger *slog.Logger) *AdminUsersService {
	return &AdminUsersService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers returns every user account
func (s *AdminUsersService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateRole changes a user's role
func (s *AdminUsersService) UpdateRole(ctx context.Context, userID string, role model.UserRole) (*model.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	user.Role = role

	s.logger.Info("user role updated", "user_id", userID, "role", role)
	return user, nil
}

// UpdateStatus changes a user's lifecycle status. Setting inactive locks the
// account out at the next authorization check.
func (s *AdminUsersService) UpdateStatus(ctx context.Context, userID string, status model.UserStatus) (*model.User, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.SetStatus(ctx, userID, status); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	user.Status = status

	s.logger.Info("user status updated", "user_id", userID, "status", status)
	return user, nil
}

// UpdateAssignedMDAs replaces a user's editor scope. An empty list makes the
// editor unrestricted.
func (s *AdminUsersService) UpdateAssignedMDAs(ctx context.Context, userID string, mdaIDs []string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if mdaIDs == nil {
		mdaIDs = []string{}
	}
	if err := s.userRepo.SetAssignedMDAs(ctx, userID, mdaIDs); err != nil {
		return nil, fmt.Errorf("set assigned mdas: %w", err)
	}
	user.AssignedMDAs = mdaIDs

	s.logger.Info("user scope updated", "user_id", userID, "assigned", len(mdaIDs))
	return user, nil
}

// DeleteUser removes a user account. The caller may never delete their own
// record, so the system cannot lose its last admin by accident.
func (s *AdminUsersService) DeleteUser(ctx context.Context, actor model.Capability, userID string) error {
	if actor.UserID == userID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID, "deleted_by", actor.UserID)
	return nil
}
