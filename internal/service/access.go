package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/model"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	// Access code alphabet excludes lookalikes (I, O, 0, 1).
	accessCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	accessCodeLength  = 8
)

// AccessUserRepository defines the user repo interface needed by AccessService
type AccessUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	CreateBootstrapAdmin(ctx context.Context, user *model.User) error
	GetBySubject(ctx context.Context, subjectID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int, error)
	LinkIdentity(ctx context.Context, userID, subjectID string) error
	UpdateLastLogin(ctx context.Context, userID string) error
}

// AccessSettingsRepository defines the settings repo interface needed by AccessService
type AccessSettingsRepository interface {
	GetAccessCodeHash(ctx context.Context) (string, error)
	SetAccessCodeHash(ctx context.Context, hash string) error
}

// AccessService resolves verified identities to user accounts and handles
// onboarding: bootstrap, invitations, and the legacy access-code flow.
type AccessService struct {
	userRepo     AccessUserRepository
	settingsRepo AccessSettingsRepository
	logger       *slog.Logger
}

// NewAccessService creates a new access service
func NewAccessService(userRepo AccessUserRepository, settingsRepo AccessSettingsRepository, logger *slog.Logger) *AccessService {
	return &AccessService{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Authorization is the outcome of resolving an identity: the user record plus
// the capability derived from it.
type Authorization struct {
	User       *model.User
	Capability model.Capability
}

// Authorize resolves a verified identity to a user account. Lookup goes by
// provider subject first, then by email so a pending invitee is found on
// first sign-in; that first sign-in links the identity and activates the
// account. Deactivated accounts are refused regardless of role.
func (s *AccessService) Authorize(ctx context.Context, identity *model.Identity) (*Authorization, error) {
	if identity == nil || identity.Subject == "" {
		return nil, ErrNotSignedIn
	}

	user, err := s.userRepo.GetBySubject(ctx, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("lookup by subject: %w", err)
	}

	if user == nil && identity.Email != "" {
		email := normalizeEmail(identity.Email)
		user, err = s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("lookup by email: %w", err)
		}
	}

	if user == nil {
		return nil, ErrNotInvited
	}
	if user.Status == model.UserStatusInactive {
		return nil, ErrUserDeactivated
	}

	if user.SubjectID == nil {
		// First sign-in of an invitee: link the identity and activate. The
		// repository update is conditional on the pending state, so a
		// concurrent duplicate sign-in degrades to a no-op.
		if err := s.userRepo.LinkIdentity(ctx, user.ID, identity.Subject); err != nil {
			return nil, fmt.Errorf("link identity: %w", err)
		}
		user.SubjectID = &identity.Subject
		user.Status = model.UserStatusActive
		now := time.Now()
		user.LoginOn = &now
		s.logger.Info("invitee linked on first sign-in", "user_id", user.ID)
	} else {
		if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
			s.logger.Warn("failed to stamp last login", "user_id", user.ID, "error", err)
		}
	}

	return &Authorization{
		User:       user,
		Capability: model.NewCapability(user),
	}, nil
}

// BootstrapAdmin creates the very first admin account from a verified
// identity. It succeeds only while the user table is empty; the precondition
// and the insert run in one store transaction so concurrent calls cannot
// both win.
func (s *AccessService) BootstrapAdmin(ctx context.Context, identity *model.Identity) (*model.User, error) {
	if identity == nil || identity.Subject == "" {
		return nil, ErrNotSignedIn
	}
	email := normalizeEmail(identity.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	user := &model.User{
		SubjectID: &identity.Subject,
		Email:     email,
		Name:      optionalName(identity.Name),
	}
	if err := s.userRepo.CreateBootstrapAdmin(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrBootstrapUnavailable
		}
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", "user_id", user.ID, "email", email)
	return user, nil
}

// Invite creates a pending user record for an email address. The invitee
// becomes active when they first sign in with a matching identity.
func (s *AccessService) Invite(ctx context.Context, email string, role model.UserRole, assignedMDAs []string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup invitee: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	now := time.Now()
	user := &model.User{
		Email:        email,
		Role:         role,
		Status:       model.UserStatusPending,
		AssignedMDAs: assignedMDAs,
		InvitedOn:    &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create invitee: %w", err)
	}

	s.logger.Info("user invited", "user_id", user.ID, "email", email, "role", role)
	return user, nil
}

// Register is the legacy self-registration flow. The first registrant always
// becomes an admin. Later registrants choosing editor or admin must present
// the current access code; without a match nothing is written. The compare is
// case-insensitive.
func (s *AccessService) Register(ctx context.Context, identity *model.Identity, role model.UserRole, accessCode string) (*model.User, error) {
	if identity == nil || identity.Subject == "" {
		return nil, ErrNotSignedIn
	}
	email := normalizeEmail(identity.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.userRepo.GetBySubject(ctx, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("lookup registrant: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if count == 0 {
		role = model.UserRoleAdmin
	} else if role != model.UserRoleViewer {
		if err := s.verifyAccessCode(ctx, accessCode); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	user := &model.User{
		SubjectID: &identity.Subject,
		Email:     email,
		Name:      optionalName(identity.Name),
		Role:      role,
		Status:    model.UserStatusActive,
		LoginOn:   &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", email, "role", user.Role)
	return user, nil
}

// RegenerateAccessCode replaces the registration code and returns the new
// plaintext. Only the bcrypt hash is stored, so this is the one moment the
// code is visible.
func (s *AccessService) RegenerateAccessCode(ctx context.Context) (string, error) {
	code, err := generateAccessCode()
	if err != nil {
		return "", fmt.Errorf("generate access code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash access code: %w", err)
	}
	if err := s.settingsRepo.SetAccessCodeHash(ctx, string(hash)); err != nil {
		return "", fmt.Errorf("store access code: %w", err)
	}

	s.logger.Info("access code regenerated")
	return code, nil
}

// verifyAccessCode compares a presented code against the stored hash.
// Codes are upper-cased before hashing and before compare, which keeps the
// check case-insensitive.
func (s *AccessService) verifyAccessCode(ctx context.Context, code string) error {
	hash, err := s.settingsRepo.GetAccessCodeHash(ctx)
	if err != nil {
		return fmt.Errorf("load access code: %w", err)
	}
	if hash == "" {
		return ErrAccessCodeNotSet
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return ErrInvalidAccessCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(normalized)); err != nil {
		return ErrInvalidAccessCode
	}
	return nil
}

// generateAccessCode produces an 8-character code from the unambiguous
// charset using crypto/rand.
func generateAccessCode() (string, error) {
	buf := make([]byte, accessCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, accessCodeLength)
	for i, b := range buf {
		code[i] = accessCodeCharset[int(b)%len(accessCodeCharset)]
	}
	return string(code), nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func optionalName(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return &name
}
