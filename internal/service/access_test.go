package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockAccessUserRepo struct {
	createFunc               func(ctx context.Context, user *model.User) error
	createBootstrapAdminFunc func(ctx context.Context, user *model.User) error
	getBySubjectFunc         func(ctx context.Context, subjectID string) (*model.User, error)
	getByEmailFunc           func(ctx context.Context, email string) (*model.User, error)
	countFunc                func(ctx context.Context) (int, error)
	linkIdentityFunc         func(ctx context.Context, userID, subjectID string) error
	updateLastLoginFunc      func(ctx context.Context, userID string) error
}

func (m *mockAccessUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockAccessUserRepo) CreateBootstrapAdmin(ctx context.Context, user *model.User) error {
	if m.createBootstrapAdminFunc != nil {
		return m.createBootstrapAdminFunc(ctx, user)
	}
	return nil
}

func (m *mockAccessUserRepo) GetBySubject(ctx context.Context, subjectID string) (*model.User, error) {
	if m.getBySubjectFunc != nil {
		return m.getBySubjectFunc(ctx, subjectID)
	}
	return nil, nil
}

func (m *mockAccessUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockAccessUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockAccessUserRepo) LinkIdentity(ctx context.Context, userID, subjectID string) error {
	if m.linkIdentityFunc != nil {
		return m.linkIdentityFunc(ctx, userID, subjectID)
	}
	return nil
}

func (m *mockAccessUserRepo) UpdateLastLogin(ctx context.Context, userID string) error {
	if m.updateLastLoginFunc != nil {
		return m.updateLastLoginFunc(ctx, userID)
	}
	return nil
}

type mockSettingsRepo struct {
	hash        string
	getHashFunc func(ctx context.Context) (string, error)
	setHashFunc func(ctx context.Context, hash string) error
}

func (m *mockSettingsRepo) GetAccessCodeHash(ctx context.Context) (string, error) {
	if m.getHashFunc != nil {
		return m.getHashFunc(ctx)
	}
	return m.hash, nil
}

func (m *mockSettingsRepo) SetAccessCodeHash(ctx context.Context, hash string) error {
	if m.setHashFunc != nil {
		return m.setHashFunc(ctx, hash)
	}
	m.hash = hash
	return nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAccessService(userRepo *mockAccessUserRepo, settingsRepo *mockSettingsRepo) *AccessService {
	if userRepo == nil {
		userRepo = &mockAccessUserRepo{}
	}
	if settingsRepo == nil {
		settingsRepo = &mockSettingsRepo{}
	}
	return NewAccessService(userRepo, settingsRepo, testLogger())
}

func strPtr(s string) *string {
	return &s
}

// ============================================================================
// Authorize Tests
// ============================================================================

func TestAuthorize_NoIdentity_ReturnsNotSignedIn(t *testing.T) {
	t.Parallel()
	svc := newTestAccessService(nil, nil)

	_, err := svc.Authorize(context.Background(), nil)
	if !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("expected ErrNotSignedIn, got %v", err)
	}

	_, err = svc.Authorize(context.Background(), &model.Identity{Email: "a@b.c"})
	if !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("expected ErrNotSignedIn for empty subject, got %v", err)
	}
}

func TestAuthorize_UnknownIdentity_ReturnsNotInvited(t *testing.T) {
	t.Parallel()
	svc := newTestAccessService(&mockAccessUserRepo{}, nil)

	_, err := svc.Authorize(context.Background(), &model.Identity{
		Subject: "sub-1",
		Email:   "stranger@example.com",
	})
	if !errors.Is(err, ErrNotInvited) {
		t.Errorf("expected ErrNotInvited, got %v", err)
	}
}

func TestAuthorize_DeactivatedUser_Refused(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		getBySubjectFunc: func(ctx context.Context, subjectID string) (*model.User, error) {
			return &model.User{
				ID:        "user:1",
				SubjectID: strPtr(subjectID),
				Email:     "gone@example.com",
				Role:      model.UserRoleAdmin,
				Status:    model.UserStatusInactive,
			}, nil
		},
	}
	svc := newTestAccessService(userRepo, nil)

	_, err := svc.Authorize(context.Background(), &model.Identity{Subject: "sub-1", Email: "gone@example.com"})
	if !errors.Is(err, ErrUserDeactivated) {
		t.Errorf("expected ErrUserDeactivated, got %v", err)
	}
}

func TestAuthorize_PendingInvitee_LinksByEmail(t *testing.T) {
	t.Parallel()
	linked := false
	userRepo := &mockAccessUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email != "invitee@example.com" {
				t.Errorf("expected normalized email lookup, got %q", email)
			}
			return &model.User{
				ID:     "user:2",
				Email:  email,
				Role:   model.UserRoleEditor,
				Status: model.UserStatusPending,
			}, nil
		},
		linkIdentityFunc: func(ctx context.Context, userID, subjectID string) error {
			linked = true
			if userID != "user:2" || subjectID != "sub-2" {
				t.Errorf("unexpected link args: %s %s", userID, subjectID)
			}
			return nil
		},
	}
	svc := newTestAccessService(userRepo, nil)

	auth, err := svc.Authorize(context.Background(), &model.Identity{
		Subject: "sub-2",
		Email:   "Invitee@Example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !linked {
		t.Error("expected identity to be linked on first sign-in")
	}
	if auth.User.Status != model.UserStatusActive {
		t.Errorf("expected active status after linking, got %s", auth.User.Status)
	}
	if auth.User.SubjectID == nil || *auth.User.SubjectID != "sub-2" {
		t.Error("expected subject to be attached")
	}
	if auth.User.LoginOn == nil {
		t.Error("expected first login to be stamped")
	}
	if !auth.Capability.CanEdit() {
		t.Error("expected editor capability after activation")
	}
}

func TestAuthorize_LinkedUser_NoRelink(t *testing.T) {
	t.Parallel()
	now := time.Now()
	userRepo := &mockAccessUserRepo{
		getBySubjectFunc: func(ctx context.Context, subjectID string) (*model.User, error) {
			return &model.User{
				ID:        "user:3",
				SubjectID: strPtr(subjectID),
				Email:     "linked@example.com",
				Role:      model.UserRoleViewer,
				Status:    model.UserStatusActive,
				LoginOn:   &now,
			}, nil
		},
		linkIdentityFunc: func(ctx context.Context, userID, subjectID string) error {
			t.Error("already-linked user must not be relinked")
			return nil
		},
	}
	svc := newTestAccessService(userRepo, nil)

	auth, err := svc.Authorize(context.Background(), &model.Identity{Subject: "sub-3", Email: "linked@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth.Capability.CanEdit() {
		t.Error("viewer must not have edit capability")
	}
}

// ============================================================================
// BootstrapAdmin Tests
// ============================================================================

func TestBootstrapAdmin_UsersExist_ReturnsUnavailable(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		createBootstrapAdminFunc: func(ctx context.Context, user *model.User) error {
			return database.ErrDuplicate
		},
	}
	svc := newTestAccessService(userRepo, nil)

	_, err := svc.BootstrapAdmin(context.Background(), &model.Identity{
		Subject: "sub-1",
		Email:   "first@example.com",
	})
	if !errors.Is(err, ErrBootstrapUnavailable) {
		t.Errorf("expected ErrBootstrapUnavailable, got %v", err)
	}
}

func TestBootstrapAdmin_EmptyTable_CreatesAdmin(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		createBootstrapAdminFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "user:1"
			user.Role = model.UserRoleAdmin
			user.Status = model.UserStatusActive
			return nil
		},
	}
	svc := newTestAccessService(userRepo, nil)

	user, err := svc.BootstrapAdmin(context.Background(), &model.Identity{
		Subject: "sub-1",
		Email:   "First@Example.com",
		Name:    "First Admin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != model.UserRoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}
	if user.Email != "first@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
}

// ============================================================================
// Invite Tests
// ============================================================================

func TestInvite_DuplicateEmail_ReturnsConflict(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user:1", Email: email}, nil
		},
	}
	svc := newTestAccessService(userRepo, nil)

	_, err := svc.Invite(context.Background(), "taken@example.com", model.UserRoleViewer, nil)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestInvite_CreatesPendingUser(t *testing.T) {
	t.Parallel()
	var created *model.User
	userRepo := &mockAccessUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "user:9"
			created = user
			return nil
		},
	}
	svc := newTestAccessService(userRepo, nil)

	user, err := svc.Invite(context.Background(), "  New@Example.COM ", model.UserRoleEditor, []string{"mda:1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected user to be created")
	}
	if user.Status != model.UserStatusPending {
		t.Errorf("expected pending status, got %s", user.Status)
	}
	if user.Email != "new@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.SubjectID != nil {
		t.Error("invitee must not have a subject before first sign-in")
	}
	if user.InvitedOn == nil {
		t.Error("expected invitation timestamp")
	}
}

func TestInvite_InvalidInput(t *testing.T) {
	t.Parallel()
	svc := newTestAccessService(nil, nil)

	if _, err := svc.Invite(context.Background(), "  ", model.UserRoleViewer, nil); !errors.Is(err, ErrEmailRequired) {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
	if _, err := svc.Invite(context.Background(), "a@b.c", model.UserRole("owner"), nil); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

// ============================================================================
// Register (legacy access-code flow) Tests
// ============================================================================

func hashCode(t *testing.T, code string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(strings.ToUpper(code)), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash code: %v", err)
	}
	return string(hash)
}

func TestRegister_FirstUser_AlwaysAdmin(t *testing.T) {
	t.Parallel()
	var created *model.User
	userRepo := &mockAccessUserRepo{
		countFunc: func(ctx context.Context) (int, error) { return 0, nil },
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "user:1"
			created = user
			return nil
		},
	}
	svc := newTestAccessService(userRepo, nil)

	// Role request is ignored for the first user, no access code needed.
	user, err := svc.Register(context.Background(), &model.Identity{
		Subject: "sub-1",
		Email:   "first@example.com",
	}, model.UserRoleViewer, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != model.UserRoleAdmin {
		t.Errorf("first registrant must be admin, got %s", user.Role)
	}
	if created.Status != model.UserStatusActive {
		t.Errorf("expected active status, got %s", created.Status)
	}
}

func TestRegister_EditorRole_RequiresAccessCode(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		countFunc: func(ctx context.Context) (int, error) { return 3, nil },
	}
	settingsRepo := &mockSettingsRepo{hash: hashCode(t, "WXYZ2345")}
	svc := newTestAccessService(userRepo, settingsRepo)

	_, err := svc.Register(context.Background(), &model.Identity{
		Subject: "sub-2",
		Email:   "editor@example.com",
	}, model.UserRoleEditor, "WRONG999")
	if !errors.Is(err, ErrInvalidAccessCode) {
		t.Errorf("expected ErrInvalidAccessCode, got %v", err)
	}
}

func TestRegister_AccessCode_CaseInsensitive(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		countFunc: func(ctx context.Context) (int, error) { return 3, nil },
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "user:4"
			return nil
		},
	}
	settingsRepo := &mockSettingsRepo{hash: hashCode(t, "WXYZ2345")}
	svc := newTestAccessService(userRepo, settingsRepo)

	user, err := svc.Register(context.Background(), &model.Identity{
		Subject: "sub-4",
		Email:   "editor@example.com",
	}, model.UserRoleEditor, "wxyz2345")
	if err != nil {
		t.Fatalf("expected lowercase code to match, got %v", err)
	}
	if user.Role != model.UserRoleEditor {
		t.Errorf("expected editor role, got %s", user.Role)
	}
}

func TestRegister_ViewerRole_NoCodeNeeded(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		countFunc: func(ctx context.Context) (int, error) { return 3, nil },
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "user:5"
			return nil
		},
	}
	// No access code configured at all.
	svc := newTestAccessService(userRepo, &mockSettingsRepo{})

	user, err := svc.Register(context.Background(), &model.Identity{
		Subject: "sub-5",
		Email:   "viewer@example.com",
	}, model.UserRoleViewer, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != model.UserRoleViewer {
		t.Errorf("expected viewer role, got %s", user.Role)
	}
}

func TestRegister_NoCodeConfigured_RejectsElevatedRole(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		countFunc: func(ctx context.Context) (int, error) { return 3, nil },
	}
	svc := newTestAccessService(userRepo, &mockSettingsRepo{})

	_, err := svc.Register(context.Background(), &model.Identity{
		Subject: "sub-6",
		Email:   "editor@example.com",
	}, model.UserRoleEditor, "ANYTHING")
	if !errors.Is(err, ErrAccessCodeNotSet) {
		t.Errorf("expected ErrAccessCodeNotSet, got %v", err)
	}
}

func TestRegister_AlreadyRegistered(t *testing.T) {
	t.Parallel()
	userRepo := &mockAccessUserRepo{
		getBySubjectFunc: func(ctx context.Context, subjectID string) (*model.User, error) {
			return &model.User{ID: "user:1", SubjectID: strPtr(subjectID)}, nil
		},
	}
	svc := newTestAccessService(userRepo, nil)

	_, err := svc.Register(context.Background(), &model.Identity{
		Subject: "sub-1",
		Email:   "dup@example.com",
	}, model.UserRoleViewer, "")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
}

// ============================================================================
// Access Code Tests
// ============================================================================

func TestRegenerateAccessCode_StoresHashOnly(t *testing.T) {
	t.Parallel()
	settingsRepo := &mockSettingsRepo{}
	svc := newTestAccessService(nil, settingsRepo)

	code, err := svc.RegenerateAccessCode(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != accessCodeLength {
		t.Errorf("expected %d-character code, got %q", accessCodeLength, code)
	}
	for _, c := range code {
		if !strings.ContainsRune(accessCodeCharset, c) {
			t.Errorf("code contains character outside charset: %q", c)
		}
	}
	if settingsRepo.hash == code || settingsRepo.hash == "" {
		t.Error("expected a bcrypt hash to be stored, not the plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(settingsRepo.hash), []byte(code)); err != nil {
		t.Errorf("stored hash does not match returned code: %v", err)
	}
}

func TestGenerateAccessCode_Distinct(t *testing.T) {
	t.Parallel()
	a, err := generateAccessCode()
	if err != nil {
		t.Fatal(err)
	}
	b, err := generateAccessCode()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two generated codes should not collide")
	}
}
