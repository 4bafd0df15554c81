package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Access / Onboarding Errors =====
var (
	ErrNotSignedIn          = errors.New("not signed in")
	ErrNotInvited           = errors.New("no account found for this identity")
	ErrUserDeactivated      = errors.New("account has been deactivated")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRequired        = errors.New("email is required")
	ErrEmailAlreadyExists   = errors.New("a user with this email already exists")
	ErrAlreadyRegistered    = errors.New("identity is already registered")
	ErrBootstrapUnavailable = errors.New("bootstrap admin unavailable: users already exist")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrCannotDeleteSelf     = errors.New("admins cannot delete their own account")
	ErrInvalidAccessCode    = errors.New("invalid access code")
	ErrAccessCodeNotSet     = errors.New("no access code has been configured")
)

// ===== Permission Errors =====
var (
	ErrInsufficientRole   = errors.New("insufficient role for this action")
	ErrEditScopeViolation = errors.New("activity is outside the editor's assigned agencies")
)

// ===== MDA / Reform / Activity Errors =====
var (
	ErrMDANotFound            = errors.New("MDA not found")
	ErrMDANameRequired        = errors.New("MDA name is required")
	ErrMDANameExists          = errors.New("an MDA with this name already exists")
	ErrReformNotFound         = errors.New("reform not found")
	ErrActivityNotFound       = errors.New("activity not found")
	ErrInvalidCompletionLevel = errors.New("completion level must be between 0 and 1")
	ErrInvalidActivityStatus  = errors.New("invalid activity status")
)
