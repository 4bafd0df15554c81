package handler

import (
	"errors"
	"net/http"

	"github.com/pebec/beepa-tracker/internal/middleware"
	"github.com/pebec/beepa-tracker/internal/model"
	"github.com/pebec/beepa-tracker/internal/service"
)

// AuthHandler handles authentication and onboarding HTTP requests
type AuthHandler struct {
	accessSvc *service.AccessService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accessSvc *service.AccessService) *AuthHandler {
	return &AuthHandler{accessSvc: accessSvc}
}

// MeResponse reports whether the caller's identity maps to a usable account.
// Unauthorized identities get a 200 with a reason rather than an error, so
// the client can route to onboarding.
type MeResponse struct {
	Authorized bool        `json:"authorized"`
	Reason     string      `json:"reason,omitempty"`
	User       *model.User `json:"user,omitempty"`
	CanEdit    bool        `json:"can_edit"`
	IsAdmin    bool        `json:"is_admin"`
}

// Me handles GET /v1/auth/me - resolve the caller's account
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	auth, err := h.accessSvc.Authorize(ctx, identity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotSignedIn):
			WriteData(w, http.StatusOK, MeResponse{Authorized: false, Reason: "not_signed_in"})
		case errors.Is(err, service.ErrNotInvited):
			WriteData(w, http.StatusOK, MeResponse{Authorized: false, Reason: "not_invited"})
		case errors.Is(err, service.ErrUserDeactivated):
			WriteData(w, http.StatusOK, MeResponse{Authorized: false, Reason: "deactivated"})
		default:
			WriteError(w, MapServiceError(err))
		}
		return
	}

	WriteData(w, http.StatusOK, MeResponse{
		Authorized: true,
		User:       auth.User,
		CanEdit:    auth.Capability.CanEdit(),
		IsAdmin:    auth.Capability.IsAdmin(),
	})
}

// RegisterRequest is the legacy self-registration payload.
type RegisterRequest struct {
	Role       model.UserRole `json:"role"`
	AccessCode string         `json:"access_code,omitempty"`
}

// Register handles POST /v1/auth/register - legacy access-code registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.accessSvc.Register(ctx, identity, req.Role, req.AccessCode)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, user)
}

// Bootstrap handles POST /v1/auth/bootstrap - create the first admin
func (h *AuthHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	user, err := h.accessSvc.BootstrapAdmin(ctx, identity)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, user)
}
