package handler

import (
	"net/http"

	"github.com/pebec/beepa-tracker/internal/middleware"
	"github.com/pebec/beepa-tracker/internal/model"
	"github.com/pebec/beepa-tracker/internal/service"
)

// AdminUsersHandler handles admin user management HTTP requests
type AdminUsersHandler struct {
	usersSvc  *service.AdminUsersService
	accessSvc *service.AccessService
	seederSvc *service.SeederService
}

// NewAdminUsersHandler creates a new admin users handler
func NewAdminUsersHandler(usersSvc *service.AdminUsersService, accessSvc *service.AccessService, seederSvc *service.SeederService) *AdminUsersHandler {
	return &AdminUsersHandler{
		usersSvc:  usersSvc,
		accessSvc: accessSvc,
		seederSvc: seederSvc,
	}
}

// List handles GET /v1/admin/users - list all users
func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.usersSvc.ListUsers(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, users)
}

// InviteRequest is the payload for inviting a user by email.
type InviteRequest struct {
	Email        string         `json:"email"`
	Role         model.UserRole `json:"role"`
	AssignedMDAs []string       `json:"assigned_mdas,omitempty"`
}

// Invite handles POST /v1/admin/users/invite - invite a user by email
func (h *AdminUsersHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.accessSvc.Invite(r.Context(), req.Email, req.Role, req.AssignedMDAs)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, user)
}

type updateRoleRequest struct {
	Role model.UserRole `json:"role"`
}

// UpdateRole handles PATCH /v1/admin/users/{userId}/role
func (h *AdminUsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req updateRoleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.usersSvc.UpdateRole(r.Context(), userID, req.Role)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, user)
}

type updateStatusRequest struct {
	Status model.UserStatus `json:"status"`
}

// UpdateStatus handles PATCH /v1/admin/users/{userId}/status
func (h *AdminUsersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req updateStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.usersSvc.UpdateStatus(r.Context(), userID, req.Status)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, user)
}

type updateAssignedMDAsRequest struct {
	AssignedMDAs []string `json:"assigned_mdas"`
}

// UpdateAssignedMDAs handles PATCH /v1/admin/users/{userId}/mdas
func (h *AdminUsersHandler) UpdateAssignedMDAs(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req updateAssignedMDAsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.usersSvc.UpdateAssignedMDAs(r.Context(), userID, req.AssignedMDAs)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, user)
}

// Delete handles DELETE /v1/admin/users/{userId}
func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability, ok := middleware.GetCapability(ctx)
	if !ok {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	if err := h.usersSvc.DeleteUser(ctx, capability, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// AccessCodeResponse carries a freshly generated registration code. The code
// is only ever returned here; the store keeps a hash.
type AccessCodeResponse struct {
	AccessCode string `json:"access_code"`
}

// RegenerateAccessCode handles POST /v1/admin/access-code
func (h *AdminUsersHandler) RegenerateAccessCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.accessSvc.RegenerateAccessCode(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, AccessCodeResponse{AccessCode: code})
}

// Seed handles POST /v1/admin/seed - create the PEBEC agency list
func (h *AdminUsersHandler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability, ok := middleware.GetCapability(ctx)
	if !ok {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	result, err := h.seederSvc.SeedMDAs(ctx, capability)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result)
}
