package handler

import (
	"net/http"

	"github.com/pebec/beepa-tracker/internal/middleware"
	"github.com/pebec/beepa-tracker/internal/model"
	"github.com/pebec/beepa-tracker/internal/service"
)

// MDAHandler handles MDA management HTTP requests
type MDAHandler struct {
	svc *service.MDAService
}

// NewMDAHandler creates a new MDA handler
func NewMDAHandler(svc *service.MDAService) *MDAHandler {
	return &MDAHandler{svc: svc}
}

// List handles GET /v1/mdas - list all agencies
func (h *MDAHandler) List(w http.ResponseWriter, r *http.Request) {
	mdas, err := h.svc.ListMDAs(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, mdas)
}

// Get handles GET /v1/mdas/{mdaId} - get one agency
func (h *MDAHandler) Get(w http.ResponseWriter, r *http.Request) {
	mdaID := r.PathValue("mdaId")
	if mdaID == "" {
		WriteError(w, model.NewBadRequestError("MDA ID required"))
		return
	}

	mda, err := h.svc.GetMDA(r.Context(), mdaID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, mda)
}

// Create handles POST /v1/mdas - create an agency with its reform framework
func (h *MDAHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability, ok := middleware.GetCapability(ctx)
	if !ok {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req service.CreateMDARequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	mda, err := h.svc.CreateMDA(ctx, capability, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, mda)
}

// Update handles PATCH /v1/mdas/{mdaId} - patch agency fields
func (h *MDAHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability, ok := middleware.GetCapability(ctx)
	if !ok {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	mdaID := r.PathValue("mdaId")
	if mdaID == "" {
		WriteError(w, model.NewBadRequestError("MDA ID required"))
		return
	}

	var req service.UpdateMDARequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	mda, err := h.svc.UpdateMDA(ctx, capability, mdaID, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, mda)
}

// Delete handles DELETE /v1/mdas/{mdaId} - delete an agency and cascade
func (h *MDAHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability, ok := middleware.GetCapability(ctx)
	if !ok {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	mdaID := r.PathValue("mdaId")
	if mdaID == "" {
		WriteError(w, model.NewBadRequestError("MDA ID required"))
		return
	}

	if err := h.svc.DeleteMDA(ctx, capability, mdaID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
