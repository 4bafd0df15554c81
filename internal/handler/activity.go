package handler

import (
	"net/http"

	"github.com/pebec/beepa-tracker/internal/middleware"
	"github.com/pebec/beepa-tracker/internal/model"
	"github.com/pebec/beepa-tracker/internal/service"
)

// ActivityHandler handles activity completion HTTP requests
type ActivityHandler struct {
	svc *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

type updateActivityRequest struct {
	CompletionLevel float64               `json:"completion_level"`
	Status          *model.ActivityStatus `json:"status,omitempty"`
}

// Update handles PATCH /v1/activities/{activityId} - update one completion level
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability, ok := middleware.GetCapability(ctx)
	if !ok {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	activityID := r.PathValue("activityId")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	var req updateActivityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	activity, err := h.svc.UpdateCompletion(ctx, capability, service.UpdateCompletionRequest{
		ActivityID:      activityID,
		CompletionLevel: req.CompletionLevel,
		Status:          req.Status,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, activity)
}

type batchUpdateRequest struct {
	Updates []service.UpdateCompletionRequest `json:"updates"`
}

// BatchUpdate handles PATCH /v1/activities - update several completion levels
func (h *ActivityHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability, ok := middleware.GetCapability(ctx)
	if !ok {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req batchUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if len(req.Updates) == 0 {
		WriteError(w, model.NewBadRequestError("updates list is empty"))
		return
	}

	result, err := h.svc.BatchUpdateCompletion(ctx, capability, req.Updates)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result)
}
