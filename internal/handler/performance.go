package handler

import (
	"net/http"

	"github.com/pebec/beepa-tracker/internal/model"
	"github.com/pebec/beepa-tracker/internal/service"
)

// PerformanceHandler handles performance read endpoints
type PerformanceHandler struct {
	svc *service.PerformanceService
}

// NewPerformanceHandler creates a new performance handler
func NewPerformanceHandler(svc *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{svc: svc}
}

// GetMDA handles GET /v1/performance/mdas/{mdaId} - scored MDA view
func (h *PerformanceHandler) GetMDA(w http.ResponseWriter, r *http.Request) {
	mdaID := r.PathValue("mdaId")
	if mdaID == "" {
		WriteError(w, model.NewBadRequestError("MDA ID required"))
		return
	}

	perf, err := h.svc.GetMDAPerformance(r.Context(), mdaID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, perf)
}

// GetReform handles GET /v1/performance/reforms/{reformId} - scored reform view
func (h *PerformanceHandler) GetReform(w http.ResponseWriter, r *http.Request) {
	reformID := r.PathValue("reformId")
	if reformID == "" {
		WriteError(w, model.NewBadRequestError("reform ID required"))
		return
	}

	perf, err := h.svc.GetReformPerformance(r.Context(), reformID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, perf)
}

// Rankings handles GET /v1/performance/rankings - global MDA ranking
func (h *PerformanceHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.svc.GetRankings(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, ranked)
}

// Stats handles GET /v1/performance/stats - system-wide dashboard summary
func (h *PerformanceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetDashboardStats(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, stats)
}
