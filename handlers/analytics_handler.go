package handlers

import (
	"context"
	"net/http"
	"strconv"

	service "skillsmatrix/services"
	"skillsmatrix/utils"

	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	service  service.AnalyticsService
	settings Settings
	log      *zap.Logger
}

func NewAnalyticsHandler(service service.AnalyticsService, settings Settings, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:  service,
		settings: settings,
		log:      log,
	}
}

func (h *AnalyticsHandler) GetAdminSkillsAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	analysis, err := h.service.GetAdminSkillsAnalysis(ctx, h.settings.namespace(r))
	if err != nil {
		writeServiceError(w, h.log, "skills analysis", err)
		return
	}

	utils.HandleDataResponse(w, "Skills analysis retrieved successfully", analysis, http.StatusOK)
}

func (h *AnalyticsHandler) GetDistributions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	dist, err := h.service.GetDistributions(ctx, h.settings.namespace(r))
	if err != nil {
		writeServiceError(w, h.log, "distributions", err)
		return
	}

	utils.HandleDataResponse(w, "Distributions retrieved successfully", dist, http.StatusOK)
}

// GetEmployeeRankings returns the full ranking, or the first ?limit= entries.
func (h *AnalyticsHandler) GetEmployeeRankings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.HandleValidationResponse(w, http.StatusBadRequest, map[string]string{"limit": "min=1"})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	rankings, err := h.service.GetEmployeeRankings(ctx, h.settings.namespace(r))
	if err != nil {
		writeServiceError(w, h.log, "rankings", err)
		return
	}

	// The service result may be shared with the cache; copy before trimming.
	out := *rankings
	if limit > 0 && len(out.Rankings) > limit {
		out.Rankings = out.Rankings[:limit]
	}

	utils.HandleDataResponse(w, "Rankings retrieved successfully", out, http.StatusOK)
}
