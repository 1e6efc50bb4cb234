package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	middleware "skillsmatrix/middlewares"
	"skillsmatrix/models"
	service "skillsmatrix/services"
	"skillsmatrix/utils"

	"go.uber.org/zap"
)

const maxBulkBody = 64 << 20

type AssessmentHandler struct {
	service  service.AssessmentService
	settings Settings
	log      *zap.Logger
}

func NewAssessmentHandler(service service.AssessmentService, settings Settings, log *zap.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service:  service,
		settings: settings,
		log:      log,
	}
}

func (h *AssessmentHandler) BulkUpdateAssessments(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBulkBody)

	var req models.BulkUpdateRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	uploadedBy := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.BulkRequestTimeout)
	defer cancel()

	result, err := h.service.BulkUpsert(ctx, req, uploadedBy)
	if err != nil {
		writeServiceError(w, h.log, "bulk update", err)
		return
	}

	utils.HandleDataResponse(w, "Bulk update completed", result, http.StatusOK)
}

func (h *AssessmentHandler) RecomputeGaps(w http.ResponseWriter, r *http.Request) {
	// The body is optional; an empty one selects the namespace from the query.
	var req models.RecomputeGapsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.HandleMessageResponse(w, "Malformed request body", http.StatusBadRequest)
		return
	}
	if req.Prefix == "" {
		req.Prefix = h.settings.namespace(r)
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.BulkRequestTimeout)
	defer cancel()

	result, err := h.service.RecomputeGaps(ctx, req.Prefix)
	if err != nil {
		writeServiceError(w, h.log, "recompute gaps", err)
		return
	}

	utils.HandleDataResponse(w, "Gap records recomputed", result, http.StatusOK)
}
