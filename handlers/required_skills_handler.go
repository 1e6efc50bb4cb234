package handlers

import (
	"context"
	"net/http"
	"strings"

	"skillsmatrix/models"
	service "skillsmatrix/services"
	"skillsmatrix/utils"

	"go.uber.org/zap"
)

type RequiredSkillsHandler struct {
	service  service.RequiredSkillsService
	settings Settings
	log      *zap.Logger
}

func NewRequiredSkillsHandler(service service.RequiredSkillsService, settings Settings, log *zap.Logger) *RequiredSkillsHandler {
	return &RequiredSkillsHandler{
		service:  service,
		settings: settings,
		log:      log,
	}
}

// GetRequiredSkills lists the baselines of ?capability=, which is required.
func (h *RequiredSkillsHandler) GetRequiredSkills(w http.ResponseWriter, r *http.Request) {
	capability := strings.TrimSpace(r.URL.Query().Get("capability"))
	if capability == "" {
		utils.HandleValidationResponse(w, http.StatusBadRequest, map[string]string{"capability": "required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	baselines, err := h.service.GetRequiredSkillsByBU(ctx, capability)
	if err != nil {
		writeServiceError(w, h.log, "required skills", err)
		return
	}

	utils.HandleDataResponse(w, "Required skills retrieved successfully", struct {
		RequiredSkills []models.RequiredSkillBaseline `json:"requiredSkills"`
	}{baselines}, http.StatusOK)
}
