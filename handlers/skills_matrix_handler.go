package handlers

import (
	"context"
	"net/http"
	"strings"

	service "skillsmatrix/services"
	"skillsmatrix/utils"

	"go.uber.org/zap"
)

type SkillsMatrixHandler struct {
	service  service.SkillsMatrixService
	settings Settings
	log      *zap.Logger
}

func NewSkillsMatrixHandler(service service.SkillsMatrixService, settings Settings, log *zap.Logger) *SkillsMatrixHandler {
	return &SkillsMatrixHandler{
		service:  service,
		settings: settings,
		log:      log,
	}
}

func (h *SkillsMatrixHandler) GetEmployeeSkills(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	view, err := h.service.GetEmployeeSkills(ctx, h.settings.namespace(r), email)
	if err != nil {
		writeServiceError(w, h.log, "get employee skills", err)
		return
	}

	utils.HandleDataResponse(w, "Skills retrieved successfully", view, http.StatusOK)
}

func (h *SkillsMatrixHandler) GetEmployeeSkillsSummary(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	summary, err := h.service.GetEmployeeSkillsSummary(ctx, h.settings.namespace(r), email)
	if err != nil {
		writeServiceError(w, h.log, "get skills summary", err)
		return
	}

	utils.HandleDataResponse(w, "Skills summary retrieved successfully", summary, http.StatusOK)
}

func (h *SkillsMatrixHandler) GetTransformedSkills(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	view, err := h.service.GetTransformedSkills(ctx, h.settings.namespace(r), email)
	if err != nil {
		writeServiceError(w, h.log, "get skill matrix", err)
		return
	}

	utils.HandleDataResponse(w, "Skill matrix retrieved successfully", view, http.StatusOK)
}

func (h *SkillsMatrixHandler) GetEmployeeSkillGaps(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	gaps, err := h.service.GetEmployeeSkillGaps(ctx, h.settings.namespace(r), email)
	if err != nil {
		writeServiceError(w, h.log, "get skill gaps", err)
		return
	}

	utils.HandleDataResponse(w, "Skill gaps retrieved successfully", gaps, http.StatusOK)
}

// GetEmployeeSkillsData returns the gap record next to the raw assessment
// ratings it was derived from.
func (h *SkillsMatrixHandler) GetEmployeeSkillsData(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	data, err := h.service.GetEmployeeSkillsData(ctx, h.settings.namespace(r), email)
	if err != nil {
		writeServiceError(w, h.log, "get employee skills data", err)
		return
	}

	utils.HandleDataResponse(w, "Employee skills data retrieved successfully", data, http.StatusOK)
}

func (h *SkillsMatrixHandler) GetTeamSkills(w http.ResponseWriter, r *http.Request) {
	managerName := strings.TrimSpace(r.PathValue("managerName"))
	if managerName == "" {
		utils.HandleValidationResponse(w, http.StatusBadRequest, map[string]string{"managerName": "required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settings.RequestTimeout)
	defer cancel()

	team, err := h.service.GetTeamSkills(ctx, h.settings.namespace(r), managerName)
	if err != nil {
		writeServiceError(w, h.log, "get team skills", err)
		return
	}

	utils.HandleDataResponse(w, "Team skills retrieved successfully", team, http.StatusOK)
}
