package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillsmatrix/handlers"
	"skillsmatrix/middlewares"
	"skillsmatrix/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "route-secret"

type stubAssessments struct{ calls int }

func (s *stubAssessments) BulkUpsert(ctx context.Context, req models.BulkUpdateRequest, uploadedBy string) (*models.BulkUpsertResult, error) {
	s.calls++
	return &models.BulkUpsertResult{UpdatedCount: int64(len(req.Data))}, nil
}

func (s *stubAssessments) RecomputeGaps(ctx context.Context, namespace string) (*models.BulkUpsertResult, error) {
	s.calls++
	return &models.BulkUpsertResult{}, nil
}

type stubMatrix struct{}

func (stubMatrix) GetEmployeeSkills(ctx context.Context, ns, email string) (*models.EmployeeSkillsView, error) {
	return &models.EmployeeSkillsView{Email: email}, nil
}

func (stubMatrix) GetEmployeeSkillsSummary(ctx context.Context, ns, email string) (*models.SkillsSummary, error) {
	return &models.SkillsSummary{}, nil
}

func (stubMatrix) GetTransformedSkills(ctx context.Context, ns, email string) (*models.TransformedSkillsView, error) {
	return &models.TransformedSkillsView{}, nil
}

func (stubMatrix) GetEmployeeSkillGaps(ctx context.Context, ns, email string) (*models.EmployeeSkillGaps, error) {
	return &models.EmployeeSkillGaps{}, nil
}

func (stubMatrix) GetEmployeeSkillsData(ctx context.Context, ns, email string) (*models.EmployeeSkillsData, error) {
	return &models.EmployeeSkillsData{}, nil
}

func (stubMatrix) GetTeamSkills(ctx context.Context, ns, manager string) (*models.TeamSkillsView, error) {
	return &models.TeamSkillsView{}, nil
}

type stubAnalytics struct{}

func (stubAnalytics) GetAdminSkillsAnalysis(ctx context.Context, ns string) (*models.OrganizationSkillsAnalysis, error) {
	return &models.OrganizationSkillsAnalysis{}, nil
}

func (stubAnalytics) GetDistributions(ctx context.Context, ns string) (*models.Distributions, error) {
	return &models.Distributions{}, nil
}

func (stubAnalytics) GetEmployeeRankings(ctx context.Context, ns string) (*models.EmployeeRankings, error) {
	return &models.EmployeeRankings{}, nil
}

type stubRequired struct{}

func (stubRequired) GetRequired(ctx context.Context, c, l, k string) float64 { return 0 }

func (stubRequired) GetBaselineSkills(ctx context.Context, c, l string) models.SkillRatings { return nil }

func (stubRequired) GetRequiredSkillsByBU(ctx context.Context, capability string) ([]models.RequiredSkillBaseline, error) {
	return []models.RequiredSkillBaseline{}, nil
}

func newRouter(t *testing.T, burst int) (http.Handler, *stubAssessments) {
	t.Helper()
	settings := handlers.Settings{DefaultNamespace: "Capability", RequestTimeout: time.Second, BulkRequestTimeout: time.Second}
	log := zap.NewNop()
	assessments := &stubAssessments{}

	h := Handlers{
		Assessments:    handlers.NewAssessmentHandler(assessments, settings, log),
		SkillsMatrix:   handlers.NewSkillsMatrixHandler(stubMatrix{}, settings, log),
		Analytics:      handlers.NewAnalyticsHandler(stubAnalytics{}, settings, log),
		RequiredSkills: handlers.NewRequiredSkillsHandler(stubRequired{}, settings, log),
	}
	return SetupRoutes(h, Options{JWTSecret: secret, RateRPS: 0.001, RateBurst: burst}, log), assessments
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middlewares.Claims{
		Username:         role + "-user",
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes_RoleMatrix(t *testing.T) {
	router, _ := newRouter(t, 100)

	tests := []struct {
		method, path, role string
		want               int
	}{
		{http.MethodGet, "/skills-matrix/user?email=a@b.co", "", http.StatusUnauthorized},
		{http.MethodGet, "/skills-matrix/user?email=a@b.co", middlewares.RoleStaff, http.StatusOK},
		{http.MethodGet, "/skills-matrix/user/summary?email=a@b.co", middlewares.RoleManager, http.StatusOK},
		{http.MethodGet, "/skills-matrix/admin/analysis", middlewares.RoleStaff, http.StatusForbidden},
		{http.MethodGet, "/skills-matrix/admin/analysis", middlewares.RoleManager, http.StatusOK},
		{http.MethodGet, "/skills-matrix/distributions", middlewares.RoleAdmin, http.StatusOK},
		{http.MethodGet, "/skills-matrix/rankings?limit=5", middlewares.RoleAdmin, http.StatusOK},
		{http.MethodGet, "/skills-matrix/manager/Jane", middlewares.RoleStaff, http.StatusForbidden},
		{http.MethodGet, "/skills-matrix/manager/Jane", middlewares.RoleManager, http.StatusOK},
		{http.MethodGet, "/api/skills/skill-matrix?email=a@b.co", "contractor", http.StatusOK},
		{http.MethodGet, "/api/skills/gaps?email=a@b.co", middlewares.RoleStaff, http.StatusOK},
		{http.MethodGet, "/api/skills/user-data?email=a@b.co", middlewares.RoleStaff, http.StatusOK},
		{http.MethodGet, "/api/skills/user-data?email=a@b.co", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/skills/required-skills?capability=QA", middlewares.RoleStaff, http.StatusOK},
		{http.MethodPost, "/api/skills-assessments/recompute-gaps", middlewares.RoleManager, http.StatusForbidden},
		{http.MethodPost, "/api/skills-assessments/recompute-gaps", middlewares.RoleAdmin, http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodDelete, "/skills-matrix/user", middlewares.RoleAdmin, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" as "+tt.role, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, tt.role))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRoutes_IngestionIsRateLimited(t *testing.T) {
	router, assessments := newRouter(t, 1)
	token := bearer(t, middlewares.RoleAdmin)

	send := func() int {
		body := strings.NewReader(`{"assessmentType":"self","data":[]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/skills-assessments/bulk-update-assessments", body)
		req.Header.Set("Authorization", token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
	assert.Equal(t, 1, assessments.calls)
}
