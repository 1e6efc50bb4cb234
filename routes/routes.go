package routes

import (
	"net/http"

	"skillsmatrix/handlers"
	"skillsmatrix/metrics"
	"skillsmatrix/middlewares"

	"go.uber.org/zap"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Assessments    *handlers.AssessmentHandler
	SkillsMatrix   *handlers.SkillsMatrixHandler
	Analytics      *handlers.AnalyticsHandler
	RequiredSkills *handlers.RequiredSkillsHandler
}

type Options struct {
	JWTSecret string
	RateRPS   float64
	RateBurst int
}

func SetupRoutes(h Handlers, opts Options, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	jwtMiddleware := middlewares.JWTMiddleware(opts.JWTSecret)
	limiter := middlewares.NewRateLimiter(opts.RateRPS, opts.RateBurst, middlewares.KeyByUserOrIP())

	admin := middlewares.RequireRoles(middlewares.RoleAdmin)
	adminOrManager := middlewares.RequireRoles(middlewares.RoleAdmin, middlewares.RoleManager)
	anyEmployee := middlewares.RequireRoles(middlewares.RoleAdmin, middlewares.RoleManager, middlewares.RoleStaff)

	protect := func(role func(http.Handler) http.Handler, fn http.HandlerFunc) http.Handler {
		return jwtMiddleware(role(fn))
	}

	// Ingestion, rate limited per caller
	mux.Handle("POST /api/skills-assessments/bulk-update-assessments",
		jwtMiddleware(admin(limiter.Handler(http.HandlerFunc(h.Assessments.BulkUpdateAssessments)))))
	mux.Handle("POST /api/skills-assessments/recompute-gaps",
		jwtMiddleware(admin(limiter.Handler(http.HandlerFunc(h.Assessments.RecomputeGaps)))))

	// Per-employee views
	mux.Handle("GET /skills-matrix/user", protect(anyEmployee, h.SkillsMatrix.GetEmployeeSkills))
	mux.Handle("GET /skills-matrix/user/summary", protect(anyEmployee, h.SkillsMatrix.GetEmployeeSkillsSummary))
	mux.Handle("GET /skills-matrix/manager/{managerName}", protect(adminOrManager, h.SkillsMatrix.GetTeamSkills))

	// Organization analytics
	mux.Handle("GET /skills-matrix/admin/analysis", protect(adminOrManager, h.Analytics.GetAdminSkillsAnalysis))
	mux.Handle("GET /skills-matrix/distributions", protect(adminOrManager, h.Analytics.GetDistributions))
	mux.Handle("GET /skills-matrix/rankings", protect(adminOrManager, h.Analytics.GetEmployeeRankings))

	// Skills API, any authenticated caller
	mux.Handle("GET /api/skills/skill-matrix", jwtMiddleware(http.HandlerFunc(h.SkillsMatrix.GetTransformedSkills)))
	mux.Handle("GET /api/skills/gaps", jwtMiddleware(http.HandlerFunc(h.SkillsMatrix.GetEmployeeSkillGaps)))
	mux.Handle("GET /api/skills/user-data", jwtMiddleware(http.HandlerFunc(h.SkillsMatrix.GetEmployeeSkillsData)))
	mux.Handle("GET /api/skills/required-skills", jwtMiddleware(http.HandlerFunc(h.RequiredSkills.GetRequiredSkills)))

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middlewares.RequestID(
		middlewares.Logging(log)(
			middlewares.Recovery(log)(
				middlewares.Metrics(mux))))
}
