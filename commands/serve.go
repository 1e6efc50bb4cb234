package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"skillsmatrix/handlers"
	"skillsmatrix/routes"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), fromContext(cmd.Context()))
		},
	}
}

func runServe(ctx context.Context, ac *appContext) error {
	cfg, log := ac.cfg, ac.log
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Close(closeCtx, log)
	}()

	settings := handlers.SettingsFromConfig(cfg)
	router := routes.SetupRoutes(routes.Handlers{
		Assessments:    handlers.NewAssessmentHandler(a.assessments, settings, log),
		SkillsMatrix:   handlers.NewSkillsMatrixHandler(a.skillsMatrix, settings, log),
		Analytics:      handlers.NewAnalyticsHandler(a.analytics, settings, log),
		RequiredSkills: handlers.NewRequiredSkillsHandler(a.requiredSkills, settings, log),
	}, routes.Options{
		JWTSecret: cfg.JWTSecret,
		RateRPS:   cfg.RateLimit.RPS,
		RateBurst: cfg.RateLimit.Burst,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
