package services

import (
	"context"

	"skillsmatrix/matrix"
	"skillsmatrix/models"
	repository "skillsmatrix/repositories"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService computes the organization-wide aggregates of a
// namespace. Every call rescans the gap records.
type AnalyticsService interface {
	GetAdminSkillsAnalysis(ctx context.Context, namespace string) (*models.OrganizationSkillsAnalysis, error)
	GetDistributions(ctx context.Context, namespace string) (*models.Distributions, error)
	GetEmployeeRankings(ctx context.Context, namespace string) (*models.EmployeeRankings, error)
}

type analyticsService struct {
	repo             repository.AssessmentRepository
	required         repository.RequiredSkillsRepository
	defaultNamespace string
	log              *zap.Logger
}

func NewAnalyticsService(repo repository.AssessmentRepository, required repository.RequiredSkillsRepository, defaultNamespace string, log *zap.Logger) AnalyticsService {
	return &analyticsService{
		repo:             repo,
		required:         required,
		defaultNamespace: defaultNamespace,
		log:              log,
	}
}

func (s *analyticsService) namespace(ns string) string {
	if ns != "" {
		return ns
	}
	return s.defaultNamespace
}

func (s *analyticsService) gapRecords(ctx context.Context, ns string) ([]models.GapRecord, error) {
	records, err := s.repo.ListGapRecords(ctx, ns)
	if err != nil {
		s.log.Error("gap record scan failed", zap.String("namespace", ns), zap.Error(err))
		return nil, unknown("list gap records", err)
	}
	return records, nil
}

func (s *analyticsService) GetAdminSkillsAnalysis(ctx context.Context, namespace string) (*models.OrganizationSkillsAnalysis, error) {
	ns := s.namespace(namespace)

	var (
		records   []models.GapRecord
		baselines []models.RequiredSkillBaseline
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.gapRecords(gctx, ns)
		return err
	})
	g.Go(func() error {
		var err error
		baselines, err = s.required.ListAll(gctx)
		if err != nil {
			s.log.Error("baseline scan failed", zap.Error(err))
			return unknown("list required skills", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := matrix.AnalyzeCapabilities(records, baselines)
	return &analysis, nil
}

func (s *analyticsService) GetDistributions(ctx context.Context, namespace string) (*models.Distributions, error) {
	records, err := s.gapRecords(ctx, s.namespace(namespace))
	if err != nil {
		return nil, err
	}
	dist := matrix.ComputeDistributions(records)
	return &dist, nil
}

func (s *analyticsService) GetEmployeeRankings(ctx context.Context, namespace string) (*models.EmployeeRankings, error) {
	records, err := s.gapRecords(ctx, s.namespace(namespace))
	if err != nil {
		return nil, err
	}
	rankings := matrix.RankEmployees(records)
	return &rankings, nil
}
