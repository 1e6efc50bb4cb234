package services

import (
	"context"
	"errors"
	"strings"

	"skillsmatrix/models"
	repository "skillsmatrix/repositories"

	"go.uber.org/zap"
)

type RequiredSkillsService interface {
	// GetRequired returns the required level of one skill, or 0 when no
	// baseline or key exists. It never fails.
	GetRequired(ctx context.Context, capability, careerLevel, skillKey string) float64
	// GetBaselineSkills returns the whole required map for a role, empty
	// when absent.
	GetBaselineSkills(ctx context.Context, capability, careerLevel string) models.SkillRatings
	// GetRequiredSkillsByBU lists the baselines of one capability. The
	// capability is mandatory and matched exactly.
	GetRequiredSkillsByBU(ctx context.Context, capability string) ([]models.RequiredSkillBaseline, error)
}

type requiredSkillsService struct {
	repo repository.RequiredSkillsRepository
	log  *zap.Logger
}

func NewRequiredSkillsService(repo repository.RequiredSkillsRepository, log *zap.Logger) RequiredSkillsService {
	return &requiredSkillsService{
		repo: repo,
		log:  log,
	}
}

func (s *requiredSkillsService) GetRequired(ctx context.Context, capability, careerLevel, skillKey string) float64 {
	return s.GetBaselineSkills(ctx, capability, careerLevel)[skillKey]
}

func (s *requiredSkillsService) GetBaselineSkills(ctx context.Context, capability, careerLevel string) models.SkillRatings {
	baseline, err := s.repo.FindBaseline(ctx, capability, careerLevel)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("required skills lookup failed, using no baseline",
				zap.String("capability", capability),
				zap.String("career_level", careerLevel),
				zap.Error(err))
		}
		return models.SkillRatings{}
	}
	if baseline.RequiredSkills == nil {
		return models.SkillRatings{}
	}
	return baseline.RequiredSkills
}

func (s *requiredSkillsService) GetRequiredSkillsByBU(ctx context.Context, capability string) ([]models.RequiredSkillBaseline, error) {
	if strings.TrimSpace(capability) == "" {
		return nil, newValidationError("capability is required", map[string]string{"capability": "required"})
	}

	baselines, err := s.repo.ListByCapability(ctx, capability)
	if err != nil {
		s.log.Error("list required skills failed", zap.String("capability", capability), zap.Error(err))
		return nil, unknown("list required skills", err)
	}
	if len(baselines) == 0 {
		return nil, &NotFoundError{Entity: "required skills", Key: capability}
	}
	return baselines, nil
}
