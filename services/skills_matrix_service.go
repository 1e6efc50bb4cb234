package services

import (
	"context"
	"errors"

	"skillsmatrix/matrix"
	"skillsmatrix/models"
	repository "skillsmatrix/repositories"
	"skillsmatrix/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type SkillsMatrixService interface {
	GetEmployeeSkills(ctx context.Context, namespace, email string) (*models.EmployeeSkillsView, error)
	GetEmployeeSkillsSummary(ctx context.Context, namespace, email string) (*models.SkillsSummary, error)
	GetTransformedSkills(ctx context.Context, namespace, email string) (*models.TransformedSkillsView, error)
	GetEmployeeSkillGaps(ctx context.Context, namespace, email string) (*models.EmployeeSkillGaps, error)
	GetEmployeeSkillsData(ctx context.Context, namespace, email string) (*models.EmployeeSkillsData, error)
	GetTeamSkills(ctx context.Context, namespace, managerName string) (*models.TeamSkillsView, error)
}

type skillsMatrixService struct {
	repo     repository.AssessmentRepository
	required RequiredSkillsService

	defaultNamespace string
	concurrency      int

	log *zap.Logger
}

// NewSkillsMatrixService builds the per-employee joiner. concurrency bounds
// the number of employees joined in parallel for a team.
func NewSkillsMatrixService(repo repository.AssessmentRepository, required RequiredSkillsService, defaultNamespace string, concurrency int, log *zap.Logger) SkillsMatrixService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &skillsMatrixService{
		repo:             repo,
		required:         required,
		defaultNamespace: defaultNamespace,
		concurrency:      concurrency,
		log:              log,
	}
}

func (s *skillsMatrixService) namespace(ns string) string {
	if ns != "" {
		return ns
	}
	return s.defaultNamespace
}

// loadSources reads the gap record, self and manager assessments
// concurrently. The baseline lookup starts as soon as the gap record is
// known. Only a missing or failing gap record fails the call; the reads are
// independent and may observe a torn state under concurrent writes.
func (s *skillsMatrixService) loadSources(ctx context.Context, ns, email string) (matrix.EmployeeSources, error) {
	var src matrix.EmployeeSources
	if !utils.ValidateEmail(email) {
		return src, newValidationError("invalid email", map[string]string{"email": "email"})
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		gap, err := s.repo.FindGapRecord(gctx, ns, email)
		if err != nil {
			return err
		}
		src.Gap = *gap
		src.Required = s.required.GetBaselineSkills(gctx, gap.Capability, gap.CareerLevel)
		return nil
	})

	g.Go(func() error {
		self, err := s.repo.FindSelfAssessment(gctx, ns, email)
		if err != nil {
			s.optionalMiss("self assessment", email, err)
			return nil
		}
		src.Self = self.Skills
		return nil
	})

	g.Go(func() error {
		manager, err := s.repo.FindManagerAssessment(gctx, ns, email)
		if err != nil {
			s.optionalMiss("manager assessment", email, err)
			return nil
		}
		src.Manager = manager.Skills
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return src, &NotFoundError{Entity: "skills assessment", Key: email}
		}
		s.log.Error("gap record lookup failed", zap.String("email", email), zap.Error(err))
		return src, unknown("get employee skills", err)
	}
	return src, nil
}

func (s *skillsMatrixService) optionalMiss(source, email string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	s.log.Warn("optional source unavailable, using empty ratings",
		zap.String("source", source),
		zap.String("email", email),
		zap.Error(err))
}

func (s *skillsMatrixService) GetEmployeeSkills(ctx context.Context, namespace, email string) (*models.EmployeeSkillsView, error) {
	src, err := s.loadSources(ctx, s.namespace(namespace), email)
	if err != nil {
		return nil, err
	}
	view := matrix.BuildEmployeeView(src)
	return &view, nil
}

func (s *skillsMatrixService) GetEmployeeSkillsSummary(ctx context.Context, namespace, email string) (*models.SkillsSummary, error) {
	view, err := s.GetEmployeeSkills(ctx, namespace, email)
	if err != nil {
		return nil, err
	}
	summary := matrix.Summarize(view.Skills)
	return &summary, nil
}

func (s *skillsMatrixService) GetTransformedSkills(ctx context.Context, namespace, email string) (*models.TransformedSkillsView, error) {
	src, err := s.loadSources(ctx, s.namespace(namespace), email)
	if err != nil {
		return nil, err
	}
	return &models.TransformedSkillsView{
		Skills: matrix.TransformSkills(src.Gap, src.Self, src.Manager),
	}, nil
}

func (s *skillsMatrixService) GetEmployeeSkillGaps(ctx context.Context, namespace, email string) (*models.EmployeeSkillGaps, error) {
	if !utils.ValidateEmail(email) {
		return nil, newValidationError("invalid email", map[string]string{"email": "email"})
	}

	gap, err := s.repo.FindGapRecord(ctx, s.namespace(namespace), email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "skills assessment", Key: email}
	}
	if err != nil {
		return nil, unknown("get skill gaps", err)
	}

	view := skillGapsOf(*gap)
	return &view, nil
}

// GetEmployeeSkillsData pairs the display-ready gap record with the raw self
// and manager ratings. Only the gap record is mandatory.
func (s *skillsMatrixService) GetEmployeeSkillsData(ctx context.Context, namespace, email string) (*models.EmployeeSkillsData, error) {
	src, err := s.loadSources(ctx, s.namespace(namespace), email)
	if err != nil {
		return nil, err
	}
	return &models.EmployeeSkillsData{
		User: skillGapsOf(src.Gap),
		Assessments: models.AssessmentSkills{
			SelfSkills:    orEmpty(src.Self),
			ManagerSkills: orEmpty(src.Manager),
		},
	}, nil
}

func skillGapsOf(gap models.GapRecord) models.EmployeeSkillGaps {
	return models.EmployeeSkillGaps{
		EmailAddress:   gap.EmailAddress,
		NameOfResource: gap.NameOfResource,
		CareerLevel:    gap.CareerLevel,
		Capability:     gap.Capability,
		SkillAverages:  matrix.NormalizeRatings(gap.SkillAverages),
		SkillGaps:      matrix.NormalizeRatings(gap.SkillGaps),
	}
}

func orEmpty(r models.SkillRatings) models.SkillRatings {
	if r == nil {
		return models.SkillRatings{}
	}
	return r
}

// GetTeamSkills joins every direct report of managerName. Reports without a
// gap record are left out; at most s.concurrency joins run at once.
func (s *skillsMatrixService) GetTeamSkills(ctx context.Context, namespace, managerName string) (*models.TeamSkillsView, error) {
	if managerName == "" {
		return nil, newValidationError("manager name is required", map[string]string{"managerName": "required"})
	}
	ns := s.namespace(namespace)

	reports, err := s.repo.ListReportsByManager(ctx, ns, managerName)
	if err != nil {
		s.log.Error("report lookup failed", zap.String("manager", managerName), zap.Error(err))
		return nil, unknown("list reports", err)
	}

	views := make([]*models.EmployeeSkillsView, len(reports))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, report := range reports {
		g.Go(func() error {
			src, err := s.loadSources(gctx, ns, report.Email)
			if err != nil {
				var nf *NotFoundError
				var ve *ValidationError
				if errors.As(err, &nf) || errors.As(err, &ve) {
					s.log.Debug("report skipped", zap.String("email", report.Email), zap.Error(err))
					return nil
				}
				return err
			}
			view := matrix.BuildEmployeeView(src)
			views[i] = &view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	members := make([]models.EmployeeSkillsView, 0, len(views))
	for _, v := range views {
		if v != nil {
			members = append(members, *v)
		}
	}
	return &models.TeamSkillsView{Members: members}, nil
}
