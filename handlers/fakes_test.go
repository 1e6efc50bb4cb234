package handlers

import (
	"context"
	"time"

	"skillsmatrix/models"
	service "skillsmatrix/services"
)

var testSettings = Settings{
	DefaultNamespace:   "Capability",
	RequestTimeout:     time.Second,
	BulkRequestTimeout: time.Second,
}

type fakeAssessmentService struct {
	req        models.BulkUpdateRequest
	uploadedBy string
	namespace  string
	result     *models.BulkUpsertResult
	err        error
}

func (f *fakeAssessmentService) BulkUpsert(ctx context.Context, req models.BulkUpdateRequest, uploadedBy string) (*models.BulkUpsertResult, error) {
	f.req = req
	f.uploadedBy = uploadedBy
	return f.result, f.err
}

func (f *fakeAssessmentService) RecomputeGaps(ctx context.Context, namespace string) (*models.BulkUpsertResult, error) {
	f.namespace = namespace
	return f.result, f.err
}

type fakeSkillsMatrixService struct {
	namespace string
	email     string
	view      *models.EmployeeSkillsView
	team      *models.TeamSkillsView
	err       error
}

func (f *fakeSkillsMatrixService) GetEmployeeSkills(ctx context.Context, namespace, email string) (*models.EmployeeSkillsView, error) {
	f.namespace, f.email = namespace, email
	return f.view, f.err
}

func (f *fakeSkillsMatrixService) GetEmployeeSkillsSummary(ctx context.Context, namespace, email string) (*models.SkillsSummary, error) {
	f.namespace, f.email = namespace, email
	if f.err != nil {
		return nil, f.err
	}
	return &models.SkillsSummary{Overall: models.CategorySummary{TotalSkills: 2}}, nil
}

func (f *fakeSkillsMatrixService) GetTransformedSkills(ctx context.Context, namespace, email string) (*models.TransformedSkillsView, error) {
	f.namespace, f.email = namespace, email
	if f.err != nil {
		return nil, f.err
	}
	return &models.TransformedSkillsView{Skills: []models.TransformedSkill{{Skill: "Testing", RequiredRating: 3}}}, nil
}

func (f *fakeSkillsMatrixService) GetEmployeeSkillGaps(ctx context.Context, namespace, email string) (*models.EmployeeSkillGaps, error) {
	f.namespace, f.email = namespace, email
	if f.err != nil {
		return nil, f.err
	}
	return &models.EmployeeSkillGaps{EmailAddress: email}, nil
}

func (f *fakeSkillsMatrixService) GetEmployeeSkillsData(ctx context.Context, namespace, email string) (*models.EmployeeSkillsData, error) {
	f.namespace, f.email = namespace, email
	if f.err != nil {
		return nil, f.err
	}
	return &models.EmployeeSkillsData{
		User:        models.EmployeeSkillGaps{EmailAddress: email},
		Assessments: models.AssessmentSkills{SelfSkills: models.SkillRatings{"testing": 4}, ManagerSkills: models.SkillRatings{}},
	}, nil
}

func (f *fakeSkillsMatrixService) GetTeamSkills(ctx context.Context, namespace, managerName string) (*models.TeamSkillsView, error) {
	f.namespace = namespace
	f.email = managerName
	return f.team, f.err
}

type fakeAnalyticsService struct {
	namespace string
	rankings  *models.EmployeeRankings
	err       error
}

func (f *fakeAnalyticsService) GetAdminSkillsAnalysis(ctx context.Context, namespace string) (*models.OrganizationSkillsAnalysis, error) {
	f.namespace = namespace
	if f.err != nil {
		return nil, f.err
	}
	return &models.OrganizationSkillsAnalysis{Capabilities: []models.CapabilityAnalysis{}}, nil
}

func (f *fakeAnalyticsService) GetDistributions(ctx context.Context, namespace string) (*models.Distributions, error) {
	f.namespace = namespace
	if f.err != nil {
		return nil, f.err
	}
	return &models.Distributions{}, nil
}

func (f *fakeAnalyticsService) GetEmployeeRankings(ctx context.Context, namespace string) (*models.EmployeeRankings, error) {
	f.namespace = namespace
	return f.rankings, f.err
}

type fakeRequiredSkillsService struct {
	capability string
	baselines  []models.RequiredSkillBaseline
	err        error
}

func (f *fakeRequiredSkillsService) GetRequired(ctx context.Context, capability, careerLevel, skillKey string) float64 {
	return 0
}

func (f *fakeRequiredSkillsService) GetBaselineSkills(ctx context.Context, capability, careerLevel string) models.SkillRatings {
	return nil
}

func (f *fakeRequiredSkillsService) GetRequiredSkillsByBU(ctx context.Context, capability string) ([]models.RequiredSkillBaseline, error) {
	f.capability = capability
	return f.baselines, f.err
}

var (
	_ service.AssessmentService     = (*fakeAssessmentService)(nil)
	_ service.SkillsMatrixService   = (*fakeSkillsMatrixService)(nil)
	_ service.AnalyticsService      = (*fakeAnalyticsService)(nil)
	_ service.RequiredSkillsService = (*fakeRequiredSkillsService)(nil)
)
