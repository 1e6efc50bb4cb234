package services

import (
	"context"
	"errors"
	"testing"

	"skillsmatrix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetRequired(t *testing.T) {
	repo := &fakeRequiredRepo{baselines: []models.RequiredSkillBaseline{
		{Capability: "QA", CareerLevel: "Professional I", RequiredSkills: models.SkillRatings{"softwareTesting": 4}},
	}}
	svc := NewRequiredSkillsService(repo, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, 4.0, svc.GetRequired(ctx, "QA", "Professional I", "softwareTesting"))
	assert.Zero(t, svc.GetRequired(ctx, "QA", "Professional I", "leadership"))
	assert.Zero(t, svc.GetRequired(ctx, "QA", "Director I", "softwareTesting"))

	failing := NewRequiredSkillsService(&fakeRequiredRepo{err: errors.New("down")}, zap.NewNop())
	assert.Zero(t, failing.GetRequired(ctx, "QA", "Professional I", "softwareTesting"))
	assert.NotNil(t, failing.GetBaselineSkills(ctx, "QA", "Professional I"))
}

func TestGetRequiredSkillsByBU(t *testing.T) {
	repo := &fakeRequiredRepo{baselines: []models.RequiredSkillBaseline{
		{Capability: "QA", CareerLevel: "Professional I"},
		{Capability: "QA", CareerLevel: "Professional II"},
		{Capability: "QAX", CareerLevel: "Professional I"},
		{Capability: "SW", CareerLevel: "Professional I"},
	}}
	svc := NewRequiredSkillsService(repo, zap.NewNop())

	baselines, err := svc.GetRequiredSkillsByBU(context.Background(), "QA")
	require.NoError(t, err)
	assert.Len(t, baselines, 2)

	for _, b := range baselines {
		assert.Equal(t, "QA", b.Capability)
	}

	_, err = svc.GetRequiredSkillsByBU(context.Background(), "HR")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = svc.GetRequiredSkillsByBU(context.Background(), " ")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "required", ve.Fields["capability"])

	failing := NewRequiredSkillsService(&fakeRequiredRepo{err: errors.New("down")}, zap.NewNop())
	_, err = failing.GetRequiredSkillsByBU(context.Background(), "QA")
	assert.ErrorIs(t, err, ErrUnknown)
}
