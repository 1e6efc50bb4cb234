package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skillsmatrix/models"
)

func TestSummarize(t *testing.T) {
	skills := []models.SkillDetail{
		{Name: "Communication", Category: models.CategorySoft, Average: 4, Gap: 2},
		{Name: "Leadership", Category: models.CategorySoft, Average: 2, Gap: 0},
		{Name: "Software Testing", Category: models.CategoryTechnical, Average: 3, Gap: -1.5},
	}

	got := Summarize(skills)

	assert.Equal(t, models.CategorySummary{
		AverageGap:               0.17,
		SkillsMeetingRequired:    2,
		SkillsNeedingImprovement: 1,
		LargestGap:               -1.5,
		AverageRating:            3,
		TotalSkills:              3,
	}, got.Overall)
	assert.Equal(t, models.CategorySummary{
		AverageGap:            1,
		SkillsMeetingRequired: 2,
		LargestGap:            0,
		AverageRating:         3,
		TotalSkills:           2,
	}, got.SoftSkills)
	assert.Equal(t, 1, got.TechnicalSkills.TotalSkills)
	assert.Equal(t, -1.5, got.TechnicalSkills.LargestGap)
}

func TestSummarizeCategory_Empty(t *testing.T) {
	assert.Equal(t, models.CategorySummary{}, SummarizeCategory(nil))
}
