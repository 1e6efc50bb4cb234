package matrix

import "skillsmatrix/models"

// Summarize reduces an employee's joined skills to overall, soft and
// technical summaries.
func Summarize(skills []models.SkillDetail) models.SkillsSummary {
	var soft, technical []models.SkillDetail
	for _, s := range skills {
		switch s.Category {
		case models.CategorySoft:
			soft = append(soft, s)
		case models.CategoryTechnical:
			technical = append(technical, s)
		}
	}

	return models.SkillsSummary{
		Overall:         SummarizeCategory(skills),
		SoftSkills:      SummarizeCategory(soft),
		TechnicalSkills: SummarizeCategory(technical),
	}
}

// SummarizeCategory computes the metrics for one group of skills. The
// largest gap is the most negative one; an empty group reports zeros.
func SummarizeCategory(skills []models.SkillDetail) models.CategorySummary {
	summary := models.CategorySummary{TotalSkills: len(skills)}
	if len(skills) == 0 {
		return summary
	}

	gaps := make([]float64, 0, len(skills))
	ratings := make([]float64, 0, len(skills))
	largest := skills[0].Gap
	for _, s := range skills {
		gaps = append(gaps, s.Gap)
		ratings = append(ratings, s.Average)
		if s.Gap >= 0 {
			summary.SkillsMeetingRequired++
		} else {
			summary.SkillsNeedingImprovement++
		}
		if s.Gap < largest {
			largest = s.Gap
		}
	}

	summary.AverageGap = Mean(gaps)
	summary.AverageRating = Mean(ratings)
	summary.LargestGap = largest
	return summary
}
