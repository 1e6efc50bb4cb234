package matrix

import (
	"strings"

	"skillsmatrix/models"
)

// technicalKeywords is the single canonical list. A skill whose name
// contains any of these (case-insensitive) is Technical, otherwise Soft.
var technicalKeywords = []string{
	"agile",
	"analysis",
	"assurance",
	"business",
	"development",
	"engineering",
	"management",
	"optimization",
	"process",
	"project",
	"quality",
	"software",
	"standards",
	"synthesis",
	"technology",
	"test",
}

// Classify returns the category of a skill name.
func Classify(skillName string) models.SkillCategory {
	name := strings.ToLower(skillName)
	for _, kw := range technicalKeywords {
		if strings.Contains(name, kw) {
			return models.CategoryTechnical
		}
	}
	return models.CategorySoft
}
