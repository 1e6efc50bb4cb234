package matrix

import (
	"sort"

	"skillsmatrix/models"
)

// EmployeeSources is everything the joiner reads for one employee. Gap is
// mandatory; the rating maps may be nil.
type EmployeeSources struct {
	Gap      models.GapRecord
	Self     models.SkillRatings
	Manager  models.SkillRatings
	Required models.SkillRatings
}

// SkillKeyUnion returns every raw skill key found in any of the maps, once
// each, in ascending order.
func SkillKeyUnion(maps ...models.SkillRatings) []string {
	seen := make(map[string]struct{})
	for _, m := range maps {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JoinSkills builds one SkillDetail per key in the union of the gap record's
// averages and gaps and the self, manager and required maps. Missing
// sources read as zero. The result is sorted by display name.
func JoinSkills(src EmployeeSources) []models.SkillDetail {
	keys := SkillKeyUnion(src.Gap.SkillAverages, src.Gap.SkillGaps, src.Self, src.Manager, src.Required)

	skills := make([]models.SkillDetail, 0, len(keys))
	for _, key := range keys {
		skills = append(skills, DeriveSkill(
			ReadableKey(key),
			src.Self[key],
			src.Manager[key],
			src.Gap.SkillGaps[key],
			src.Required[key],
		))
	}

	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Name < skills[j].Name
	})
	return skills
}

// DeriveSkill fills in the computed fields of one skill row.
func DeriveSkill(name string, self, manager, gap, required float64) models.SkillDetail {
	return models.SkillDetail{
		Name:          name,
		Category:      Classify(name),
		SelfRating:    self,
		ManagerRating: manager,
		Average:       Average(self, manager),
		Required:      required,
		Gap:           gap,
		Status:        Status(gap),
	}
}

// BuildEmployeeView joins the sources and attaches the gap record's
// identity fields.
func BuildEmployeeView(src EmployeeSources) models.EmployeeSkillsView {
	return models.EmployeeSkillsView{
		Email:       src.Gap.EmailAddress,
		Name:        src.Gap.NameOfResource,
		CareerLevel: src.Gap.CareerLevel,
		Capability:  src.Gap.Capability,
		Skills:      JoinSkills(src),
	}
}

// TransformSkills builds the gap-record centric view: one row per skill
// average, required back-solved from the stored average and gap, Technical
// rows first and then by name.
func TransformSkills(gap models.GapRecord, self, manager models.SkillRatings) []models.TransformedSkill {
	keys := SortedKeys(gap.SkillAverages)

	out := make([]models.TransformedSkill, 0, len(keys))
	for _, key := range keys {
		name := ReadableKey(key)
		average := gap.SkillAverages[key]
		g := gap.SkillGaps[key]

		out = append(out, models.TransformedSkill{
			Skill:          name,
			Category:       Classify(name),
			SelfRating:     self[key],
			ManagerRating:  manager[key],
			RequiredRating: BackSolveRequired(average, g),
			Gap:            g,
			Average:        average,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category == models.CategoryTechnical
		}
		return out[i].Skill < out[j].Skill
	})
	return out
}

// DeriveGapRecord computes a gap record from the self and manager ratings
// and the baseline: average is the mean of whichever of the two ratings
// exist (0 when neither does), gap = average - required.
func DeriveGapRecord(self models.SelfAssessment, manager, required models.SkillRatings) models.GapRecord {
	keys := SkillKeyUnion(self.Skills, manager, required)

	averages := make(models.SkillRatings, len(keys))
	gaps := make(models.SkillRatings, len(keys))
	for _, key := range keys {
		present := make([]float64, 0, 2)
		if v, ok := self.Skills[key]; ok {
			present = append(present, v)
		}
		if v, ok := manager[key]; ok {
			present = append(present, v)
		}
		avg := AveragePresent(present...)
		averages[key] = avg
		gaps[key] = Gap(avg, required[key])
	}

	return models.GapRecord{
		EmailAddress:   self.EmailAddress,
		NameOfResource: self.NameOfResource,
		CareerLevel:    self.CareerLevelOfResource,
		Capability:     self.Capability,
		SkillAverages:  averages,
		SkillGaps:      gaps,
	}
}
