package matrix

import (
	"sort"

	"github.com/shopspring/decimal"

	"skillsmatrix/models"
)

const (
	topSkillsLimit = 5
	skillGapsLimit = 5
)

// GradeOrder is the seniority order used for the grade distribution.
var GradeOrder = []string{
	"Professional I",
	"Professional II",
	"Professional III",
	"Professional IV",
	"Manager I",
	"Manager II",
	"Manager III",
	"Manager IV",
	"Director I",
	"Director II",
	"Director III",
	"Director IV",
}

type skillAccumulator struct {
	name        string
	sumAverage  decimal.Decimal
	sumRequired decimal.Decimal
	count       int
}

// baselineIndex maps capability|careerLevel to required levels keyed by
// display name.
type baselineIndex map[string]map[string]float64

func indexBaselines(baselines []models.RequiredSkillBaseline) baselineIndex {
	idx := make(baselineIndex, len(baselines))
	for _, b := range baselines {
		idx[b.Capability+"|"+b.CareerLevel] = NormalizeRatings(b.RequiredSkills)
	}
	return idx
}

func (idx baselineIndex) required(capability, careerLevel, name string) float64 {
	return idx[capability+"|"+careerLevel][name]
}

// AnalyzeCapabilities groups gap records by capability and reports, per
// capability, the most prevalent skills and the five largest gaps (most
// negative first). Non-finite averages are skipped. Ties keep the order in which skills were first seen,
// walking records in input order and keys in ascending order.
func AnalyzeCapabilities(records []models.GapRecord, baselines []models.RequiredSkillBaseline) models.OrganizationSkillsAnalysis {
	idx := indexBaselines(baselines)

	type capabilityAcc struct {
		skills []*skillAccumulator
		byName map[string]*skillAccumulator
	}
	byCapability := make(map[string]*capabilityAcc)
	var capabilities []string

	for _, rec := range records {
		acc, ok := byCapability[rec.Capability]
		if !ok {
			acc = &capabilityAcc{byName: make(map[string]*skillAccumulator)}
			byCapability[rec.Capability] = acc
			capabilities = append(capabilities, rec.Capability)
		}

		for _, key := range SortedKeys(rec.SkillAverages) {
			if !finite(rec.SkillAverages[key]) {
				continue
			}
			name := ReadableKey(key)
			s, ok := acc.byName[name]
			if !ok {
				s = &skillAccumulator{name: name}
				acc.byName[name] = s
				acc.skills = append(acc.skills, s)
			}
			s.sumAverage = s.sumAverage.Add(decimal.NewFromFloat(rec.SkillAverages[key]))
			s.sumRequired = s.sumRequired.Add(decimal.NewFromFloat(idx.required(rec.Capability, rec.CareerLevel, name)))
			s.count++
		}
	}

	sort.Strings(capabilities)

	out := models.OrganizationSkillsAnalysis{Capabilities: make([]models.CapabilityAnalysis, 0, len(capabilities))}
	for _, capability := range capabilities {
		acc := byCapability[capability]

		prevalence := make([]models.SkillPrevalence, 0, len(acc.skills))
		gaps := make([]models.CapabilitySkillGap, 0, len(acc.skills))
		for _, s := range acc.skills {
			current := roundTo(meanExact(s.sumAverage, s.count), 2)
			required := roundTo(meanExact(s.sumRequired, s.count), 2)

			prevalence = append(prevalence, models.SkillPrevalence{
				Name:       s.name,
				Prevalence: Round1(current / MaxRating * 100),
			})
			gaps = append(gaps, models.CapabilitySkillGap{
				Name:          s.name,
				CurrentAvg:    current,
				RequiredLevel: required,
				Gap:           Gap(current, required),
			})
		}

		sort.SliceStable(prevalence, func(i, j int) bool {
			return prevalence[i].Prevalence > prevalence[j].Prevalence
		})
		sort.SliceStable(gaps, func(i, j int) bool {
			return gaps[i].Gap < gaps[j].Gap
		})

		out.Capabilities = append(out.Capabilities, models.CapabilityAnalysis{
			Capability: capability,
			TopSkills:  truncate(prevalence, topSkillsLimit),
			SkillGaps:  truncate(gaps, skillGapsLimit),
		})
	}
	return out
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

type distributionAcc struct {
	name       string
	category   models.SkillCategory
	sumLevel   decimal.Decimal
	userCount  int
	levels     map[string]float64
	sumNegGaps decimal.Decimal
}

// ComputeDistributions counts, per business unit and category, how many
// holders of each skill sit below that skill's unit average and buckets the
// skill by severity. It also counts employees per grade.
func ComputeDistributions(records []models.GapRecord) models.Distributions {
	grades := make(map[string]int)
	units := make(map[string]map[models.SkillCategory][]*distributionAcc)
	skills := make(map[string]*distributionAcc)

	for _, rec := range records {
		grades[rec.CareerLevel]++

		unit := rec.Capability
		if _, ok := units[unit]; !ok {
			units[unit] = make(map[models.SkillCategory][]*distributionAcc)
		}

		for _, key := range SortedKeys(rec.SkillAverages) {
			if !finite(rec.SkillAverages[key]) {
				continue
			}
			name := ReadableKey(key)
			id := unit + "|" + name
			acc, ok := skills[id]
			if !ok {
				acc = &distributionAcc{name: name, category: Classify(name), levels: make(map[string]float64)}
				skills[id] = acc
				units[unit][acc.category] = append(units[unit][acc.category], acc)
			}

			level := rec.SkillAverages[key]
			acc.sumLevel = acc.sumLevel.Add(decimal.NewFromFloat(level))
			acc.userCount++
			acc.levels[rec.EmailAddress] = level
			if g := rec.SkillGaps[key]; g < 0 && finite(g) {
				acc.sumNegGaps = acc.sumNegGaps.Add(decimal.NewFromFloat(g))
			}
		}
	}

	unitNames := make([]string, 0, len(units))
	for name := range units {
		unitNames = append(unitNames, name)
	}
	sort.Strings(unitNames)

	out := models.Distributions{
		SkillDistribution: []models.BusinessUnitDistribution{},
		GradeDistribution: gradeDistribution(grades),
	}
	for _, unit := range unitNames {
		byCategory := units[unit]
		categories := make([]models.SkillCategory, 0, len(byCategory))
		for c := range byCategory {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

		var dists []models.CategoryDistribution
		for _, c := range categories {
			var items []models.DistributionSkill
			for _, acc := range byCategory[c] {
				average, _ := meanExact(acc.sumLevel, acc.userCount).Float64()
				below := 0
				for _, level := range acc.levels {
					if level < average {
						below++
					}
				}
				if below == 0 {
					continue
				}
				averageGap, _ := meanExact(acc.sumNegGaps, acc.userCount).Float64()
				items = append(items, models.DistributionSkill{
					Name:      acc.name,
					UserCount: below,
					Status:    DistributionStatusFor(averageGap, below, acc.userCount),
				})
			}
			if len(items) == 0 {
				continue
			}
			sort.SliceStable(items, func(i, j int) bool { return items[i].UserCount > items[j].UserCount })
			dists = append(dists, models.CategoryDistribution{Category: c, Skills: items})
		}
		if len(dists) == 0 {
			continue
		}
		out.SkillDistribution = append(out.SkillDistribution, models.BusinessUnitDistribution{
			BusinessUnit: unit,
			Categories:   dists,
		})
	}
	return out
}

// DistributionStatusFor buckets a skill. averageGap is the mean of the
// negative gaps over all holders, so it is zero or negative.
func DistributionStatusFor(averageGap float64, below, total int) models.DistributionStatus {
	if total == 0 {
		return models.DistributionNormal
	}
	pctBelow := float64(below) / float64(total) * 100

	switch {
	case pctBelow > 50 || averageGap < -2:
		return models.DistributionCritical
	case pctBelow > 25 || averageGap < -1:
		return models.DistributionWarning
	}
	return models.DistributionNormal
}

func gradeRank(grade string) int {
	for i, g := range GradeOrder {
		if g == grade {
			return i
		}
	}
	return len(GradeOrder)
}

func gradeDistribution(counts map[string]int) []models.GradeDistribution {
	out := make([]models.GradeDistribution, 0, len(counts))
	for grade, n := range counts {
		out = append(out, models.GradeDistribution{Grade: grade, UserCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := gradeRank(out[i].Grade), gradeRank(out[j].Grade)
		if ri != rj {
			return ri < rj
		}
		return out[i].Grade < out[j].Grade
	})
	return out
}

// RankEmployees scores every employee by the mean of their positive skill
// averages (one decimal) and ranks them 1..n, highest first. Equal scores
// keep input order. No truncation happens here.
func RankEmployees(records []models.GapRecord) models.EmployeeRankings {
	type scored struct {
		name  string
		score float64
	}

	all := make([]scored, 0, len(records))
	for _, rec := range records {
		sum := decimal.Zero
		n := 0
		for _, key := range SortedKeys(rec.SkillAverages) {
			if v := rec.SkillAverages[key]; v > 0 && finite(v) {
				sum = sum.Add(decimal.NewFromFloat(v))
				n++
			}
		}
		all = append(all, scored{name: rec.NameOfResource, score: roundTo(meanExact(sum, n), 1)})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	out := models.EmployeeRankings{Rankings: make([]models.EmployeeRanking, 0, len(all))}
	for i, s := range all {
		out.Rankings = append(out.Rankings, models.EmployeeRanking{
			Name:    s.name,
			Ranking: i + 1,
			Score:   s.score,
		})
	}
	return out
}
