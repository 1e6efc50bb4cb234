package models

type SkillPrevalence struct {
	Name       string  `json:"name"`
	Prevalence float64 `json:"prevalence"`
}

type CapabilitySkillGap struct {
	Name          string  `json:"name"`
	CurrentAvg    float64 `json:"currentAvg"`
	RequiredLevel float64 `json:"requiredLevel"`
	Gap           float64 `json:"gap"`
}

type CapabilityAnalysis struct {
	Capability string               `json:"capability"`
	TopSkills  []SkillPrevalence    `json:"topSkills"`
	SkillGaps  []CapabilitySkillGap `json:"skillGaps"`
}

type OrganizationSkillsAnalysis struct {
	Capabilities []CapabilityAnalysis `json:"capabilities"`
}

type DistributionStatus string

const (
	DistributionCritical DistributionStatus = "CRITICAL"
	DistributionWarning  DistributionStatus = "WARNING"
	DistributionNormal   DistributionStatus = "NORMAL"
)

type DistributionSkill struct {
	Name      string             `json:"name"`
	UserCount int                `json:"userCount"`
	Status    DistributionStatus `json:"status"`
}

type CategoryDistribution struct {
	Category SkillCategory       `json:"category"`
	Skills   []DistributionSkill `json:"skills"`
}

type BusinessUnitDistribution struct {
	BusinessUnit string                 `json:"businessUnit"`
	Categories   []CategoryDistribution `json:"categories"`
}

type GradeDistribution struct {
	Grade     string `json:"grade"`
	UserCount int    `json:"userCount"`
}

type Distributions struct {
	SkillDistribution []BusinessUnitDistribution `json:"skillDistribution"`
	GradeDistribution []GradeDistribution        `json:"gradeDistribution"`
}

type EmployeeRanking struct {
	Name    string  `json:"name"`
	Ranking int     `json:"ranking"`
	Score   float64 `json:"score"`
}

type EmployeeRankings struct {
	Rankings []EmployeeRanking `json:"rankings"`
}
