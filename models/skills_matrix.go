package models

type SkillCategory string

const (
	CategoryTechnical SkillCategory = "Technical"
	CategorySoft      SkillCategory = "Soft"
)

type SkillStatus string

const (
	StatusProficient SkillStatus = "Proficient"
	StatusDeveloping SkillStatus = "Developing"
)

// SkillDetail is one row of an employee's joined skill view. It is built on
// demand and never stored.
type SkillDetail struct {
	Name          string        `json:"name"`
	Category      SkillCategory `json:"category"`
	SelfRating    float64       `json:"selfRating"`
	ManagerRating float64       `json:"managerRating"`
	Average       float64       `json:"average"`
	Required      float64       `json:"required"`
	Gap           float64       `json:"gap"`
	Status        SkillStatus   `json:"status"`
}

type EmployeeSkillsView struct {
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	CareerLevel string        `json:"careerLevel"`
	Capability  string        `json:"capability"`
	Skills      []SkillDetail `json:"skills"`
}

type CategorySummary struct {
	AverageGap               float64 `json:"averageGap"`
	SkillsMeetingRequired    int     `json:"skillsMeetingRequired"`
	SkillsNeedingImprovement int     `json:"skillsNeedingImprovement"`
	LargestGap               float64 `json:"largestGap"`
	AverageRating            float64 `json:"averageRating"`
	TotalSkills              int     `json:"totalSkills"`
}

type SkillsSummary struct {
	Overall         CategorySummary `json:"overall"`
	SoftSkills      CategorySummary `json:"softSkills"`
	TechnicalSkills CategorySummary `json:"technicalSkills"`
}

// TransformedSkill is the gap-record centric view where the required level
// is back-solved from the stored average and gap.
type TransformedSkill struct {
	Skill          string        `json:"skill"`
	Category       SkillCategory `json:"category"`
	SelfRating     float64       `json:"selfRating"`
	ManagerRating  float64       `json:"managerRating"`
	RequiredRating float64       `json:"requiredRating"`
	Gap            float64       `json:"gap"`
	Average        float64       `json:"average"`
}

type TransformedSkillsView struct {
	Skills []TransformedSkill `json:"skills"`
}

// EmployeeSkillGaps is a gap record with display-ready skill names.
type EmployeeSkillGaps struct {
	EmailAddress   string             `json:"emailAddress"`
	NameOfResource string             `json:"nameOfResource"`
	CareerLevel    string             `json:"careerLevel"`
	Capability     string             `json:"capability"`
	SkillAverages  map[string]float64 `json:"skillAverages"`
	SkillGaps      map[string]float64 `json:"skillGaps"`
}

// AssessmentSkills carries the raw self and manager ratings; a missing
// assessment is an empty map.
type AssessmentSkills struct {
	SelfSkills    SkillRatings `json:"selfSkills"`
	ManagerSkills SkillRatings `json:"managerSkills"`
}

type EmployeeSkillsData struct {
	User        EmployeeSkillGaps `json:"user"`
	Assessments AssessmentSkills  `json:"assessments"`
}

type TeamSkillsView struct {
	Members []EmployeeSkillsView `json:"members"`
}
