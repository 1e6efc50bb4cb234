package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssessmentType names a kind of ingestible record and the collection it
// lands in.
type AssessmentType string

const (
	AssessmentSelf     AssessmentType = "self"
	AssessmentManager  AssessmentType = "manager"
	AssessmentGap      AssessmentType = "gap"
	AssessmentTaxonomy AssessmentType = "taxonomy"
)

// CollectionKind is the suffix the naming policy appends to a namespace.
func (t AssessmentType) CollectionKind() string {
	switch t {
	case AssessmentSelf:
		return "selfAssessments"
	case AssessmentManager:
		return "managerAssessments"
	case AssessmentGap:
		return "gapAssessments"
	case AssessmentTaxonomy:
		return "taxonomy"
	}
	return ""
}

// KeyField is the natural key every record of this type is upserted on.
func (t AssessmentType) KeyField() string {
	switch t {
	case AssessmentManager:
		return "emailOfResource"
	case AssessmentTaxonomy:
		return "docId"
	}
	return "emailAddress"
}

func (t AssessmentType) Valid() bool {
	return t.CollectionKind() != ""
}

// SkillRatings maps a camelCase skill key to a numeric rating.
type SkillRatings map[string]float64

// Record is anything the batch upsert pipeline can write: it knows its own
// natural key and accepts the write timestamp.
type Record interface {
	NaturalKey() string
	Touch(at time.Time)
}

// Assessment is the shape shared by self and manager assessments.
type Assessment struct {
	ID                    primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Timestamp             time.Time          `json:"timestamp" bson:"timestamp" validate:"required"`
	EmailAddress          string             `json:"emailAddress" bson:"emailAddress" validate:"required,assessment_email"`
	NameOfResource        string             `json:"nameOfResource" bson:"nameOfResource" validate:"required"`
	EmailOfResource       string             `json:"emailOfResource,omitempty" bson:"emailOfResource,omitempty" validate:"omitempty,assessment_email"`
	CareerLevelOfResource string             `json:"careerLevelOfResource" bson:"careerLevelOfResource" validate:"required"`
	NameOfRespondent      string             `json:"nameOfRespondent" bson:"nameOfRespondent" validate:"required"`
	Capability            string             `json:"capability" bson:"capability" validate:"required"`
	Skills                SkillRatings       `json:"skills" bson:"skills" validate:"required,dive,keys,skill_key,endkeys,min=0,max=6"`
	LastUpdated           time.Time          `json:"lastUpdated" bson:"lastUpdated"`
}

func (a *Assessment) Touch(at time.Time) { a.LastUpdated = at }

// SelfAssessment is keyed by the employee's own email.
type SelfAssessment struct {
	Assessment `bson:",inline"`
}

func (s *SelfAssessment) NaturalKey() string { return s.EmailAddress }

// ManagerAssessment is submitted by a manager about a report and keyed by
// the report's email.
type ManagerAssessment struct {
	Assessment `bson:",inline"`
}

func (m *ManagerAssessment) NaturalKey() string { return m.EmailOfResource }

// GapRecord is the anchor entity of the per-employee view.
type GapRecord struct {
	ID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	EmailAddress   string             `json:"emailAddress" bson:"emailAddress" validate:"required,assessment_email"`
	NameOfResource string             `json:"nameOfResource" bson:"nameOfResource" validate:"required"`
	CareerLevel    string             `json:"careerLevel" bson:"careerLevel" validate:"required"`
	Capability     string             `json:"capability" bson:"capability" validate:"required"`
	SkillAverages  SkillRatings       `json:"skillAverages" bson:"skillAverages" validate:"dive,keys,skill_key,endkeys,min=0,max=6"`
	SkillGaps      SkillRatings       `json:"skillGaps" bson:"skillGaps" validate:"dive,keys,skill_key,endkeys,min=-6,max=6"`
	LastUpdated    time.Time          `json:"lastUpdated" bson:"lastUpdated"`
}

func (g *GapRecord) NaturalKey() string { return g.EmailAddress }
func (g *GapRecord) Touch(at time.Time) { g.LastUpdated = at }

// TaxonomyRecord is a skill catalog entry. Only the ingestion path touches
// it; the catalog itself is maintained elsewhere.
type TaxonomyRecord struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	DocID       string             `json:"docId" bson:"docId" validate:"required"`
	Title       string             `json:"title" bson:"title" validate:"required"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	LastUpdated time.Time          `json:"lastUpdated" bson:"lastUpdated"`
}

func (r *TaxonomyRecord) NaturalKey() string { return r.DocID }
func (r *TaxonomyRecord) Touch(at time.Time) { r.LastUpdated = at }

// RequiredSkillBaseline holds the required levels for one
// (capability, careerLevel) pair.
type RequiredSkillBaseline struct {
	ID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Capability     string             `json:"capability" bson:"capability"`
	CareerLevel    string             `json:"careerLevel" bson:"careerLevel"`
	RequiredSkills SkillRatings       `json:"requiredSkills" bson:"requiredSkills"`
}

// Report is one direct report as resolved by the employee directory.
type Report struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	CareerLevel string `json:"careerLevel"`
	Capability  string `json:"capability"`
}
