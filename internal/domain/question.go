package domain

import (
	"encoding/json"
	"time"
)

// Stakeholder is the role category a question is written for.
type Stakeholder string

const (
	StakeholderAdmin    Stakeholder = "admin"
	StakeholderLeader   Stakeholder = "leader"
	StakeholderManager  Stakeholder = "manager"
	StakeholderEmployee Stakeholder = "employee"
)

// Stakeholders lists every known role in display order.
var Stakeholders = []Stakeholder{StakeholderAdmin, StakeholderLeader, StakeholderManager, StakeholderEmployee}

// CompetencyDomain is a top-level competency category.
type CompetencyDomain string

const (
	DomainPeoplePotential      CompetencyDomain = "People Potential"
	DomainOperationalSteadines CompetencyDomain = "Operational Steadiness"
	DomainDigitalFluency       CompetencyDomain = "Digital Fluency"
)

// CompetencyDomains lists every domain in display order.
var CompetencyDomains = []CompetencyDomain{DomainPeoplePotential, DomainOperationalSteadines, DomainDigitalFluency}

// Scale is the response-measurement mode of a question. It selects which
// question fields are meaningful: scalar scales carry an insight prompt,
// FORCED_CHOICE carries the two-option block instead.
type Scale string

const (
	Scale1To5        Scale = "SCALE_1_5"
	ScaleNeverAlways Scale = "NEVER_ALWAYS"
	ScaleForced      Scale = "FORCED_CHOICE"
)

// Scales lists every scale in display order.
var Scales = []Scale{Scale1To5, ScaleNeverAlways, ScaleForced}

// QuestionType is a descriptive tag; it is not structurally enforced
// against the scale.
type QuestionType string

const (
	TypeSelfRating   QuestionType = "Self-Rating"
	TypeCalibration  QuestionType = "Calibration"
	TypeBehavioural  QuestionType = "Behavioural"
	TypeForcedChoice QuestionType = "Forced-Choice"
)

// QuestionTypes lists every question type in display order.
var QuestionTypes = []QuestionType{TypeSelfRating, TypeCalibration, TypeBehavioural, TypeForcedChoice}

// ForcedChoiceOption is one of the two options of a forced-choice question.
type ForcedChoiceOption struct {
	Label         string `json:"label"`
	InsightPrompt string `json:"insightPrompt"`
}

// ForcedChoice holds the two options of a FORCED_CHOICE question and marks
// which one scores higher.
type ForcedChoice struct {
	OptionA           ForcedChoiceOption `json:"optionA"`
	OptionB           ForcedChoiceOption `json:"optionB"`
	HigherValueOption string             `json:"higherValueOption"` // "A" or "B"
}

// Question is a server-owned question-bank record. Exactly one of
// InsightPrompt/ForcedChoice is populated, selected by Scale; the custom
// JSON codec below keeps the inactive branch off the wire.
type Question struct {
	ID           string           `json:"_id"`
	Stakeholder  Stakeholder      `json:"stakeholder"`
	Domain       CompetencyDomain `json:"domain"`
	Subdomain    string           `json:"subdomain"`
	QuestionType QuestionType     `json:"questionType"`
	QuestionCode string           `json:"questionCode"`
	QuestionStem string           `json:"questionStem"`
	Scale        Scale            `json:"scale"`

	// Scale-dependent branch; use Insight/Choice accessors.
	InsightPrompt string        `json:"insightPrompt,omitempty"`
	ForcedChoice  *ForcedChoice `json:"forcedChoice,omitempty"`

	// Server-maintained metadata, read-only for the gateway.
	SubdomainWeight float64   `json:"subdomainWeight,omitempty"`
	IsDeleted       bool      `json:"isDeleted,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// Insight returns the insight prompt and whether it is the active branch.
func (q Question) Insight() (string, bool) {
	if q.Scale == ScaleForced {
		return "", false
	}
	return q.InsightPrompt, true
}

// Choice returns the forced-choice block and whether it is the active branch.
func (q Question) Choice() (*ForcedChoice, bool) {
	if q.Scale != ScaleForced {
		return nil, false
	}
	return q.ForcedChoice, true
}

// MarshalJSON emits only the branch selected by Scale, so a record never
// carries both insightPrompt and forcedChoice at once.
func (q Question) MarshalJSON() ([]byte, error) {
	type alias Question
	trimmed := alias(q)
	if q.Scale == ScaleForced {
		trimmed.InsightPrompt = ""
	} else {
		trimmed.ForcedChoice = nil
	}
	return json.Marshal(trimmed)
}

// ValidStakeholder reports whether s is a known role.
func ValidStakeholder(s Stakeholder) bool {
	for _, known := range Stakeholders {
		if known == s {
			return true
		}
	}
	return false
}

// ValidDomain reports whether d is a known competency domain.
func ValidDomain(d CompetencyDomain) bool {
	for _, known := range CompetencyDomains {
		if known == d {
			return true
		}
	}
	return false
}

// ValidScale reports whether sc is a known scale.
func ValidScale(sc Scale) bool {
	for _, known := range Scales {
		if known == sc {
			return true
		}
	}
	return false
}
