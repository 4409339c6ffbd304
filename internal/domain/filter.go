package domain

// FilterState holds the dashboard's current filter selections. Domains is
// stored as a list but kept single-element by the manager; the multi-select
// sets treat an empty selection as a wildcard.
type FilterState struct {
	Role         Stakeholder        `json:"role"`
	Domains      []CompetencyDomain `json:"domains"`
	Subdomains   []string           `json:"subdomains"`
	Types        []QuestionType     `json:"types"`
	Scales       []Scale            `json:"scales"`
	PanelVisible bool               `json:"panelVisible"`
}

// DefaultFilterState returns the hydration defaults used when nothing is
// persisted or a stored value cannot be parsed.
func DefaultFilterState() FilterState {
	return FilterState{
		Role:       "",
		Domains:    []CompetencyDomain{DomainPeoplePotential},
		Subdomains: []string{},
		Types:      []QuestionType{},
		Scales:     []Scale{},
	}
}

// Matches reports whether q passes every non-empty clause of the filter.
// All clauses are conjunctive; an unset role or empty set is a wildcard.
func (f FilterState) Matches(q Question) bool {
	if f.Role != "" && q.Stakeholder != f.Role {
		return false
	}
	if len(f.Domains) > 0 && !containsDomain(f.Domains, q.Domain) {
		return false
	}
	if len(f.Subdomains) > 0 && !containsString(f.Subdomains, q.Subdomain) {
		return false
	}
	if len(f.Types) > 0 && !containsType(f.Types, q.QuestionType) {
		return false
	}
	if len(f.Scales) > 0 && !containsScale(f.Scales, q.Scale) {
		return false
	}
	return true
}

func containsDomain(set []CompetencyDomain, d CompetencyDomain) bool {
	for _, v := range set {
		if v == d {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsType(set []QuestionType, t QuestionType) bool {
	for _, v := range set {
		if v == t {
			return true
		}
	}
	return false
}

func containsScale(set []Scale, sc Scale) bool {
	for _, v := range set {
		if v == sc {
			return true
		}
	}
	return false
}
