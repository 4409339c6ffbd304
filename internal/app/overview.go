package app

import "github.com/D2D99/talent-by-design-sub001/internal/domain"

// DomainBreakdown is one chart segment of the role overview.
type DomainBreakdown struct {
	Domain      domain.CompetencyDomain `json:"domain"`
	Count       int                     `json:"count"`
	BySubdomain map[string]int          `json:"bySubdomain"`
}

// Overview is the chart payload behind a role-based overview screen. It
// counts only; rendering belongs to the frontend.
type Overview struct {
	Role     domain.Stakeholder          `json:"role"`
	Total    int                         `json:"total"`
	ByDomain []DomainBreakdown           `json:"byDomain"`
	ByScale  map[domain.Scale]int        `json:"byScale"`
	ByType   map[domain.QuestionType]int `json:"byType"`
}

// BuildOverview aggregates the catalog for one stakeholder. An empty role
// aggregates across the whole question bank (the super-admin view).
func BuildOverview(questions []domain.Question, role domain.Stakeholder) Overview {
	ov := Overview{
		Role:    role,
		ByScale: make(map[domain.Scale]int),
		ByType:  make(map[domain.QuestionType]int),
	}

	byDomain := make(map[domain.CompetencyDomain]*DomainBreakdown)
	for _, d := range domain.CompetencyDomains {
		entry := &DomainBreakdown{Domain: d, BySubdomain: make(map[string]int)}
		byDomain[d] = entry
	}

	for _, q := range questions {
		if role != "" && q.Stakeholder != role {
			continue
		}
		ov.Total++
		ov.ByScale[q.Scale]++
		ov.ByType[q.QuestionType]++
		if entry, ok := byDomain[q.Domain]; ok {
			entry.Count++
			entry.BySubdomain[q.Subdomain]++
		}
	}

	for _, d := range domain.CompetencyDomains {
		ov.ByDomain = append(ov.ByDomain, *byDomain[d])
	}
	return ov
}
