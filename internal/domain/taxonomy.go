package domain

// taxonomy maps (stakeholder, domain) to the ordered sub-domain list shown in
// the filter and editor option sets. Admin and leader currently carry the same
// structure; they are listed separately so the branches can diverge without
// code changes.
var taxonomy = map[Stakeholder]map[CompetencyDomain][]string{
	StakeholderAdmin: {
		DomainPeoplePotential: {
			"Psychological Safety",
			"Talent Visibility",
			"Succession Readiness",
			"Coaching & Development Support",
		},
		DomainOperationalSteadines: {
			"Process Discipline",
			"Resource Stewardship",
			"Risk Awareness",
		},
		DomainDigitalFluency: {
			"Systems Adoption",
			"Data-Informed Decisions",
			"Digital Collaboration",
		},
	},
	StakeholderLeader: {
		DomainPeoplePotential: {
			"Psychological Safety",
			"Talent Visibility",
			"Succession Readiness",
			"Coaching & Development Support",
		},
		DomainOperationalSteadines: {
			"Process Discipline",
			"Resource Stewardship",
			"Risk Awareness",
		},
		DomainDigitalFluency: {
			"Systems Adoption",
			"Data-Informed Decisions",
			"Digital Collaboration",
		},
	},
	StakeholderManager: {
		DomainPeoplePotential: {
			"Team Trust",
			"Coaching & Development Support",
			"Growth Conversations",
		},
		DomainOperationalSteadines: {
			"Workload Balance",
			"Process Discipline",
			"Continuity Planning",
		},
		DomainDigitalFluency: {
			"Tool Proficiency",
			"Digital Collaboration",
		},
	},
	StakeholderEmployee: {
		DomainPeoplePotential: {
			"Belonging",
			"Growth Conversations",
			"Recognition",
		},
		DomainOperationalSteadines: {
			"Role Clarity",
			"Workload Balance",
		},
		DomainDigitalFluency: {
			"Tool Proficiency",
			"Learning Agility",
		},
	},
}

// SubdomainsFor returns the taxonomy entries for one (stakeholder, domain)
// pair, or nil when the pair has no branch.
func SubdomainsFor(role Stakeholder, dom CompetencyDomain) []string {
	branch, ok := taxonomy[role]
	if !ok {
		return nil
	}
	return branch[dom]
}

// AvailableSubdomains returns the ordered first-seen union of taxonomy
// entries for every candidate (role, domain) pair. An unset role means every
// known role is a candidate; an empty domain set means every domain is. This
// lets the filter preview sub-domains before a role is committed.
func AvailableSubdomains(role Stakeholder, domains []CompetencyDomain) []string {
	roles := Stakeholders
	if role != "" {
		roles = []Stakeholder{role}
	}
	candidates := domains
	if len(candidates) == 0 {
		candidates = CompetencyDomains
	}

	seen := make(map[string]struct{})
	var out []string
	for _, r := range roles {
		for _, d := range candidates {
			for _, sub := range SubdomainsFor(r, d) {
				if _, ok := seen[sub]; ok {
					continue
				}
				seen[sub] = struct{}{}
				out = append(out, sub)
			}
		}
	}
	return out
}
