package domain

// Draft is an unsaved, in-progress edit of a question's fields. Unlike a
// stored Question, a draft keeps both scale branches around while the user
// edits: switching scale hides the inactive branch but does not erase what
// was typed. Pruning happens when the submission payload is built.
type Draft struct {
	Role          Stakeholder      `json:"role"`
	Domain        CompetencyDomain `json:"domain"`
	Subdomain     string           `json:"subdomain"`
	QuestionType  QuestionType     `json:"questionType"`
	QuestionCode  string           `json:"questionCode"`
	QuestionStem  string           `json:"questionStem"`
	Scale         Scale            `json:"scale"`
	InsightPrompt string           `json:"insightPrompt"`
	ForcedChoice  ForcedChoice     `json:"forcedChoice"`
}

// DraftFromQuestion seeds an edit draft from an existing question.
func DraftFromQuestion(q Question) Draft {
	d := Draft{
		Role:          q.Stakeholder,
		Domain:        q.Domain,
		Subdomain:     q.Subdomain,
		QuestionType:  q.QuestionType,
		QuestionCode:  q.QuestionCode,
		QuestionStem:  q.QuestionStem,
		Scale:         q.Scale,
		InsightPrompt: q.InsightPrompt,
	}
	if q.ForcedChoice != nil {
		d.ForcedChoice = *q.ForcedChoice
	}
	return d
}

// SubdomainOptions returns the taxonomy entries for the draft's own
// (role, domain) pair, independent of the global filter state.
func (d Draft) SubdomainOptions() []string {
	return SubdomainsFor(d.Role, d.Domain)
}

// CreatePayload is the wire form of one draft in a batch create. Exactly one
// of InsightPrompt/ForcedChoice is set, chosen by Scale.
type CreatePayload struct {
	Stakeholder   Stakeholder      `json:"stakeholder"`
	Domain        CompetencyDomain `json:"domain"`
	Subdomain     string           `json:"subdomain"`
	QuestionType  QuestionType     `json:"questionType"`
	QuestionCode  string           `json:"questionCode"`
	QuestionStem  string           `json:"questionStem"`
	Scale         Scale            `json:"scale"`
	InsightPrompt *string          `json:"insightPrompt,omitempty"`
	ForcedChoice  *ForcedChoice    `json:"forcedChoice,omitempty"`
}

// UpdatePayload carries the mutable subset of question fields. Identity,
// stakeholder, domain, subdomain, and code are immutable after creation.
type UpdatePayload struct {
	QuestionType  QuestionType  `json:"questionType"`
	QuestionStem  string        `json:"questionStem"`
	Scale         Scale         `json:"scale"`
	InsightPrompt *string       `json:"insightPrompt,omitempty"`
	ForcedChoice  *ForcedChoice `json:"forcedChoice,omitempty"`
}

// Payload converts the draft to its create wire form, pruning the scale
// branch that is not active. No required-field validation happens here: an
// empty option label still ships a forcedChoice block (permissive create).
func (d Draft) Payload() CreatePayload {
	p := CreatePayload{
		Stakeholder:  d.Role,
		Domain:       d.Domain,
		Subdomain:    d.Subdomain,
		QuestionType: d.QuestionType,
		QuestionCode: d.QuestionCode,
		QuestionStem: d.QuestionStem,
		Scale:        d.Scale,
	}
	if d.Scale == ScaleForced {
		fc := d.ForcedChoice
		p.ForcedChoice = &fc
	} else {
		prompt := d.InsightPrompt
		p.InsightPrompt = &prompt
	}
	return p
}

// UpdatePayload converts the draft to its update wire form, mutable fields only.
func (d Draft) UpdatePayload() UpdatePayload {
	p := UpdatePayload{
		QuestionType: d.QuestionType,
		QuestionStem: d.QuestionStem,
		Scale:        d.Scale,
	}
	if d.Scale == ScaleForced {
		fc := d.ForcedChoice
		p.ForcedChoice = &fc
	} else {
		prompt := d.InsightPrompt
		p.InsightPrompt = &prompt
	}
	return p
}

// ReorderEntry is one element of the remote reorder request.
type ReorderEntry struct {
	ID        string `json:"id"`
	Order     int    `json:"order"`
	Subdomain string `json:"subdomain,omitempty"`
}
