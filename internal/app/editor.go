package app

import (
	"context"
	"log"

	"github.com/D2D99/talent-by-design-sub001/internal/domain"
)

// Draft field names accepted by ApplyFieldChange. Forced-choice subfields are
// addressed as flat names so the transport can treat every editor input the
// same way.
const (
	FieldRole          = "role"
	FieldDomain        = "domain"
	FieldSubdomain     = "subdomain"
	FieldQuestionType  = "questionType"
	FieldQuestionCode  = "questionCode"
	FieldQuestionStem  = "questionStem"
	FieldScale         = "scale"
	FieldInsightPrompt = "insightPrompt"
	FieldOptionALabel  = "optionALabel"
	FieldOptionAPrompt = "optionAPrompt"
	FieldOptionBLabel  = "optionBLabel"
	FieldOptionBPrompt = "optionBPrompt"
	FieldHigherValue   = "higherValueOption"
)

// NewDraft returns the draft an empty add form starts with.
func NewDraft() domain.Draft {
	return domain.Draft{
		Domain: domain.DomainPeoplePotential,
		Scale:  domain.Scale1To5,
	}
}

// ApplyFieldChange returns a copy of drafts with one field changed. The only
// cascading transition is the role broadcast: changing role on the first
// draft overwrites role on every draft, because all questions in one create
// batch must share a stakeholder. Any other field touches a single draft.
func ApplyFieldChange(drafts []domain.Draft, index int, field, value string) ([]domain.Draft, error) {
	if index < 0 || index >= len(drafts) {
		return drafts, domain.ErrQuestionNotFound
	}

	out := make([]domain.Draft, len(drafts))
	copy(out, drafts)

	switch field {
	case FieldRole:
		out[index].Role = domain.Stakeholder(value)
		if index == 0 {
			for i := range out {
				out[i].Role = domain.Stakeholder(value)
			}
		}
	case FieldDomain:
		out[index].Domain = domain.CompetencyDomain(value)
	case FieldSubdomain:
		out[index].Subdomain = value
	case FieldQuestionType:
		out[index].QuestionType = domain.QuestionType(value)
	case FieldQuestionCode:
		out[index].QuestionCode = value
	case FieldQuestionStem:
		out[index].QuestionStem = value
	case FieldScale:
		// Switching scale hides the other branch's inputs but keeps their values.
		out[index].Scale = domain.Scale(value)
	case FieldInsightPrompt:
		out[index].InsightPrompt = value
	case FieldOptionALabel:
		out[index].ForcedChoice.OptionA.Label = value
	case FieldOptionAPrompt:
		out[index].ForcedChoice.OptionA.InsightPrompt = value
	case FieldOptionBLabel:
		out[index].ForcedChoice.OptionB.Label = value
	case FieldOptionBPrompt:
		out[index].ForcedChoice.OptionB.InsightPrompt = value
	case FieldHigherValue:
		out[index].ForcedChoice.HigherValueOption = value
	default:
		return drafts, domain.ErrUnknownField
	}
	return out, nil
}

// AddDraft appends a new draft inheriting role, domain, sub-domain, type, and
// scale from the last existing draft, with the content fields reset.
func AddDraft(drafts []domain.Draft) []domain.Draft {
	if len(drafts) == 0 {
		return []domain.Draft{NewDraft()}
	}
	last := drafts[len(drafts)-1]
	next := domain.Draft{
		Role:         last.Role,
		Domain:       last.Domain,
		Subdomain:    last.Subdomain,
		QuestionType: last.QuestionType,
		Scale:        last.Scale,
	}
	out := make([]domain.Draft, len(drafts), len(drafts)+1)
	copy(out, drafts)
	return append(out, next)
}

// RemoveDraft drops one draft from the add list. The list can never become
// empty: removing from a single-element list is a no-op, as is a bad index.
func RemoveDraft(drafts []domain.Draft, index int) []domain.Draft {
	if len(drafts) <= 1 || index < 0 || index >= len(drafts) {
		return drafts
	}
	out := make([]domain.Draft, 0, len(drafts)-1)
	out = append(out, drafts[:index]...)
	return append(out, drafts[index+1:]...)
}

// Notifier receives a signal after a mutation changed the question set, so
// other open dashboards can refetch.
type Notifier interface {
	CatalogChanged()
}

// Editor drives create, update, and delete submissions against the remote
// API and keeps the catalog in sync afterwards.
type Editor struct {
	client   QuestionClient
	catalog  *Catalog
	notifier Notifier
}

func NewEditor(client QuestionClient, catalog *Catalog, notifier Notifier) *Editor {
	return &Editor{client: client, catalog: catalog, notifier: notifier}
}

// SubmitCreate sends the add-form drafts as one batch. On failure the caller
// keeps the drafts so the user can retry without re-entering anything. On
// success the catalog is refetched wholesale.
func (e *Editor) SubmitCreate(ctx context.Context, drafts []domain.Draft) error {
	if len(drafts) == 0 {
		return domain.ErrEmptyDraftList
	}
	if _, err := e.client.CreateBatch(ctx, drafts); err != nil {
		return err
	}
	if err := e.catalog.Refresh(ctx); err != nil {
		// Create succeeded; a stale catalog is recoverable on the next refresh.
		log.Printf("post-create refresh failed: %v", err)
	}
	e.notify()
	return nil
}

// SubmitUpdate sends the mutable subset of fields for one question id.
func (e *Editor) SubmitUpdate(ctx context.Context, id string, draft domain.Draft) error {
	if _, err := e.client.Update(ctx, id, draft.UpdatePayload()); err != nil {
		return err
	}
	if err := e.catalog.Refresh(ctx); err != nil {
		log.Printf("post-update refresh failed: %v", err)
	}
	e.notify()
	return nil
}

// Delete removes a question by id (soft delete server-side) and drops it
// from the local catalog without a refetch.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if err := e.client.Delete(ctx, id); err != nil {
		return err
	}
	e.catalog.RemoveLocally(id)
	e.notify()
	return nil
}

func (e *Editor) notify() {
	if e.notifier != nil {
		e.notifier.CatalogChanged()
	}
}
