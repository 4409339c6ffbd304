package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/D2D99/talent-by-design-sub001/internal/app"
	"github.com/D2D99/talent-by-design-sub001/internal/domain"
)

// fakeClient is an in-memory stand-in for the remote question API.
type fakeClient struct {
	questions []domain.Question
	listErr   error
	listCalls int

	created   [][]domain.Draft
	createErr error
	updated   map[string]domain.UpdatePayload
	updateErr error
	deleted   []string
	deleteErr error
}

func (f *fakeClient) ListAll(_ context.Context, _ app.ListFilters) ([]domain.Question, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Question, len(f.questions))
	copy(out, f.questions)
	return out, nil
}

func (f *fakeClient) GetByID(_ context.Context, id string) (domain.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (f *fakeClient) CreateBatch(_ context.Context, drafts []domain.Draft) ([]domain.Question, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, drafts)
	return nil, nil
}

func (f *fakeClient) Update(_ context.Context, id string, payload domain.UpdatePayload) (domain.Question, error) {
	if f.updateErr != nil {
		return domain.Question{}, f.updateErr
	}
	if f.updated == nil {
		f.updated = make(map[string]domain.UpdatePayload)
	}
	f.updated[id] = payload
	return domain.Question{ID: id}, nil
}

func (f *fakeClient) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeClient) Reorder(_ context.Context, _ []domain.ReorderEntry) error {
	return nil
}

func catalogQuestion(id, sub string, scale domain.Scale) domain.Question {
	return domain.Question{
		ID:          id,
		Stakeholder: domain.StakeholderManager,
		Domain:      domain.DomainPeoplePotential,
		Subdomain:   sub,
		Scale:       scale,
	}
}

func TestRefreshReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{questions: []domain.Question{catalogQuestion("a", "X", domain.Scale1To5)}}
	catalog := app.NewCatalog(client)

	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(catalog.All()); got != 1 {
		t.Fatalf("expected 1 question, got %d", got)
	}

	client.questions = []domain.Question{
		catalogQuestion("b", "Y", domain.Scale1To5),
		catalogQuestion("c", "Y", domain.ScaleForced),
	}
	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	all := catalog.All()
	if len(all) != 2 || all[0].ID != "b" {
		t.Fatalf("expected wholesale replacement, got %+v", all)
	}
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{questions: []domain.Question{catalogQuestion("a", "X", domain.Scale1To5)}}
	catalog := app.NewCatalog(client)

	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	client.listErr = errors.New("upstream down")
	if err := catalog.Refresh(ctx); err == nil {
		t.Fatalf("expected refresh error")
	}
	if got := len(catalog.All()); got != 1 {
		t.Fatalf("failed refresh must keep the stale list, got %d questions", got)
	}
	if !catalog.Loaded() {
		t.Fatalf("catalog must still count as loaded")
	}
}

func TestFilteredSubdomainThenScaleNarrowing(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{questions: []domain.Question{
		catalogQuestion("A", "X", domain.Scale1To5),
		catalogQuestion("B", "X", domain.ScaleForced),
		catalogQuestion("C", "Y", domain.Scale1To5),
	}}
	catalog := app.NewCatalog(client)
	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	filter := domain.FilterState{Subdomains: []string{"X"}}
	got := catalog.Filtered(filter)
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "B" {
		t.Fatalf("expected [A B] in original order, got %+v", got)
	}

	filter.Scales = []domain.Scale{domain.ScaleForced}
	got = catalog.Filtered(filter)
	if len(got) != 1 || got[0].ID != "B" {
		t.Fatalf("expected [B] after scale narrowing, got %+v", got)
	}
}

func TestMoveSwapsWithinSubdomainGroup(t *testing.T) {
	ctx := context.Background()
	// B and D share a subdomain but are separated by C from another group;
	// moving D up must swap it with B, not C.
	client := &fakeClient{questions: []domain.Question{
		catalogQuestion("A", "X", domain.Scale1To5),
		catalogQuestion("B", "X", domain.Scale1To5),
		catalogQuestion("C", "Y", domain.Scale1To5),
		catalogQuestion("D", "X", domain.Scale1To5),
	}}
	catalog := app.NewCatalog(client)
	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if !catalog.Move("D", app.MoveUp) {
		t.Fatalf("expected move to succeed")
	}
	ids := idsOf(catalog.All())
	want := []string{"A", "D", "C", "B"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected order %v, got %v", want, ids)
		}
	}
}

func TestMoveBoundaryIsNoOp(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{questions: []domain.Question{
		catalogQuestion("A", "X", domain.Scale1To5),
		catalogQuestion("B", "X", domain.Scale1To5),
	}}
	catalog := app.NewCatalog(client)
	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if catalog.Move("A", app.MoveUp) {
		t.Fatalf("first of group cannot move up")
	}
	if catalog.Move("B", app.MoveDown) {
		t.Fatalf("last of group cannot move down")
	}
	if catalog.Move("missing", app.MoveUp) {
		t.Fatalf("unknown id cannot move")
	}

	ids := idsOf(catalog.All())
	if ids[0] != "A" || ids[1] != "B" {
		t.Fatalf("boundary moves must not change order, got %v", ids)
	}
}

func TestMovePreservesIDMultiset(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{questions: []domain.Question{
		catalogQuestion("A", "X", domain.Scale1To5),
		catalogQuestion("B", "X", domain.Scale1To5),
		catalogQuestion("C", "X", domain.Scale1To5),
	}}
	catalog := app.NewCatalog(client)
	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	catalog.Move("B", app.MoveDown)
	catalog.Move("A", app.MoveDown)

	seen := make(map[string]int)
	for _, id := range idsOf(catalog.All()) {
		seen[id]++
	}
	for _, id := range []string{"A", "B", "C"} {
		if seen[id] != 1 {
			t.Fatalf("id %s count %d after moves", id, seen[id])
		}
	}
}

func TestRemoveLocally(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{questions: []domain.Question{
		catalogQuestion("A", "X", domain.Scale1To5),
		catalogQuestion("B", "X", domain.Scale1To5),
	}}
	catalog := app.NewCatalog(client)
	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if !catalog.RemoveLocally("A") {
		t.Fatalf("expected removal")
	}
	if catalog.RemoveLocally("A") {
		t.Fatalf("second removal must report false")
	}
	if client.listCalls != 1 {
		t.Fatalf("optimistic removal must not refetch, %d list calls", client.listCalls)
	}
	if got := idsOf(catalog.All()); len(got) != 1 || got[0] != "B" {
		t.Fatalf("expected [B], got %v", got)
	}
}

func TestGroupedFollowsTaxonomyOrder(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{questions: []domain.Question{
		catalogQuestion("A", "Coaching & Development Support", domain.Scale1To5),
		catalogQuestion("B", "Team Trust", domain.Scale1To5),
		catalogQuestion("C", "Team Trust", domain.ScaleForced),
	}}
	catalog := app.NewCatalog(client)
	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	filter := domain.FilterState{
		Role:    domain.StakeholderManager,
		Domains: []domain.CompetencyDomain{domain.DomainPeoplePotential},
	}
	groups := catalog.Grouped(filter)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", groups)
	}
	// Manager taxonomy lists Team Trust before Coaching & Development Support.
	if groups[0].Subdomain != "Team Trust" || len(groups[0].Questions) != 2 {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
	if groups[1].Subdomain != "Coaching & Development Support" {
		t.Fatalf("unexpected second group %+v", groups[1])
	}
}

func idsOf(questions []domain.Question) []string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
