package app

import (
	"context"
	"log"
	"sync"

	"github.com/D2D99/talent-by-design-sub001/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionClient abstracts the collaborator question API (HTTP in production,
// fakes in tests).
type QuestionClient interface {
	ListAll(ctx context.Context, filters ListFilters) ([]domain.Question, error)
	GetByID(ctx context.Context, id string) (domain.Question, error)
	CreateBatch(ctx context.Context, drafts []domain.Draft) ([]domain.Question, error)
	Update(ctx context.Context, id string, payload domain.UpdatePayload) (domain.Question, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, entries []domain.ReorderEntry) error
}

// ListFilters are the optional server-side query filters of the list endpoint.
type ListFilters struct {
	Stakeholder domain.Stakeholder
	Domain      domain.CompetencyDomain
	Subdomain   string
}

// MoveDirection selects which neighbor a question swaps with.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// SubdomainGroup is a collapsible list section: one sub-domain and its
// questions in catalog order.
type SubdomainGroup struct {
	Subdomain string            `json:"subdomain"`
	Questions []domain.Question `json:"questions"`
}

// Catalog holds the in-memory question list fetched from the remote API.
// Filter state and drafts are layered on top; the list itself only changes
// through Refresh, Move, and RemoveLocally.
type Catalog struct {
	client QuestionClient
	sf     singleflight.Group

	mu        sync.RWMutex
	questions []domain.Question
	loaded    bool
}

func NewCatalog(client QuestionClient) *Catalog {
	return &Catalog{client: client}
}

// Refresh fetches the complete undeleted question set and replaces the list
// wholesale. A fetch failure leaves the previous list untouched and is
// logged, not surfaced as fatal: the dashboard stays usable on stale data.
// Concurrent refreshes collapse into one remote call.
func (c *Catalog) Refresh(ctx context.Context) error {
	_, err, _ := c.sf.Do("refresh", func() (interface{}, error) {
		questions, err := c.client.ListAll(ctx, ListFilters{})
		if err != nil {
			log.Printf("catalog refresh failed, keeping previous list: %v", err)
			return nil, err
		}
		c.mu.Lock()
		c.questions = questions
		c.loaded = true
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// Loaded reports whether at least one refresh has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// All returns a copy of the catalog in its current order.
func (c *Catalog) All() []domain.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Filtered returns the questions passing every non-empty clause of the
// filter, preserving catalog order.
func (c *Catalog) Filtered(filter domain.FilterState) []domain.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.Question
	for _, q := range c.questions {
		if filter.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}

// Grouped buckets the filtered questions by sub-domain for the collapsible
// list view. Groups follow the taxonomy order for the filter's role and
// domains; sub-domains outside the taxonomy (stale data) trail in first-seen
// order rather than disappearing.
func (c *Catalog) Grouped(filter domain.FilterState) []SubdomainGroup {
	questions := c.Filtered(filter)

	order := domain.AvailableSubdomains(filter.Role, filter.Domains)
	index := make(map[string]int, len(order))
	groups := make([]SubdomainGroup, 0, len(order))
	for _, sub := range order {
		index[sub] = len(groups)
		groups = append(groups, SubdomainGroup{Subdomain: sub})
	}
	for _, q := range questions {
		i, ok := index[q.Subdomain]
		if !ok {
			i = len(groups)
			index[q.Subdomain] = i
			groups = append(groups, SubdomainGroup{Subdomain: q.Subdomain})
		}
		groups[i].Questions = append(groups[i].Questions, q)
	}

	// Drop taxonomy groups that matched nothing.
	out := groups[:0]
	for _, g := range groups {
		if len(g.Questions) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// Get returns the catalog's copy of a question by id.
func (c *Catalog) Get(id string) (domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

// Move swaps the question with its immediate neighbor within the subsequence
// of questions sharing its sub-domain. The boundary cases are no-ops: the
// first question of a group cannot move up, the last cannot move down. Order
// changes are local only; the remote reorder endpoint is not called.
func (c *Catalog) Move(id string, direction MoveDirection) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := -1
	for i, q := range c.questions {
		if q.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}

	sub := c.questions[pos].Subdomain
	neighbor := -1
	switch direction {
	case MoveUp:
		for i := pos - 1; i >= 0; i-- {
			if c.questions[i].Subdomain == sub {
				neighbor = i
				break
			}
		}
	case MoveDown:
		for i := pos + 1; i < len(c.questions); i++ {
			if c.questions[i].Subdomain == sub {
				neighbor = i
				break
			}
		}
	}
	if neighbor < 0 {
		return false
	}
	c.questions[pos], c.questions[neighbor] = c.questions[neighbor], c.questions[pos]
	return true
}

// RemoveLocally drops a question from the in-memory list after a confirmed
// delete, avoiding a full refetch.
func (c *Catalog) RemoveLocally(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, q := range c.questions {
		if q.ID == id {
			c.questions = append(c.questions[:i], c.questions[i+1:]...)
			return true
		}
	}
	return false
}
