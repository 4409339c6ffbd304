package app

import (
	"context"
	"encoding/json"

	"github.com/D2D99/talent-by-design-sub001/internal/domain"
)

// PrefsRepository abstracts how per-profile dashboard preferences are stored
// (in-memory, Redis, etc). Values are raw strings keyed by a fixed key set;
// the manager owns encoding.
type PrefsRepository interface {
	Get(ctx context.Context, profile, key string) (string, bool, error)
	Set(ctx context.Context, profile, key, value string) error
}

// Storage keys for the persisted filter fields. Each field is read and
// written independently so a malformed value only resets its own field.
const (
	prefKeyRole       = "filters:role"
	prefKeyDomains    = "filters:domains"
	prefKeySubdomains = "filters:subdomains"
	prefKeyTypes      = "filters:types"
	prefKeyScales     = "filters:scales"
	prefKeyPanel      = "filters:panelVisible"
)

// FilterManager hydrates and mutates a profile's filter selections. Every
// setter persists its field synchronously and returns the resulting state.
type FilterManager struct {
	prefs PrefsRepository
}

func NewFilterManager(prefs PrefsRepository) *FilterManager {
	return &FilterManager{prefs: prefs}
}

// Load hydrates the filter state for a profile. Missing or unparsable stored
// values fall back to the documented defaults rather than failing.
func (m *FilterManager) Load(ctx context.Context, profile string) (domain.FilterState, error) {
	state := domain.DefaultFilterState()

	raw, ok, err := m.prefs.Get(ctx, profile, prefKeyRole)
	if err != nil {
		return state, err
	}
	if ok {
		state.Role = domain.Stakeholder(raw)
	}

	if err := m.loadJSON(ctx, profile, prefKeyDomains, &state.Domains); err != nil {
		return state, err
	}
	if err := m.loadJSON(ctx, profile, prefKeySubdomains, &state.Subdomains); err != nil {
		return state, err
	}
	if err := m.loadJSON(ctx, profile, prefKeyTypes, &state.Types); err != nil {
		return state, err
	}
	if err := m.loadJSON(ctx, profile, prefKeyScales, &state.Scales); err != nil {
		return state, err
	}
	if err := m.loadJSON(ctx, profile, prefKeyPanel, &state.PanelVisible); err != nil {
		return state, err
	}
	return state, nil
}

// loadJSON overwrites dst with the stored JSON value if present and parsable,
// leaving the default in place otherwise.
func (m *FilterManager) loadJSON(ctx context.Context, profile, key string, dst any) error {
	raw, ok, err := m.prefs.Get(ctx, profile, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		// Unparsable persisted state keeps the default.
		return nil
	}
	return nil
}

// SetRole replaces the role selection. It deliberately does not cascade-clear
// dependent sub-domain, type, or scale selections; stale picks simply yield
// empty results until the user clears them.
func (m *FilterManager) SetRole(ctx context.Context, profile string, role domain.Stakeholder) (domain.FilterState, error) {
	if err := m.prefs.Set(ctx, profile, prefKeyRole, string(role)); err != nil {
		return domain.FilterState{}, err
	}
	return m.Load(ctx, profile)
}

// SetDomain replaces the domain selection with the single-element set {d}.
func (m *FilterManager) SetDomain(ctx context.Context, profile string, d domain.CompetencyDomain) (domain.FilterState, error) {
	if err := m.saveJSON(ctx, profile, prefKeyDomains, []domain.CompetencyDomain{d}); err != nil {
		return domain.FilterState{}, err
	}
	return m.Load(ctx, profile)
}

// ToggleSubdomain adds s to the sub-domain selection if absent, removes it otherwise.
func (m *FilterManager) ToggleSubdomain(ctx context.Context, profile, s string) (domain.FilterState, error) {
	state, err := m.Load(ctx, profile)
	if err != nil {
		return state, err
	}
	state.Subdomains = toggleString(state.Subdomains, s)
	if err := m.saveJSON(ctx, profile, prefKeySubdomains, state.Subdomains); err != nil {
		return state, err
	}
	return state, nil
}

// ToggleType adds or removes t from the type selection.
func (m *FilterManager) ToggleType(ctx context.Context, profile string, t domain.QuestionType) (domain.FilterState, error) {
	state, err := m.Load(ctx, profile)
	if err != nil {
		return state, err
	}
	state.Types = toggleType(state.Types, t)
	if err := m.saveJSON(ctx, profile, prefKeyTypes, state.Types); err != nil {
		return state, err
	}
	return state, nil
}

// ToggleScale adds or removes sc from the scale selection.
func (m *FilterManager) ToggleScale(ctx context.Context, profile string, sc domain.Scale) (domain.FilterState, error) {
	state, err := m.Load(ctx, profile)
	if err != nil {
		return state, err
	}
	state.Scales = toggleScale(state.Scales, sc)
	if err := m.saveJSON(ctx, profile, prefKeyScales, state.Scales); err != nil {
		return state, err
	}
	return state, nil
}

// SetPanelVisible persists the filter-panel visibility flag.
func (m *FilterManager) SetPanelVisible(ctx context.Context, profile string, visible bool) (domain.FilterState, error) {
	if err := m.saveJSON(ctx, profile, prefKeyPanel, visible); err != nil {
		return domain.FilterState{}, err
	}
	return m.Load(ctx, profile)
}

// AvailableSubdomains derives the sub-domain option set for a profile's
// current role and domain selections.
func (m *FilterManager) AvailableSubdomains(ctx context.Context, profile string) ([]string, error) {
	state, err := m.Load(ctx, profile)
	if err != nil {
		return nil, err
	}
	return domain.AvailableSubdomains(state.Role, state.Domains), nil
}

func (m *FilterManager) saveJSON(ctx context.Context, profile, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.prefs.Set(ctx, profile, key, string(data))
}

func toggleString(set []string, v string) []string {
	for i, existing := range set {
		if existing == v {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

func toggleType(set []domain.QuestionType, v domain.QuestionType) []domain.QuestionType {
	for i, existing := range set {
		if existing == v {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

func toggleScale(set []domain.Scale, v domain.Scale) []domain.Scale {
	for i, existing := range set {
		if existing == v {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, v)
}
