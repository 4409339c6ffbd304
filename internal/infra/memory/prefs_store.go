package memory

import (
	"context"
	"sync"
)

// PrefsStore is an in-memory implementation of app.PrefsRepository, used in
// tests and when no Redis is configured. State lives only as long as the
// process.
type PrefsStore struct {
	mu       sync.RWMutex
	profiles map[string]map[string]string
}

func NewPrefsStore() *PrefsStore {
	return &PrefsStore{profiles: make(map[string]map[string]string)}
}

func (s *PrefsStore) Get(_ context.Context, profile, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.profiles[profile]
	if !ok {
		return "", false, nil
	}
	value, ok := prefs[key]
	return value, ok, nil
}

func (s *PrefsStore) Set(_ context.Context, profile, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, ok := s.profiles[profile]
	if !ok {
		prefs = make(map[string]string)
		s.profiles[profile] = prefs
	}
	prefs[key] = value
	return nil
}
