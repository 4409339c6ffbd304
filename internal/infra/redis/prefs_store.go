package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PrefsStore persists per-profile dashboard preferences in a Redis hash, one
// hash per profile, one field per storage key. Preferences are durable: no
// TTL is set, so filter selections survive restarts the way browser local
// storage survives reloads.
type PrefsStore struct {
	client *redis.Client
}

func NewPrefsStore(client *redis.Client) *PrefsStore {
	return &PrefsStore{client: client}
}

func (s *PrefsStore) Get(ctx context.Context, profile, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, s.key(profile), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get pref %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PrefsStore) Set(ctx context.Context, profile, key, value string) error {
	if err := s.client.HSet(ctx, s.key(profile), key, value).Err(); err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

func (s *PrefsStore) key(profile string) string {
	return "dashboard:prefs:" + profile
}
