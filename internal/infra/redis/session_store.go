package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/D2D99/talent-by-design-sub001/internal/app"
	"github.com/D2D99/talent-by-design-sub001/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps dashboard sessions in Redis with a TTL, so sessions
// survive gateway restarts and are shared across instances.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Put(ctx context.Context, session app.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (app.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return app.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return app.Session{}, fmt.Errorf("get session: %w", err)
	}
	var session app.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return app.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "dashboard:session:" + id
}
