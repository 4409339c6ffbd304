package app

import (
	"context"
	"time"

	"github.com/D2D99/talent-by-design-sub001/internal/domain"
	"github.com/google/uuid"
)

// Session is one authenticated dashboard session.
type Session struct {
	ID        string             `json:"id"`
	Email     string             `json:"email"`
	Role      domain.Stakeholder `json:"role"`
	CreatedAt time.Time          `json:"createdAt"`
}

// SessionRepository abstracts how dashboard sessions are stored (in-memory,
// Redis, etc). Implementations own expiry.
type SessionRepository interface {
	Put(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// AuthClient verifies credentials against the collaborator auth API and
// reports the account's dashboard role.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (domain.Stakeholder, error)
}

// AuthService proxies logins upstream and tracks the resulting sessions.
type AuthService struct {
	client   AuthClient
	sessions SessionRepository
	now      func() time.Time
}

func NewAuthService(client AuthClient, sessions SessionRepository) *AuthService {
	return &AuthService{client: client, sessions: sessions, now: time.Now}
}

// Login checks credentials upstream and records a new session on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	role, err := s.client.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	session := Session{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Resolve returns the session for an id, or domain.ErrSessionNotFound.
func (s *AuthService) Resolve(ctx context.Context, id string) (Session, error) {
	return s.sessions.Get(ctx, id)
}

// Logout drops a session. Unknown ids are not an error.
func (s *AuthService) Logout(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}
