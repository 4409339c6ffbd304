package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// AuditEvent records one question-bank mutation performed through the gateway.
type AuditEvent struct {
	ID         int64           `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"` // create, update, delete
	QuestionID string          `json:"questionId,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AuditLog writes mutation events to Postgres. Recording is best-effort at
// the call sites: an audit failure never fails the user's action.
type AuditLog struct {
	pool *pgxpool.Pool
}

func NewAuditLog(pool *pgxpool.Pool) *AuditLog {
	return &AuditLog{pool: pool}
}

// Record inserts one audit event. Payload may be nil.
func (l *AuditLog) Record(ctx context.Context, actor, action, questionID string, payload any) error {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
	}
	_, err := l.pool.Exec(ctx, `
		INSERT INTO audit_events (actor, action, question_id, payload)
		VALUES ($1, $2, $3, $4)
	`, actor, action, questionID, data)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first, capped at limit.
func (l *AuditLog) ListRecent(ctx context.Context, limit int) ([]AuditEvent, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, actor, action, COALESCE(question_id, ''), payload, created_at
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var ev AuditEvent
		if err := rows.Scan(&ev.ID, &ev.Actor, &ev.Action, &ev.QuestionID, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
