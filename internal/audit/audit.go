// Package audit records review decisions after they commit. Recording is
// fire-and-forget: an audit failure is logged, never surfaced to the
// reviewer whose decision already took effect.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lendstack/backoffice/internal/domain"
)

const (
	ActionSubmitted = "SUBMITTED"
	ActionApproved  = "APPROVED"
	ActionRejected  = "REJECTED"
)

// Event is one recorded review decision.
type Event struct {
	ChangeID   uuid.UUID
	EntityType string
	ChangeType domain.ChangeType
	Action     string
	ActorID    uuid.UUID
	Detail     map[string]any
	OccurredAt time.Time
}

// Recorder persists audit events.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Nop discards every event. Used in tests and when auditing is disabled.
type Nop struct{}

func (Nop) Record(context.Context, Event) {}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgRecorder appends events to the audit_log table.
type PgRecorder struct {
	db execer
}

// NewPgRecorder builds a recorder over a pgx pool or transaction.
func NewPgRecorder(db execer) *PgRecorder {
	return &PgRecorder{db: db}
}

func (r *PgRecorder) Record(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	detail := []byte("{}")
	if event.Detail != nil {
		raw, err := json.Marshal(event.Detail)
		if err != nil {
			log.Printf("audit: failed to marshal detail for change %s: %v", event.ChangeID, err)
		} else {
			detail = raw
		}
	}

	query := `
		INSERT INTO audit_log (change_id, entity_type, change_type, action, actor_id, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.db.Exec(ctx, query,
		event.ChangeID,
		event.EntityType,
		string(event.ChangeType),
		event.Action,
		event.ActorID,
		detail,
		event.OccurredAt,
	); err != nil {
		log.Printf("audit: failed to record %s for change %s: %v", event.Action, event.ChangeID, err)
	}
}
