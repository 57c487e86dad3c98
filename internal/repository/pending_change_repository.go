package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lendstack/backoffice/internal/domain"
)

type pendingChangeRepository struct {
	db DBTX
}

func (r *pendingChangeRepository) Create(ctx context.Context, change domain.PendingChange) (domain.PendingChange, error) {
	payloadJSON, err := json.Marshal(change.Payload)
	if err != nil {
		return domain.PendingChange{}, fmt.Errorf("failed to marshal change payload: %w", err)
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO pending_changes (id, entity_type, entity_id, change_type, payload, status, created_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		change.ID,
		change.EntityType,
		change.EntityID,
		change.ChangeType,
		payloadJSON,
		change.Status,
		change.CreatedByID,
	)

	var createdAt pgtype.Timestamptz
	if err := row.Scan(&createdAt); err != nil {
		return domain.PendingChange{}, fmt.Errorf("failed to create pending change: %w", err)
	}
	if createdAt.Valid {
		change.CreatedAt = createdAt.Time
	}
	return change, nil
}

func (r *pendingChangeRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.PendingChange, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, entity_type, entity_id, change_type, payload, status,
		        created_by_id, created_at, approved_by_id, approved_at, rejection_reason
		 FROM pending_changes
		 WHERE id = $1`,
		id,
	)

	change, err := scanPendingChange(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PendingChange{}, fmt.Errorf("pending change %s: %w", id, domain.ErrNotFound)
		}
		return domain.PendingChange{}, fmt.Errorf("failed to get pending change: %w", err)
	}
	return change, nil
}

func (r *pendingChangeRepository) ClaimApproved(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, approvedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE pending_changes
		 SET status = $1, approved_by_id = $2, approved_at = $3
		 WHERE id = $4 AND status = $5`,
		domain.ChangeStatusApproved,
		reviewerID,
		approvedAt,
		id,
		domain.ChangeStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim pending change for approval: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *pendingChangeRepository) ClaimRejected(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, reason string) (bool, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE pending_changes
		 SET status = $1, approved_by_id = $2, rejection_reason = $3
		 WHERE id = $4 AND status = $5`,
		domain.ChangeStatusRejected,
		reviewerID,
		reason,
		id,
		domain.ChangeStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim pending change for rejection: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *pendingChangeRepository) List(ctx context.Context, status *domain.ChangeStatus, limit, offset int) ([]domain.PendingChange, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, entity_type, entity_id, change_type, payload, status,
	                 created_by_id, created_at, approved_by_id, approved_at, rejection_reason
	          FROM pending_changes`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending changes: %w", err)
	}
	defer rows.Close()

	changes := []domain.PendingChange{}
	for rows.Next() {
		change, scanErr := scanPendingChange(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan pending change: %w", scanErr)
		}
		changes = append(changes, change)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate pending changes: %w", rowsErr)
	}
	return changes, nil
}

func scanPendingChange(row pgx.Row) (domain.PendingChange, error) {
	var (
		change          domain.PendingChange
		entityID        *uuid.UUID
		payloadJSON     []byte
		createdAt       pgtype.Timestamptz
		approvedByID    *uuid.UUID
		approvedAt      pgtype.Timestamptz
		rejectionReason pgtype.Text
	)

	if err := row.Scan(
		&change.ID,
		&change.EntityType,
		&entityID,
		&change.ChangeType,
		&payloadJSON,
		&change.Status,
		&change.CreatedByID,
		&createdAt,
		&approvedByID,
		&approvedAt,
		&rejectionReason,
	); err != nil {
		return domain.PendingChange{}, err
	}

	if err := json.Unmarshal(payloadJSON, &change.Payload); err != nil {
		return domain.PendingChange{}, fmt.Errorf("failed to unmarshal change payload: %w", err)
	}

	change.EntityID = entityID
	change.ApprovedByID = approvedByID
	if createdAt.Valid {
		change.CreatedAt = createdAt.Time
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		change.ApprovedAt = &t
	}
	if rejectionReason.Valid {
		change.RejectionReason = rejectionReason.String
	}
	return change, nil
}
