// Package review owns the submit/approve/reject workflow over pending
// changes. Approval applies the staged mutation inside one transaction;
// rejection records the reason and compensates provisional side effects
// where the entity type has any.
package review

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/audit"
	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

// Dispatcher is the apply-registry surface the controller consumes.
type Dispatcher interface {
	Dispatch(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error
	Summarize(change domain.PendingChange) (domain.DiffSummary, error)
}

// Controller coordinates the review workflow.
type Controller struct {
	changes    repository.PendingChangeRepository
	tx         repository.TxManager
	dispatcher Dispatcher
	auditor    audit.Recorder
}

// NewController wires the workflow over its collaborators. auditor may be
// nil to disable audit recording.
func NewController(changes repository.PendingChangeRepository, tx repository.TxManager, dispatcher Dispatcher, auditor audit.Recorder) *Controller {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Controller{changes: changes, tx: tx, dispatcher: dispatcher, auditor: auditor}
}

// Submit stages a new PENDING change after shape validation. Nothing is
// applied until a different user approves it.
func (c *Controller) Submit(ctx context.Context, entityType string, entityID *uuid.UUID, changeType domain.ChangeType, payload domain.ChangePayload, proposerID uuid.UUID) (domain.PendingChange, error) {
	change := domain.NewPendingChange(entityType, entityID, changeType, payload, proposerID)
	if err := change.ValidateShape(); err != nil {
		return domain.PendingChange{}, err
	}

	created, err := c.changes.Create(ctx, change)
	if err != nil {
		return domain.PendingChange{}, fmt.Errorf("failed to stage change: %w", err)
	}

	c.auditor.Record(ctx, audit.Event{
		ChangeID:   created.ID,
		EntityType: created.EntityType,
		ChangeType: created.ChangeType,
		Action:     audit.ActionSubmitted,
		ActorID:    proposerID,
	})
	return created, nil
}

// Approve applies a PENDING change and marks it APPROVED, all inside one
// transaction. A change already past PENDING returns ErrAlreadyProcessed;
// a reviewer approving their own change returns ErrSelfApprovalForbidden.
// The underlying mutation executes exactly once even under concurrent
// approvals: the status flip is a conditional update claimed before apply.
func (c *Controller) Approve(ctx context.Context, changeID, reviewerID uuid.UUID) (domain.PendingChange, error) {
	change, err := c.changes.GetByID(ctx, changeID)
	if err != nil {
		return domain.PendingChange{}, err
	}
	if change.Terminal() {
		return domain.PendingChange{}, domain.ErrAlreadyProcessed
	}
	if change.CreatedByID == reviewerID {
		return domain.PendingChange{}, domain.ErrSelfApprovalForbidden
	}

	approvedAt := time.Now()
	err = c.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		claimed, err := repos.PendingChanges.ClaimApproved(ctx, change.ID, reviewerID, approvedAt)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrAlreadyProcessed
		}
		return c.dispatcher.Dispatch(ctx, repos, change)
	})
	if err != nil {
		return domain.PendingChange{}, err
	}

	change.Status = domain.ChangeStatusApproved
	change.ApprovedByID = &reviewerID
	change.ApprovedAt = &approvedAt

	c.auditor.Record(ctx, audit.Event{
		ChangeID:   change.ID,
		EntityType: change.EntityType,
		ChangeType: change.ChangeType,
		Action:     audit.ActionApproved,
		ActorID:    reviewerID,
	})
	return change, nil
}

// Reject marks a PENDING change REJECTED with a mandatory reason and, for
// entity types that flip live status on submission, restores the live
// record's status from the original snapshot.
func (c *Controller) Reject(ctx context.Context, changeID, reviewerID uuid.UUID, reason string) (domain.PendingChange, error) {
	if reason == "" {
		return domain.PendingChange{}, domain.NewValidationError("reason", "rejection reason is required")
	}

	change, err := c.changes.GetByID(ctx, changeID)
	if err != nil {
		return domain.PendingChange{}, err
	}
	if change.Terminal() {
		return domain.PendingChange{}, domain.ErrAlreadyProcessed
	}
	if change.CreatedByID == reviewerID {
		return domain.PendingChange{}, domain.ErrSelfApprovalForbidden
	}

	err = c.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		claimed, err := repos.PendingChanges.ClaimRejected(ctx, change.ID, reviewerID, reason)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrAlreadyProcessed
		}
		c.compensate(ctx, repos, change)
		return nil
	})
	if err != nil {
		return domain.PendingChange{}, err
	}

	change.Status = domain.ChangeStatusRejected
	change.ApprovedByID = &reviewerID
	change.RejectionReason = reason

	c.auditor.Record(ctx, audit.Event{
		ChangeID:   change.ID,
		EntityType: change.EntityType,
		ChangeType: change.ChangeType,
		Action:     audit.ActionRejected,
		ActorID:    reviewerID,
		Detail:     map[string]any{"reason": reason},
	})
	return change, nil
}

// compensate undoes the provisional status flip provider, product and tax
// updates perform on submission. It is best-effort: a compensation failure
// is logged and never fails the rejection itself.
func (c *Controller) compensate(ctx context.Context, repos repository.Repositories, change domain.PendingChange) {
	if change.ChangeType != domain.ChangeTypeUpdate || change.EntityID == nil {
		return
	}

	status := domain.StatusActive
	if original, ok := change.Payload.Original["status"].(string); ok && original != "" {
		status = original
	}

	var err error
	switch change.EntityType {
	case domain.EntityTypeProvider:
		err = repos.Providers.UpdateStatus(ctx, *change.EntityID, status)
	case domain.EntityTypeProduct:
		err = repos.Products.UpdateStatus(ctx, *change.EntityID, status)
	case domain.EntityTypeTax:
		err = repos.Taxes.UpdateStatus(ctx, *change.EntityID, status)
	default:
		return
	}
	if err != nil {
		log.Printf("review: failed to restore %s %s status after rejection: %v", change.EntityType, change.EntityID, err)
	}
}

// ComputeDiff returns the field-level diff summary for display alongside
// the change in the review queue.
func (c *Controller) ComputeDiff(ctx context.Context, changeID uuid.UUID) (domain.DiffSummary, error) {
	change, err := c.changes.GetByID(ctx, changeID)
	if err != nil {
		return domain.DiffSummary{}, err
	}
	return c.dispatcher.Summarize(change)
}

// List returns changes for the review queue, newest first, optionally
// filtered by status.
func (c *Controller) List(ctx context.Context, status *domain.ChangeStatus, limit, offset int) ([]domain.PendingChange, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return c.changes.List(ctx, status, limit, offset)
}
