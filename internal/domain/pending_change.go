package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType enumerates the mutation kinds a pending change can stage.
type ChangeType string

const (
	ChangeTypeCreate ChangeType = "CREATE"
	ChangeTypeUpdate ChangeType = "UPDATE"
	ChangeTypeDelete ChangeType = "DELETE"
)

// ChangeStatus is the review state of a pending change. APPROVED and
// REJECTED are terminal.
type ChangeStatus string

const (
	ChangeStatusPending  ChangeStatus = "PENDING"
	ChangeStatusApproved ChangeStatus = "APPROVED"
	ChangeStatusRejected ChangeStatus = "REJECTED"
)

// ChangePayload carries the before/after snapshots of a staged mutation.
// CREATE populates Created only, DELETE populates Original only, UPDATE
// populates both Original and Updated.
type ChangePayload struct {
	Original          map[string]any `json:"original,omitempty"`
	Updated           map[string]any `json:"updated,omitempty"`
	Created           map[string]any `json:"created,omitempty"`
	AppliedProductIDs []uuid.UUID    `json:"appliedProductIds,omitempty"`
}

// Data returns the snapshot the change type mutates toward: Created for
// CREATE, Updated for UPDATE, Original for DELETE.
func (p ChangePayload) Data(changeType ChangeType) map[string]any {
	switch changeType {
	case ChangeTypeCreate:
		return p.Created
	case ChangeTypeUpdate:
		return p.Updated
	case ChangeTypeDelete:
		return p.Original
	default:
		return nil
	}
}

// PendingChange is a staged, not-yet-applied mutation proposal awaiting
// review. Rows are never deleted; the record doubles as an audit trail.
type PendingChange struct {
	ID              uuid.UUID     `json:"id"`
	EntityType      string        `json:"entityType"`
	EntityID        *uuid.UUID    `json:"entityId,omitempty"`
	ChangeType      ChangeType    `json:"changeType"`
	Payload         ChangePayload `json:"payload"`
	Status          ChangeStatus  `json:"status"`
	CreatedByID     uuid.UUID     `json:"createdById"`
	CreatedAt       time.Time     `json:"createdAt"`
	ApprovedByID    *uuid.UUID    `json:"approvedById,omitempty"`
	ApprovedAt      *time.Time    `json:"approvedAt,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
}

// NewPendingChange builds a PENDING change record for submission.
func NewPendingChange(entityType string, entityID *uuid.UUID, changeType ChangeType, payload ChangePayload, proposerID uuid.UUID) PendingChange {
	return PendingChange{
		ID:          uuid.New(),
		EntityType:  entityType,
		EntityID:    entityID,
		ChangeType:  changeType,
		Payload:     payload,
		Status:      ChangeStatusPending,
		CreatedByID: proposerID,
		CreatedAt:   time.Now(),
	}
}

// ValidateShape enforces the payload-key and entity-id consistency rules.
// Deeper, entity-specific validation happens at apply time.
func (c PendingChange) ValidateShape() error {
	switch c.ChangeType {
	case ChangeTypeCreate:
		if c.Payload.Created == nil {
			return NewValidationError("payload", "CREATE requires a created snapshot")
		}
		if c.Payload.Original != nil || c.Payload.Updated != nil {
			return NewValidationError("payload", "CREATE carries only a created snapshot")
		}
	case ChangeTypeUpdate:
		if c.Payload.Original == nil || c.Payload.Updated == nil {
			return NewValidationError("payload", "UPDATE requires both original and updated snapshots")
		}
		if c.Payload.Created != nil {
			return NewValidationError("payload", "UPDATE must not carry a created snapshot")
		}
		if c.EntityID == nil {
			return NewValidationError("entityId", "entity id is required for UPDATE")
		}
	case ChangeTypeDelete:
		if c.Payload.Original == nil {
			return NewValidationError("payload", "DELETE requires an original snapshot")
		}
		if c.Payload.Created != nil || c.Payload.Updated != nil {
			return NewValidationError("payload", "DELETE carries only an original snapshot")
		}
		if c.EntityID == nil {
			return NewValidationError("entityId", "entity id is required for DELETE")
		}
	default:
		return NewValidationError("changeType", "unknown change type %s", c.ChangeType)
	}
	return nil
}

// Terminal reports whether the change has already been approved or rejected.
func (c PendingChange) Terminal() bool {
	return c.Status != ChangeStatusPending
}
