package apply

import (
	"context"
	"fmt"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

// Envelope is the typed wrapper carried by envelope entity types: the
// subtype tag plus the inner entity's payload. Envelopes are the
// extensibility seam for adding manageable sub-entities without widening
// the top-level vocabulary.
type Envelope struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// envelopeApplier builds the top-level applier for an envelope entity
// type: it reads the inner subtype tag, rebuilds the change with the
// unwrapped payload, and re-dispatches to the subtype's applier.
func envelopeApplier(envelopeType string, subtypes map[string]Func) Func {
	return func(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
		inner, subtype, err := unwrapChange(change)
		if err != nil {
			return err
		}

		applier, ok := subtypes[subtype]
		if !ok {
			return fmt.Errorf("%w: %s/%s", domain.ErrUnsupportedEntity, envelopeType, subtype)
		}
		return applier(ctx, repos, inner)
	}
}

func unwrapChange(change domain.PendingChange) (domain.PendingChange, string, error) {
	inner := change
	var subtype string

	unwrap := func(snapshot map[string]any) (map[string]any, error) {
		if snapshot == nil {
			return nil, nil
		}
		var envelope Envelope
		if err := decodeInto(snapshot, &envelope); err != nil {
			return nil, err
		}
		if envelope.Type == "" {
			return nil, domain.NewValidationError("payload", "envelope payload is missing its subtype tag")
		}
		if subtype == "" {
			subtype = envelope.Type
		} else if subtype != envelope.Type {
			return nil, domain.NewValidationError("payload", "envelope snapshots disagree on subtype: %s vs %s", subtype, envelope.Type)
		}
		return envelope.Data, nil
	}

	var err error
	if inner.Payload.Created, err = unwrap(change.Payload.Created); err != nil {
		return domain.PendingChange{}, "", err
	}
	if inner.Payload.Updated, err = unwrap(change.Payload.Updated); err != nil {
		return domain.PendingChange{}, "", err
	}
	if inner.Payload.Original, err = unwrap(change.Payload.Original); err != nil {
		return domain.PendingChange{}, "", err
	}

	if subtype == "" {
		return domain.PendingChange{}, "", domain.NewValidationError("payload", "envelope payload carries no snapshots")
	}
	return inner, subtype, nil
}
