package diff

import "github.com/lendstack/backoffice/internal/domain"

// Envelope summarizes envelope-wrapped sub-entity changes. Each snapshot
// of shape {type, data} is unwrapped into {__type, ...data} before the
// generic walk, so the diff reflects the inner entity's fields rather
// than the envelope itself.
func Envelope(change domain.PendingChange) (domain.DiffSummary, error) {
	unwrapped := change
	unwrapped.Payload.Original = unwrapSnapshot(change.Payload.Original)
	unwrapped.Payload.Updated = unwrapSnapshot(change.Payload.Updated)
	unwrapped.Payload.Created = unwrapSnapshot(change.Payload.Created)
	return Generic(unwrapped)
}

func unwrapSnapshot(snapshot map[string]any) map[string]any {
	if snapshot == nil {
		return nil
	}
	data, ok := snapshot["data"].(map[string]any)
	if !ok {
		return snapshot
	}

	out := make(map[string]any, len(data)+1)
	if subtype, ok := snapshot["type"].(string); ok {
		out["__type"] = subtype
	}
	for key, value := range data {
		out[key] = value
	}
	return out
}
