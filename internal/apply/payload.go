package apply

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
)

// decodeInto round-trips a loosely-typed payload section through JSON
// into a typed payload struct.
func decodeInto(data map[string]any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewValidationError("payload", "malformed payload: %v", err)
	}
	return nil
}

func getString(data map[string]any, key string) (string, bool) {
	value, ok := data[key].(string)
	return value, ok
}

func getFloat(data map[string]any, key string) (float64, bool) {
	// JSON numbers decode as float64.
	value, ok := data[key].(float64)
	return value, ok
}

func getInt(data map[string]any, key string) (int, bool) {
	value, ok := data[key].(float64)
	if !ok {
		return 0, false
	}
	return int(value), true
}

// stripRelations drops relation arrays from an update payload so only
// scalar field changes reach the row write.
func stripRelations(data map[string]any) map[string]any {
	stripped := make(map[string]any, len(data))
	for key, value := range data {
		if _, isArray := value.([]any); isArray {
			continue
		}
		stripped[key] = value
	}
	return stripped
}

// requireEntityID guards appliers that mutate an existing record.
func requireEntityID(change domain.PendingChange) (uuid.UUID, error) {
	if change.EntityID == nil {
		return uuid.Nil, domain.NewValidationError("entityId", "entity id is required for %s %s", change.ChangeType, change.EntityType)
	}
	return *change.EntityID, nil
}

func unsupportedChangeType(change domain.PendingChange) error {
	return domain.NewValidationError("changeType", "%s does not support %s", change.EntityType, change.ChangeType)
}
