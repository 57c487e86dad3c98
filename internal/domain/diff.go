package domain

// DiffKind classifies a single diff entry.
type DiffKind string

const (
	DiffKindAdded   DiffKind = "added"
	DiffKindRemoved DiffKind = "removed"
	DiffKindUpdated DiffKind = "updated"
)

// DiffEntry is one field-level difference. FieldPath is a dot-joined path
// into the payload snapshot.
type DiffEntry struct {
	FieldPath string   `json:"fieldPath"`
	Before    any      `json:"before,omitempty"`
	After     any      `json:"after,omitempty"`
	Kind      DiffKind `json:"kind"`
}

// DiffSummary is the display-only result of diffing a change's snapshots.
// It never affects the apply outcome.
type DiffSummary struct {
	AddedCount   int         `json:"addedCount"`
	RemovedCount int         `json:"removedCount"`
	UpdatedCount int         `json:"updatedCount"`
	Details      []DiffEntry `json:"details"`
}

// Append records an entry and bumps the matching counter.
func (s *DiffSummary) Append(entry DiffEntry) {
	switch entry.Kind {
	case DiffKindAdded:
		s.AddedCount++
	case DiffKindRemoved:
		s.RemovedCount++
	case DiffKindUpdated:
		s.UpdatedCount++
	}
	s.Details = append(s.Details, entry)
}
