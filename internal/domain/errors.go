package domain

import (
	"errors"
	"fmt"
)

// Conflict and configuration errors surfaced by the review workflow.
var (
	// ErrAlreadyProcessed means the change left PENDING before this call.
	ErrAlreadyProcessed = errors.New("change already processed")
	// ErrSelfApprovalForbidden means the reviewer proposed the change.
	ErrSelfApprovalForbidden = errors.New("reviewer cannot process their own change")
	// ErrUnsupportedEntity means no applier is registered for the tag. This
	// is a configuration fault, not a bad request.
	ErrUnsupportedEntity = errors.New("unsupported entity type")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateAttributeGroup means a combination carried two option
	// values from the same attribute group.
	ErrDuplicateAttributeGroup = errors.New("duplicate attribute group in combination")
	// ErrDuplicateCombination means two incoming combination rows resolved
	// to the same (location, combination key) pair.
	ErrDuplicateCombination = errors.New("duplicate combination for location")
)

// ValidationError marks a user-correctable fault. Apply-time validation
// errors roll the transaction back and leave the change PENDING.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
