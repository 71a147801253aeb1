package common

import (
	"errors"
	"fmt"
)

// State-conflict sentinels: a concurrent or duplicate request lost a race.
// The losing request is rejected with no partial mutation.
var (
	ErrAlreadyClaimed   = errors.New("ticket is already claimed")
	ErrNotOpen          = errors.New("ticket is not open")
	ErrDuplicateChannel = errors.New("channel already has an open ticket")
)

// ValidationError reports malformed or out-of-range input. Nothing is
// mutated when one is returned.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, detail string) *ValidationError {
	return &ValidationError{Field: field, Detail: detail}
}

// NotFoundError reports an unknown ticket, guild or actor reference.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// NewNotFoundError creates a NotFoundError for a resource and lookup key.
func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// PolicyDeniedError reports an authorization, quota or blacklist refusal.
// Reason is human-readable and safe to show to the requesting actor.
type PolicyDeniedError struct {
	Reason string
}

func (e *PolicyDeniedError) Error() string {
	return e.Reason
}

// NewPolicyDeniedError creates a PolicyDeniedError with a display reason.
func NewPolicyDeniedError(reason string) *PolicyDeniedError {
	return &PolicyDeniedError{Reason: reason}
}

// IsStateConflict reports whether err is one of the state-conflict
// sentinels, possibly wrapped.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrNotOpen) ||
		errors.Is(err, ErrDuplicateChannel)
}

// IsNotFound reports whether err is a NotFoundError, possibly wrapped.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError, possibly wrapped.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPolicyDenied reports whether err is a PolicyDeniedError, possibly
// wrapped.
func IsPolicyDenied(err error) bool {
	var pd *PolicyDeniedError
	return errors.As(err, &pd)
}
