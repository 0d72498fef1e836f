// Package wiki is the content graph engine: the page tree, the derived
// link graph, the append-only version history and the search index, kept
// consistent by the Engine orchestrator.
package wiki

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing page, version or parent.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ValidationError reports a rejected input: bad slug, invalid bounds,
// unknown status, or a cyclic parent assignment.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ForbiddenError reports a failed role or ownership check.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// ConflictError surfaces a storage uniqueness violation, such as two
// creates racing on the same slug. The engine never retries these.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func notFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func forbiddenf(format string, args ...any) error {
	return &ForbiddenError{Reason: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
