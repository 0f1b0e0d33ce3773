package services

import (
	"fmt"
	"strings"
)

// PermissionError is returned when the acting user lacks the admin role.
type PermissionError struct {
	Role string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("admin role required, got %q", e.Role)
}

// NotFoundError enumerates the ids that failed to resolve so callers can
// report exactly which references were bad.
type NotFoundError struct {
	Resource string
	IDs      []string
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 0 {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, strings.Join(e.IDs, ", "))
}

// InvalidOperationError marks a request that resolved to a no-op, such as
// adding candidates who are all already members.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return e.Reason
}
