package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

var (
	// ErrValidation indicates malformed or missing input. Nothing was written.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden indicates the requester has no rights over the target activity.
	ErrForbidden = errors.New("not permitted to modify this activity")
	// ErrInvalidState indicates the activity status does not allow the operation.
	ErrInvalidState = errors.New("operation not allowed in current activity status")
	// ErrConflict indicates a concurrent update won the status guard.
	ErrConflict = errors.New("activity was modified concurrently")
	// ErrNotFound indicates the referenced activity, category or portfolio is absent.
	ErrNotFound = errors.New("resource not found")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// wrapValidation keeps validator errors reachable through errors.As.
func wrapValidation(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func invalidStateError(operation string, status models.ActivityStatus) error {
	return fmt.Errorf("%w: cannot %s an activity that is %s", ErrInvalidState, operation, status)
}

func notFoundError(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, strings.TrimSpace(id))
}
