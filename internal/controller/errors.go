package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSelectable is returned when selecting a history entry that is not completed.
	ErrNotSelectable = errors.New("upload is not selectable")
	// ErrNoActiveJob is returned when the job view is requested without a tracked job.
	ErrNoActiveJob = errors.New("no active job")
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("controller closed")
)

// ValidationError rejects input before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
	// Message is what the user is shown.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
