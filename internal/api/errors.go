package api

import (
	"errors"
	"fmt"
)

// Error is a backend rejection: the message comes from the response body's
// "error" field when the backend supplied one.
type Error struct {
	Status  int
	Message string
	Details []string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend respondió %d", e.Status)
}

// Message extracts a human-readable message for the user: the backend's own
// text when present, otherwise the given fallback.
func Message(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

// Details returns the backend's detail list, if any.
func Details(err error) []string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Details
	}
	return nil
}

// Mirrors only system-class failures to Sentry: 5xx, 429 and transport
// errors. Plain validation rejections stay out.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status == 429 || ae.Status >= 500
	}
	return true
}
