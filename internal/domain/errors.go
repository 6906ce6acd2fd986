package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the target document does not exist.
	ErrNotFound = errors.New("event not found")
	// ErrBackendUnavailable wraps any storage or transport failure.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// RequiredFieldsMessage is shown to users when mandatory form fields are missing.
const RequiredFieldsMessage = "Title, Start Time, Location Name, and Organizer Name are required"

// ValidationError reports missing or malformed user input.
type ValidationError struct {
	Missing []string // form field names
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (missing: %s)", e.Message, strings.Join(e.Missing, ", "))
}

// IngestRejectedError carries a failure reported by the ingest service.
type IngestRejectedError struct {
	Status  int
	Message string
}

func (e *IngestRejectedError) Error() string {
	return fmt.Sprintf("ingest rejected (status %d): %s", e.Status, e.Message)
}
