package domain

import "net/http"

// Outcome is the tagged result of an ingest submission. Callers branch on
// Success; a failed Outcome always carries a Status and Message.
type Outcome struct {
	Success bool
	EventID string
	Status  int
	Message string
}

// Succeeded builds a successful Outcome.
func Succeeded(eventID string, status int) Outcome {
	return Outcome{Success: true, EventID: eventID, Status: status}
}

// Failed builds a failed Outcome. A zero status is reported as 500.
func Failed(status int, message string) Outcome {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Outcome{Status: status, Message: message}
}

// Err converts a failed Outcome into an *IngestRejectedError, or nil on success.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return &IngestRejectedError{Status: o.Status, Message: o.Message}
}
