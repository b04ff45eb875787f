package models

import "fmt"

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string
	Error   string
}

// HealthCheckResponse is the /health response body
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// InvalidTransitionError rejects a status change not permitted by the
// verification transition table.
type InvalidTransitionError struct {
	From VerificationStatus
	To   VerificationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid verification transition from %q to %q", e.From, e.To)
}

// ValidationError rejects a malformed ingestion or mutation payload
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

// NotFoundError reports an unknown report or alert id
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}
