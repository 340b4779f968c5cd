// Package routeerr defines the error taxonomy shared across the flight
// router core. Every fatal error returned across a component boundary
// carries a Kind so callers can branch on category without string matching.
package routeerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the error categories of the core.
type Kind string

const (
	// Provider boundary (schema + error layer).
	EmptyData       Kind = "empty_data"
	MissingColumns  Kind = "missing_columns"
	SchemaViolation Kind = "schema_violation"

	// Constraint validation.
	InvalidAirport   Kind = "invalid_airport"
	InvalidTimeRange Kind = "invalid_time_range"
	InvalidParameter Kind = "invalid_parameter"

	// Cache lifecycle.
	GraphNotInitialized Kind = "graph_not_initialized"

	// Revalidator upstream (recovered locally, never returned from validate).
	UpstreamRateLimited    Kind = "upstream_rate_limited"
	UpstreamTimeout        Kind = "upstream_timeout"
	UpstreamHTTPError      Kind = "upstream_http_error"
	UpstreamInvalidPayload Kind = "upstream_invalid_payload"

	// Programmer error: the algorithm attempted to write through a
	// read-only flight table view.
	AlgorithmMutationAttempt Kind = "algorithm_mutation_attempt"
)

// Error is the concrete error type returned across core boundaries. It wraps
// an optional cause so callers can still errors.Is/As through to the
// underlying failure (e.g. a *pgconn.PgError or a context.DeadlineExceeded).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error that wraps cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error. Returns ("", false) otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
