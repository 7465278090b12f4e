package flights

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why the flight provider could not be used.
type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindTransport ErrorKind = "transport"
	KindProvider  ErrorKind = "provider"
)

// FlightSourceError is the only error FetchOffers returns.
type FlightSourceError struct {
	Kind ErrorKind
	// Status is the HTTP status for provider errors, zero otherwise.
	Status int
	Err    error
}

func (e *FlightSourceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("flight source %s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("flight source %s error: %v", e.Kind, e.Err)
}

func (e *FlightSourceError) Unwrap() error {
	return e.Err
}

func newSourceError(kind ErrorKind, status int, err error) error {
	return &FlightSourceError{Kind: kind, Status: status, Err: err}
}

// KindOf returns the kind of a flight source error, or "" for any other error.
func KindOf(err error) ErrorKind {
	var fe *FlightSourceError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
