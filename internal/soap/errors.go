package soap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when a service has no endpoint.
	ErrNotConfigured = errors.New("soap endpoint not configured")
	// ErrMissingCredentials is returned when the WS-Security credentials are empty.
	ErrMissingCredentials = errors.New("soap credentials not configured")
	// ErrUnknownOperation is returned for operations the service does not offer.
	ErrUnknownOperation = errors.New("operation not offered by service")
)

// Fault is a SOAP fault returned by the remote service.
type Fault struct {
	Code   string
	String string
	Detail string
}

func (f *Fault) Error() string {
	if f.Code == "" {
		return "soap fault: " + f.String
	}
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
}

// FaultMessage returns the human-readable fault text.
func (f *Fault) FaultMessage() string {
	switch {
	case f.String != "":
		return f.String
	case f.Detail != "":
		return f.Detail
	default:
		return "SOC returned a fault without a message"
	}
}

// TransportError reports a call that produced no usable SOAP response.
type TransportError struct {
	Operation  string
	StatusCode int
	Timeout    bool
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("soap call %s timed out", e.Operation)
	case e.StatusCode != 0:
		return fmt.Sprintf("soap call %s failed with HTTP %d: %s", e.Operation, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("soap call %s failed: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("soap call %s failed: %s", e.Operation, e.Message)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
