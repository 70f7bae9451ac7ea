package reservation

import "errors"

// Kind classifies a service failure. Handlers map kinds to HTTP statuses;
// the service itself never deals in status codes.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindAuthentication      Kind = "authentication"
	KindNotFound            Kind = "not_found"
	KindBackendRejection    Kind = "backend_rejection"
	KindServer              Kind = "server"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
)

// Error is the single error type crossing the service boundary. Message is
// human-readable and safe to return to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the taxonomy kind from err, defaulting to KindServer for
// anything unclassified.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindServer
}

// MessageOf extracts the caller-safe message from err.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "internal server error"
}
