package transfer

import "errors"

// The workflow sorts failures into three kinds. All of them surface as a
// notification and leave the session at its pre-failure step; none is fatal.

// NetworkError wraps a call that failed to complete (rejected, timed out,
// transport broke).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports invalid input, such as a code the gateway rejected
// or an owner selection outside the roster.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// BusinessError reports a request the backend refused, such as an ineligible
// transfer target. The message is shown to the user verbatim.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

// notifyMessage extracts the user-facing message from err, falling back when
// the error carries none.
func notifyMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
