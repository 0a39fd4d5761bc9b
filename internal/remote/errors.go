package remote

import "fmt"

// TransportError indicates the call never produced a usable envelope:
// network failure, non-2xx HTTP status or an unparseable response body.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote transport failed with HTTP %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("remote transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError carries a server-reported application error. Message is the
// backend's text, surfaced verbatim to the user.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "remote call failed: unknown error"
	}
	return fmt.Sprintf("remote call failed: %s", e.Message)
}
