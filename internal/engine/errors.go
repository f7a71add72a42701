package engine

import "fmt"

// TransportError reports that the remote backend could not complete the
// round trip: a network-level failure or a non-2xx HTTP status.
type TransportError struct {
	Status int // 0 when the request never produced a response
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine transport failure: %v", e.Err)
	}
	return fmt.Sprintf("engine transport failure: status %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports that the remote backend answered, but the response
// body was not valid JSON or lacked a recognizable discriminator. Kept
// distinct from TransportError so diagnostics can tell "server unreachable"
// from "server returned garbage".
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine protocol failure: %s: %v", e.Reason, e.Err)
	}
	return "engine protocol failure: " + e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// AppError carries an application-level error the remote engine signaled
// in-band via the "Error" discriminator.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	return "engine error: " + e.Message
}
