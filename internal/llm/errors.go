package llm

import "fmt"

// ErrorKind classifies backend failures.
type ErrorKind int

const (
	// KindConnection means the backend was unreachable (or timed out).
	KindConnection ErrorKind = iota
	// KindRejected means the backend answered with a non-success status.
	KindRejected
	// KindUnexpected covers serialization faults and malformed responses.
	KindUnexpected
)

// ConnectionAdvisory is the fixed reply shown when the backend is down.
const ConnectionAdvisory = "Error: could not connect to the model backend. Make sure the inference server is running."

// BackendError is the failure result of a completion call. Every kind
// renders as user-displayable text so callers can persist the failure as a
// normal assistant turn and keep the conversation usable.
type BackendError struct {
	Kind   ErrorKind
	Status int    // set for KindRejected
	Body   string // set for KindRejected
	Err    error
}

func (e *BackendError) Error() string {
	switch e.Kind {
	case KindConnection:
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	case KindRejected:
		return fmt.Sprintf("backend rejected request: status=%d body=%s", e.Status, e.Body)
	default:
		return fmt.Sprintf("backend fault: %v", e.Err)
	}
}

func (e *BackendError) Unwrap() error { return e.Err }

// UserText renders the failure as a chat reply.
func (e *BackendError) UserText() string {
	switch e.Kind {
	case KindConnection:
		return ConnectionAdvisory
	case KindRejected:
		return fmt.Sprintf("Model backend error: %d - %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("Error talking to the model backend: %v", e.Err)
	}
}
