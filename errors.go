package routai

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrNoSession indicates a send was attempted without a session ID.
	ErrNoSession = errors.New("no active session")

	// ErrSendInFlight indicates a send was attempted while another is active.
	ErrSendInFlight = errors.New("send already in flight")

	// ErrEmptyMessage indicates a send was attempted with empty text.
	ErrEmptyMessage = errors.New("empty message")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)
