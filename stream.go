package routai

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving events.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Backend.Stream(); a cancelled stream is abandoned, not
// errored, and any text already extracted stands.
//
// Next() returns the next semantic event, io.EOF when the backend signals
// completion. A single malformed event line never terminates the stream;
// it is skipped and counted.
//
// Message() returns the assistant text assembled so far, which by the
// ordering guarantee equals the in-order concatenation of every
// EventTextDelta returned by Next().
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Message() string
	Close() error
}

// Backend issues streaming chat requests. It is the only seam the
// orchestration layer depends on; the HTTP client in backend/ implements it.
type Backend interface {
	Stream(ctx context.Context, message, sessionID string) (Stream, error)
}
