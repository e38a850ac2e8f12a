package mock

import (
	"io"
	"strings"
	"sync"

	"github.com/routai/routai"
)

// Interface compliance checks.
var (
	_ routai.Stream = (*Stream)(nil)
	_ routai.Stream = (*ScriptedStream)(nil)
)

// Stream is a test double for routai.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. StateFn, MessageFn and CloseFn are nil-safe
// because test code commonly calls defer stream.Close() and these methods
// rarely need custom behavior.
type Stream struct {
	NextFn    func() (routai.Event, error)
	StateFn   func() routai.StreamState
	MessageFn func() string
	CloseFn   func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (routai.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() routai.StreamState {
	if s.StateFn == nil {
		return routai.StreamStateNew
	}
	return s.StateFn()
}

// Message delegates to MessageFn. Returns "" when MessageFn is nil.
func (s *Stream) Message() string {
	if s.MessageFn == nil {
		return ""
	}
	return s.MessageFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// ScriptedStream replays a fixed sequence of events, then a terminal error
// (io.EOF for normal completion). It assembles text the way a real stream
// does, so Message() stays consistent with the deltas handed out.
type ScriptedStream struct {
	Events []routai.Event
	Err    error // returned after Events are exhausted; nil means io.EOF

	mu   sync.Mutex
	pos  int
	text strings.Builder
}

// Next returns the next scripted event.
func (s *ScriptedStream) Next() (routai.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.Events) {
		if s.Err != nil {
			return nil, s.Err
		}
		return nil, io.EOF
	}
	evt := s.Events[s.pos]
	s.pos++
	if d, ok := evt.(routai.EventTextDelta); ok {
		s.text.WriteString(d.Delta)
	}
	return evt, nil
}

// State reports Streaming until the script is exhausted.
func (s *ScriptedStream) State() routai.StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.Events) {
		if s.Err != nil {
			return routai.StreamStateError
		}
		return routai.StreamStateComplete
	}
	return routai.StreamStateStreaming
}

// Message returns the text assembled from the deltas handed out so far.
func (s *ScriptedStream) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// Close is a no-op.
func (s *ScriptedStream) Close() error { return nil }
