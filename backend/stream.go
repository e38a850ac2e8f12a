package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/routai/routai"
)

// dataMarker prefixes every recognized event line. This protocol variant
// emits one self-contained event per data line; blank-line separators are
// skipped rather than required.
const dataMarker = "data:"

// stream implements [routai.Stream] by parsing SSE events from an HTTP
// response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	state   routai.StreamState
	text    strings.Builder // concatenation of all extracted fragments
	dropped int             // malformed lines skipped
	err     error           // terminal error, if any
}

// Interface compliance check.
var _ routai.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	sc := bufio.NewScanner(body)
	// Route descriptions can produce long single-line events.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &stream{
		body:    body,
		scanner: sc,
		ctx:     ctx,
		state:   routai.StreamStateNew,
	}
}

// Next reads the next semantic event from the SSE stream.
// Returns io.EOF when the stream completes normally. A malformed event line
// is skipped and counted, never surfaced as an error.
func (s *stream) Next() (routai.Event, error) {
	switch s.state {
	case routai.StreamStateComplete:
		return nil, io.EOF
	case routai.StreamStateError:
		return nil, s.err
	case routai.StreamStateClosed:
		return nil, routai.ErrStreamClosed
	}

	for {
		if err := s.ctx.Err(); err != nil {
			s.terminate(err)
			return nil, s.err
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				s.terminate(err)
				return nil, s.err
			}
			// Scanner exhausted without error: the transport signalled
			// completion even if no "complete" event arrived.
			s.state = routai.StreamStateComplete
			return nil, io.EOF
		}
		s.state = routai.StreamStateStreaming

		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || !strings.HasPrefix(line, dataMarker) {
			continue
		}
		payload := strings.TrimSpace(line[len(dataMarker):])
		if payload == "" {
			continue
		}

		var evt sseEvent
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			s.dropped++
			continue
		}

		semantic, done, err := s.processEvent(evt)
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}
		if done {
			s.state = routai.StreamStateComplete
			return nil, io.EOF
		}
		if semantic != nil {
			return semantic, nil
		}
		// Non-semantic event - keep reading.
	}
}

// processEvent maps a parsed wire event to a semantic routai.Event.
// done reports that the backend signalled completion.
func (s *stream) processEvent(evt sseEvent) (semantic routai.Event, done bool, err error) {
	switch evt.Event {
	case "message":
		// Only textually-typed assistant content is forwarded; user echoes
		// and empty payloads are dropped silently.
		if evt.Data.Type != "ai" || evt.Data.Content == "" {
			return nil, false, nil
		}
		s.text.WriteString(evt.Data.Content)
		return routai.EventTextDelta{Delta: evt.Data.Content}, false, nil
	case "processing":
		return routai.EventProcessing{Status: evt.Data.Status}, false, nil
	case "state_update":
		return routai.EventStateUpdate{
			HasRequirements: evt.Data.HasRequirements,
			HasRoute:        evt.Data.HasRoute,
			HasWaypoints:    evt.Data.HasWaypoints,
			DistanceKM:      evt.Data.DistanceKM,
			NumDays:         evt.Data.NumDays,
		}, false, nil
	case "complete":
		return nil, true, nil
	case "error":
		return nil, false, &serverError{message: evt.Data.Error}
	default:
		// Unknown event kinds are ignored.
		return nil, false, nil
	}
}

// State returns the current stream state.
func (s *stream) State() routai.StreamState {
	return s.state
}

// Message returns the assistant text assembled so far: the in-order
// concatenation of every extracted fragment.
func (s *stream) Message() string {
	return s.text.String()
}

// Dropped returns the count of malformed event lines skipped.
func (s *stream) Dropped() int {
	return s.dropped
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != routai.StreamStateComplete && s.state != routai.StreamStateError {
		s.state = routai.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records a terminal error. Context cancellation is a non-error
// terminal state: already-extracted text stands and the stream reads as
// closed rather than failed.
func (s *stream) terminate(err error) {
	if s.ctx.Err() != nil {
		s.state = routai.StreamStateClosed
		s.err = s.ctx.Err()
		return
	}
	s.state = routai.StreamStateError
	s.err = err
}

// serverError is an error event emitted by the backend mid-stream.
type serverError struct {
	message string
}

func (e *serverError) Error() string {
	if e.message == "" {
		return "backend: stream error"
	}
	return "backend: stream error: " + e.message
}
