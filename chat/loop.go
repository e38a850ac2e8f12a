// Package chat orchestrates one conversation turn at a time: it opens the
// backend stream, feeds extracted fragments through the pacer, and applies
// paced appends to the assistant message. It is the only place user-visible
// error text is decided.
package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/routai/routai"
	"github.com/routai/routai/pacer"
)

// FallbackErrorText replaces the assistant message when a turn fails before
// any content has streamed.
const FallbackErrorText = "Sorry, something went wrong while planning your route. Please try again."

// TurnState tracks the lifecycle of a send. Send is only legal from
// StateIdle; every terminal outcome returns the loop to StateIdle.
type TurnState int

const (
	StateIdle      TurnState = iota
	StateSending             // request opened, no events yet
	StateStreaming           // receiving events
	StateCompleted           // terminal: stream finished and drained
	StateErrored             // terminal: transport or server failure
	StateCancelled           // terminal: caller aborted, not an error
)

// Loop owns the in-flight turn. At most one send may be active; concurrent
// sends are rejected with routai.ErrSendInFlight and create no state.
type Loop struct {
	backend   routai.Backend
	pacerOpts []pacer.Option

	mu      sync.Mutex
	state   TurnState
	outcome TurnState // last terminal state reached
	cancel  context.CancelFunc
}

// Option configures a [Loop].
type Option func(*Loop)

// WithPacerOptions sets options applied to the pacer of every turn.
func WithPacerOptions(opts ...pacer.Option) Option {
	return func(l *Loop) { l.pacerOpts = opts }
}

// New creates a Loop sending through the given backend.
func New(b routai.Backend, opts ...Option) *Loop {
	l := &Loop{backend: b, state: StateIdle}
	for _, o := range opts {
		o(l)
	}
	return l
}

// SendOption configures a single Send invocation.
type SendOption func(*sendConfig)

type sendConfig struct {
	onAppend     func(delta string)
	onState      func(routai.EventStateUpdate)
	onProcessing func(status string)
}

// WithOnAppend sets the append-event sink: it receives each paced text
// increment in display order. The assistant message content is always the
// concatenation of the deltas seen so far.
func WithOnAppend(h func(delta string)) SendOption {
	return func(c *sendConfig) { c.onAppend = h }
}

// WithOnState sets a callback for planning state updates reported by the
// backend mid-stream.
func WithOnState(h func(routai.EventStateUpdate)) SendOption {
	return func(c *sendConfig) { c.onState = h }
}

// WithOnProcessing sets a callback for backend tool-execution notices.
func WithOnProcessing(h func(status string)) SendOption {
	return func(c *sendConfig) { c.onProcessing = h }
}

// State returns the current turn state.
func (l *Loop) State() TurnState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// LastOutcome returns the terminal state of the most recent turn.
func (l *Loop) LastOutcome() TurnState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outcome
}

// Cancel aborts the in-flight request, if any. The reception loop observes
// the cancellation promptly; text already paced onto the message stands.
func (l *Loop) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// Send runs one conversation turn. It appends the user message, creates the
// assistant placeholder, streams the response through the pacer, and blocks
// until the turn reaches a terminal state. Cancellation is not reported as
// an error. On failure before any content arrived the assistant message is
// given FallbackErrorText; on failure after content, the partial text stands
// and the error is returned.
func (l *Loop) Send(ctx context.Context, session *routai.Session, text string, opts ...SendOption) error {
	var cfg sendConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if strings.TrimSpace(text) == "" {
		return routai.ErrEmptyMessage
	}
	if session == nil || session.ID == "" {
		return routai.ErrNoSession
	}

	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return routai.ErrSendInFlight
	}
	ctx, cancel := context.WithCancel(ctx)
	l.state = StateSending
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	session.AddUser(text)
	asst := session.StartAssistant()

	outcome, err := l.turn(ctx, session, asst, text, &cfg)

	l.mu.Lock()
	l.outcome = outcome
	l.state = StateIdle
	l.cancel = nil
	l.mu.Unlock()
	return err
}

// turn drives a single stream to a terminal state and returns it.
func (l *Loop) turn(ctx context.Context, session *routai.Session, asst *routai.Message, text string, cfg *sendConfig) (TurnState, error) {
	p := pacer.New(l.pacerOpts...)

	// The pacing consumer is the sole writer of the assistant content.
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for chunk := range p.Updates() {
			asst.Append(chunk)
			if cfg.onAppend != nil {
				cfg.onAppend(chunk)
			}
		}
	}()

	// received tracks whether any content arrived, displayed or not. The
	// fallback text is only shown when a turn fails with nothing received;
	// a partially revealed answer is left standing.
	received := false
	fail := func(err error) (TurnState, error) {
		p.Close()
		<-consumerDone
		if cancelled(ctx, err) {
			return StateCancelled, nil
		}
		if !received {
			asst.Append(FallbackErrorText)
			if cfg.onAppend != nil {
				cfg.onAppend(FallbackErrorText)
			}
		}
		return StateErrored, err
	}

	stream, err := l.backend.Stream(ctx, text, session.ID)
	if err != nil {
		return fail(err)
	}
	defer stream.Close()

	l.mu.Lock()
	l.state = StateStreaming
	l.mu.Unlock()

	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(err)
		}
		switch e := evt.(type) {
		case routai.EventTextDelta:
			received = true
			p.Feed(e.Delta)
		case routai.EventStateUpdate:
			if cfg.onState != nil {
				cfg.onState(e)
			}
		case routai.EventProcessing:
			if cfg.onProcessing != nil {
				cfg.onProcessing(e.Status)
			}
		}
	}

	// Flush: everything extracted must reach the display before the turn
	// finalizes, even when the network finished first.
	if err := p.Wait(ctx); err != nil {
		return fail(err)
	}
	p.Close()
	<-consumerDone
	session.UpdatedAt = time.Now()
	return StateCompleted, nil
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
