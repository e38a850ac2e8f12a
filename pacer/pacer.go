// Package pacer re-paces the reveal of streamed assistant text. Network
// delivery is bursty; the pacer queues incoming fragments and drains them in
// small random-sized steps at a fixed interval, producing a readable typing
// cadence that is independent of arrival timing. Total content and ordering
// are preserved: the concatenation of emitted appends always equals the
// concatenation of fed fragments.
package pacer

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rivo/uniseg"
)

const (
	defaultInterval = 30 * time.Millisecond
	defaultMaxStep  = 3
)

// Pacer owns a FIFO queue of pending grapheme clusters and at most one
// drain loop. Append events are emitted on Updates; the consumer is a pure
// reducer over that channel.
type Pacer struct {
	interval time.Duration
	maxStep  int
	randFn   func(n int) int

	mu       sync.Mutex
	queue    []string // pending grapheme clusters, FIFO
	draining bool
	closed   bool

	updates chan string
	done    chan struct{}
	wg      sync.WaitGroup
}

// Option configures a [Pacer].
type Option func(*Pacer)

// WithInterval sets the delay between reveal steps.
func WithInterval(d time.Duration) Option {
	return func(p *Pacer) { p.interval = d }
}

// WithMaxStep sets the largest number of grapheme clusters revealed per step.
func WithMaxStep(n int) Option {
	return func(p *Pacer) { p.maxStep = n }
}

// WithRand sets the step-size source: randFn(n) must return a value in
// [0, n). Useful for deterministic tests.
func WithRand(randFn func(n int) int) Option {
	return func(p *Pacer) { p.randFn = randFn }
}

// New creates a Pacer. The caller must consume Updates() and call Close()
// when the turn is over.
func New(opts ...Option) *Pacer {
	p := &Pacer{
		interval: defaultInterval,
		maxStep:  defaultMaxStep,
		randFn:   rand.IntN,
		updates:  make(chan string, 64),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Updates returns the append-event channel. It is closed by Close().
func (p *Pacer) Updates() <-chan string {
	return p.updates
}

// Feed enqueues one fragment and starts the drain loop if it is not already
// running. The draining flag guarantees at most one loop per pacer.
func (p *Pacer) Feed(text string) {
	if text == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		p.queue = append(p.queue, g.Str())
	}
	if !p.draining {
		p.draining = true
		p.wg.Add(1)
		go p.drain()
	}
}

// drain reveals queued clusters in random 1..maxStep prefixes, pausing a
// fixed interval between steps. It exits when the queue empties or the pacer
// is closed; Feed restarts it when new fragments arrive.
func (p *Pacer) drain() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		if p.closed || len(p.queue) == 0 {
			p.draining = false
			p.mu.Unlock()
			return
		}
		n := p.randFn(p.maxStep) + 1
		if n > len(p.queue) {
			n = len(p.queue)
		}
		chunk := strings.Join(p.queue[:n], "")
		p.queue = p.queue[n:]
		p.mu.Unlock()

		select {
		case p.updates <- chunk:
		case <-p.done:
			return
		}

		select {
		case <-time.After(p.interval):
		case <-p.done:
			return
		}
	}
}

// Wait polls until the queue is fully drained, so no buffered text is lost
// when the network finishes before the display catches up.
func (p *Pacer) Wait(ctx context.Context) error {
	for {
		p.mu.Lock()
		idle := len(p.queue) == 0 && !p.draining
		p.mu.Unlock()
		if idle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		}
	}
}

// Close abandons any running drain loop and closes the updates channel.
// Pending queue content is discarded; text already emitted stands.
func (p *Pacer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
	close(p.updates)
}
