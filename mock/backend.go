// Package mock provides test doubles for routai interfaces using function fields.
package mock

import (
	"context"

	"github.com/routai/routai"
)

// Interface compliance check.
var _ routai.Backend = (*Backend)(nil)

// Backend is a test double for routai.Backend.
// Set StreamFn before calling Stream; the other function fields are only
// consulted by tests that exercise the corresponding endpoint.
type Backend struct {
	StreamFn        func(ctx context.Context, message, sessionID string) (routai.Stream, error)
	CreateSessionFn func(ctx context.Context) (string, error)
	SegmentsFn      func(ctx context.Context, sessionID string) ([]routai.Segment, error)
	RouteFn         func(ctx context.Context, sessionID string) (routai.Route, error)
}

// Stream delegates to StreamFn.
func (b *Backend) Stream(ctx context.Context, message, sessionID string) (routai.Stream, error) {
	return b.StreamFn(ctx, message, sessionID)
}

// CreateSession delegates to CreateSessionFn.
func (b *Backend) CreateSession(ctx context.Context) (string, error) {
	return b.CreateSessionFn(ctx)
}

// Segments delegates to SegmentsFn.
func (b *Backend) Segments(ctx context.Context, sessionID string) ([]routai.Segment, error) {
	return b.SegmentsFn(ctx, sessionID)
}

// Route delegates to RouteFn.
func (b *Backend) Route(ctx context.Context, sessionID string) (routai.Route, error) {
	return b.RouteFn(ctx, sessionID)
}
