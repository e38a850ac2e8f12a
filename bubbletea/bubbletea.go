// Package bubbletea provides the Bubble Tea TUI for the routai client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/routai/routai"
)

// SendFunc runs one conversation turn. onAppend receives each paced text
// increment, onState planning updates, onProcessing tool-execution notices.
// The function blocks until the turn reaches a terminal state or the context
// is cancelled.
type SendFunc func(ctx context.Context, session *routai.Session, text string,
	onAppend func(delta string),
	onState func(routai.EventStateUpdate),
	onProcessing func(status string)) error

// SegmentsFunc fetches the per-day segments of the session's planned route.
type SegmentsFunc func(ctx context.Context, sessionID string) ([]routai.Segment, error)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown — when cancelled,
// the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// AppendMsg carries one paced text increment for the active assistant message.
type AppendMsg struct {
	Delta string
}

// ProcessingMsg reports a backend tool-execution notice.
type ProcessingMsg struct {
	Status string
}

// StateUpdateMsg reports planning progress; HasRoute marks the route panel
// stale so it is refetched on next view.
type StateUpdateMsg struct {
	Update routai.EventStateUpdate
}

// TurnDoneMsg signals that the conversation turn has completed.
type TurnDoneMsg struct {
	Err error
}

// SegmentsMsg delivers the fetched route segments for the route panel.
type SegmentsMsg struct {
	Segments []routai.Segment
	Err      error
}
