package bubbletea

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/routai/routai"
	"github.com/routai/routai/markdown"
)

var _ tea.Model = Model{}

// entry is one rendered transcript item. The TUI accumulates its own copy of
// the conversation from submit and append events, so rendering never races
// with the chat goroutine that owns the session.
type entry struct {
	role routai.Role
	text string
}

// Model is the Bubble Tea model for the routai TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	send     SendFunc
	segments SegmentsFunc
	session  *routai.Session
	theme    routai.Theme
	styles   Styles

	transcript []entry

	running bool
	cancel  context.CancelFunc
	eventCh chan tea.Msg
	doneCh  chan error
	err     error
	status  string // transient backend processing notice
	ready   bool

	showRoute  bool
	routeStale bool
	fetching   bool
	route      []routai.Segment
	routeErr   error
}

// New creates a new TUI Model.
func New(send SendFunc, segments SegmentsFunc, session *routai.Session, theme routai.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Where do you want to ride?"
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:    ti,
		send:     send,
		segments: segments,
		session:  session,
		theme:    theme,
		styles:   NewStyles(theme),
	}
	for _, msg := range session.Messages {
		m.transcript = append(m.transcript, entry{role: msg.Role, text: msg.Content})
	}
	return m
}

// Running returns whether a turn is currently in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case AppendMsg:
		m = m.appendToAssistant(msg.Delta)
		m.refreshViewport()
		m.Viewport.GotoBottom()
		return m, m.listen()

	case ProcessingMsg:
		m.status = msg.Status
		return m, m.listen()

	case StateUpdateMsg:
		if msg.Update.HasRoute {
			m.routeStale = true
		}
		return m, m.listen()

	case TurnDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		m.status = ""
		if msg.Err != nil {
			m.err = msg.Err
		}
		cmds = append(cmds, m.Input.Focus())
		if m.routeStale && m.segments != nil && !m.fetching {
			m.fetching = true
			cmds = append(cmds, fetchSegments(m.segments, m.session.ID))
		}
		m.refreshViewport()
		return m, tea.Batch(cmds...)

	case SegmentsMsg:
		m.fetching = false
		m.routeStale = false
		m.routeErr = msg.Err
		if msg.Err == nil {
			m.route = msg.Segments
		}
		m.refreshViewport()
		return m, nil
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusH := 1
	gapH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - gapH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.refreshViewport()
	m.Viewport.GotoBottom()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running || m.showRoute {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyTab:
		m.showRoute = !m.showRoute
		m.refreshViewport()
		var cmd tea.Cmd
		if m.showRoute && m.segments != nil && !m.fetching && (m.routeStale || m.route == nil) {
			m.fetching = true
			cmd = fetchSegments(m.segments, m.session.ID)
		}
		return m, cmd
	}

	// When idle, pass keys to both the input (for typing) and viewport
	// (for scrolling). Only non-character keys go to the viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.transcript = append(m.transcript,
		entry{role: routai.RoleUser, text: text},
		entry{role: routai.RoleAssistant},
	)
	m.refreshViewport()
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan tea.Msg, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startTurn(m.send, ctx, m.session, text, m.eventCh, m.doneCh),
		m.listen(),
	)
}

func (m Model) appendToAssistant(delta string) Model {
	if n := len(m.transcript); n > 0 && m.transcript[n-1].role == routai.RoleAssistant {
		m.transcript[n-1].text += delta
	}
	return m
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	if m.showRoute {
		m.Viewport.SetContent(m.renderRoute(m.Viewport.Width))
		return
	}
	m.Viewport.SetContent(m.renderTranscript(m.Viewport.Width))
}

func (m Model) renderTranscript(width int) string {
	var b strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch e.role {
		case routai.RoleUser:
			b.WriteString(m.styles.UserMsg.Render("> " + e.text))
		case routai.RoleAssistant:
			b.WriteString(markdown.Render(e.text, width, m.theme))
		}
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.showRoute {
		return m.styles.Muted.Render("Route overview — Tab to return to chat")
	}
	if m.err != nil {
		return m.styles.Error.Render("Error: " + m.err.Error())
	}
	if m.running {
		if m.status != "" {
			return m.styles.Muted.Render("Working: " + m.status)
		}
		return m.styles.Muted.Render("Planning...")
	}
	return m.styles.Muted.Render("Enter to send, Tab for route, Ctrl+C to quit")
}

// startTurn runs one conversation turn in a goroutine, bridging callbacks
// into the event channel.
func startTurn(send SendFunc, ctx context.Context, session *routai.Session, text string, eventCh chan<- tea.Msg, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		deliver := func(msg tea.Msg) {
			select {
			case eventCh <- msg:
			case <-ctx.Done():
			}
		}
		err := send(ctx, session, text,
			func(delta string) { deliver(AppendMsg{Delta: delta}) },
			func(u routai.EventStateUpdate) { deliver(StateUpdateMsg{Update: u}) },
			func(status string) { deliver(ProcessingMsg{Status: status}) },
		)
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listen waits for the next event from the turn in flight. When the event
// channel closes it reads the terminal error and returns TurnDoneMsg.
func (m Model) listen() tea.Cmd {
	ch, doneCh := m.eventCh, m.doneCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return TurnDoneMsg{Err: <-doneCh}
		}
		return msg
	}
}

// fetchSegments loads the route panel data.
func fetchSegments(fn SegmentsFunc, sessionID string) tea.Cmd {
	return func() tea.Msg {
		segments, err := fn(context.Background(), sessionID)
		return SegmentsMsg{Segments: segments, Err: err}
	}
}
