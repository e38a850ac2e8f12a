package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/routai/routai"
	"github.com/routai/routai/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(send bubbletea.SendFunc, segments bubbletea.SegmentsFunc) bubbletea.Model {
	return bubbletea.New(send, segments, routai.NewSession("sess-1"), routai.DefaultTheme())
}

func sized(m bubbletea.Model) bubbletea.Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(bubbletea.Model)
}

// drain runs a command tree to completion, feeding every produced message
// back into the model, so async turn plumbing can be exercised without a
// running program.
func drain(t *testing.T, m bubbletea.Model, cmd tea.Cmd) bubbletea.Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
		return m
	default:
		next, nextCmd := m.Update(msg)
		return drain(t, next.(bubbletea.Model), nextCmd)
	}
}

func scriptedSend(deltas []string, update *routai.EventStateUpdate, err error) bubbletea.SendFunc {
	return func(ctx context.Context, session *routai.Session, text string, onAppend func(string), onState func(routai.EventStateUpdate), onProcessing func(string)) error {
		session.AddUser(text)
		asst := session.StartAssistant()
		for _, d := range deltas {
			asst.Append(d)
			onAppend(d)
		}
		if update != nil {
			onState(*update)
		}
		return err
	}
}

func TestModel_ViewBeforeSizeIsPlaceholder(t *testing.T) {
	t.Parallel()

	m := newTestModel(nil, nil)
	assert.Contains(t, m.View(), "Initializing")
}

func TestModel_SubmitRunsTurnToCompletion(t *testing.T) {
	t.Parallel()

	m := sized(newTestModel(scriptedSend([]string{"Here is ", "your route."}, nil, nil), nil))

	m.Input.SetValue("Plan a ride")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(bubbletea.Model)

	require.True(t, m.Running())
	m = drain(t, m, cmd)

	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.Contains(t, m.View(), "Here is your route.")
	assert.Contains(t, m.View(), "> Plan a ride")
}

func TestModel_EmptyInputIsIgnored(t *testing.T) {
	t.Parallel()

	m := sized(newTestModel(scriptedSend(nil, nil, nil), nil))

	m.Input.SetValue("   ")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(bubbletea.Model)

	assert.False(t, m.Running())
	assert.Nil(t, cmd)
}

func TestModel_EnterWhileRunningIsIgnored(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	send := func(ctx context.Context, session *routai.Session, text string, onAppend func(string), onState func(routai.EventStateUpdate), onProcessing func(string)) error {
		<-release
		return nil
	}

	m := sized(newTestModel(send, nil))
	m.Input.SetValue("first")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(bubbletea.Model)
	require.True(t, m.Running())

	m.Input.SetValue("second")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(bubbletea.Model)

	assert.Nil(t, cmd)
	assert.Equal(t, "second", m.Input.Value())
	close(release)
}

func TestModel_TurnErrorShowsInStatusLine(t *testing.T) {
	t.Parallel()

	m := sized(newTestModel(scriptedSend(nil, nil, errors.New("backend unreachable")), nil))

	m.Input.SetValue("Plan a ride")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, next.(bubbletea.Model), cmd)

	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "backend unreachable")
}

func TestModel_RoutePanelFetchesSegmentsAfterStateUpdate(t *testing.T) {
	t.Parallel()

	update := &routai.EventStateUpdate{HasRoute: true, DistanceKM: 120, NumDays: 2}
	segments := []routai.Segment{
		{
			Day: 1,
			Route: routai.Route{
				Origin:        routai.Location{Name: "London"},
				Destination:   routai.Location{Name: "Cambridge"},
				Distance:      98000,
				ElevationGain: 540,
			},
			AccommodationOptions: []routai.Accommodation{{Name: "The Old Mill", Rating: 4.5}},
		},
		{
			Day: 2,
			Route: routai.Route{
				Origin:        routai.Location{Name: "Cambridge"},
				Destination:   routai.Location{Name: "Leeds"},
				Distance:      187000,
				ElevationGain: 1210,
			},
		},
	}

	var fetchedID string
	fetch := func(ctx context.Context, sessionID string) ([]routai.Segment, error) {
		fetchedID = sessionID
		return segments, nil
	}

	m := sized(newTestModel(scriptedSend([]string{"Done."}, update, nil), fetch))

	m.Input.SetValue("Plan a ride")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, next.(bubbletea.Model), cmd)

	require.Equal(t, "sess-1", fetchedID)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(bubbletea.Model)

	view := m.View()
	assert.Contains(t, view, "London → Cambridge")
	assert.Contains(t, view, "The Old Mill (4.5)")
	assert.Contains(t, view, "2 days")

	// Tab again returns to the transcript.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(bubbletea.Model)
	assert.Contains(t, m.View(), "Done.")
}

func TestModel_RoutePanelWithoutRoute(t *testing.T) {
	t.Parallel()

	m := sized(newTestModel(nil, nil))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(bubbletea.Model)

	assert.Contains(t, m.View(), "No route yet")
}

func TestModel_CtrlCQuitsWhenIdle(t *testing.T) {
	t.Parallel()

	m := sized(newTestModel(nil, nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_CtrlCCancelsRunningTurn(t *testing.T) {
	t.Parallel()

	cancelled := make(chan struct{})
	send := func(ctx context.Context, session *routai.Session, text string, onAppend func(string), onState func(routai.EventStateUpdate), onProcessing func(string)) error {
		<-ctx.Done()
		close(cancelled)
		return nil
	}

	m := sized(newTestModel(send, nil))
	m.Input.SetValue("Plan a ride")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(bubbletea.Model)
	require.True(t, m.Running())

	// Run the turn and its listener off the main test goroutine, the way
	// the Bubble Tea runtime would.
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		go c()
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(bubbletea.Model)

	assert.Nil(t, cmd)
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("turn was not cancelled")
	}
}

func TestModel_EndToEnd(t *testing.T) {
	m := newTestModel(scriptedSend([]string{"Three days ", "through Yorkshire."}, nil, nil), nil)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Type("Plan a weekend trip")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("through Yorkshire."))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
