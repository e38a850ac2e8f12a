package routai

// Event is a sealed interface representing a streaming event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta carries a fragment of assistant text extracted from one
// protocol event.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// EventProcessing signals that the backend is executing a tool between
// assistant messages.
type EventProcessing struct {
	Status string
}

func (EventProcessing) event() {}

// EventStateUpdate reflects planning progress reported by the backend.
type EventStateUpdate struct {
	HasRequirements bool
	HasRoute        bool
	HasWaypoints    bool
	DistanceKM      float64
	NumDays         int
}

func (EventStateUpdate) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
	_ Event = EventProcessing{}
	_ Event = EventStateUpdate{}
)
