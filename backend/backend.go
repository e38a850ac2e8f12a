// Package backend implements [routai.Backend] for the RoutAI HTTP API.
//
// It opens SSE chat streams and emits semantic events through the pull-based
// [routai.Stream] interface, and fetches session, route and segment records
// over plain JSON endpoints. One malformed event line never terminates a
// stream; it is counted and skipped.
package backend

const (
	defaultBaseURL = "http://localhost:8000"

	sessionsPath = "/sessions"
	streamPath   = "/chats/stream"

	// Paths served by older backend deployments.
	legacySessionsPath = "/chat/sessions"
	legacyStreamPath   = "/chat/stream"
)

// apiChatRequest is the JSON body sent to the stream endpoint.
type apiChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// apiSessionResponse is returned by the session creation endpoint.
type apiSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SSE event payloads.

// sseEvent is the JSON document carried by one "data:" line.
type sseEvent struct {
	Event string       `json:"event"`
	Data  sseEventData `json:"data"`
}

// sseEventData holds the union of fields across event kinds. Which fields
// are populated depends on Event.
type sseEventData struct {
	// message
	Content string `json:"content"`
	Type    string `json:"type"`

	// processing
	Status string `json:"status"`

	// state_update
	HasRequirements bool    `json:"has_requirements"`
	HasRoute        bool    `json:"has_route"`
	HasWaypoints    bool    `json:"has_waypoints"`
	DistanceKM      float64 `json:"distance_km"`
	NumDays         int     `json:"num_days"`

	// error
	Error string `json:"error"`

	SessionID string `json:"session_id"`
}
