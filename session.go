package routai

import "time"

// Session represents a conversation with the route-planning backend. ID is
// the backend session identifier and is round-tripped into every stream
// request. Messages is append-only.
type Session struct {
	ID        string
	Messages  []*Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a Session bound to a backend session identifier.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

// AddUser appends a user message and returns it.
func (s *Session) AddUser(text string) *Message {
	msg := NewUserMessage(text)
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
	return msg
}

// StartAssistant appends an empty assistant placeholder and returns it.
// The caller fills it in by appending paced text.
func (s *Session) StartAssistant() *Message {
	msg := NewAssistantMessage()
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
	return msg
}

// Last returns the most recent message, or nil when the session is empty.
func (s *Session) Last() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}
