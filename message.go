package routai

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single entry in the conversation. User messages are created
// whole; assistant messages start empty and grow by appending paced text.
// Messages are never deleted for the lifetime of the session.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// NewUserMessage creates a complete user message.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an empty assistant placeholder. Content is
// filled in incrementally via Append as the stream is paced out.
func NewAssistantMessage() *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		CreatedAt: time.Now(),
	}
}

// Append adds text to the message content. Appending is the only permitted
// mutation of assistant content.
func (m *Message) Append(text string) {
	m.Content += text
}
