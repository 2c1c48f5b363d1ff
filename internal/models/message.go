package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is one turn of the dialogue.
// Messages are never mutated after they are appended to a conversation.
type ConversationMessage struct {
	ID        string
	Role      Role
	Content   string
	Timestamp string    // display-formatted, computed once at creation
	CreatedAt time.Time
	Sources   []Source // retrieval sources, assistant answers only
}

// Source is a document chunk the server used to build an answer
type Source struct {
	Title string
	Chunk string
}

// NewMessage creates a message stamped with now, formatted by format
func NewMessage(role Role, content string, now time.Time, format func(time.Time) string) ConversationMessage {
	if format == nil {
		format = FormatTimestamp
	}
	return ConversationMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: format(now),
		CreatedAt: now,
	}
}

// FormatTimestamp renders a time as two-digit hour and minute
func FormatTimestamp(t time.Time) string {
	return t.Format("15:04")
}

// Clone returns a copy of m that shares no memory with it
func (m ConversationMessage) Clone() ConversationMessage {
	m.Sources = slices.Clone(m.Sources)
	return m
}

// IsUser reports whether the message was written by the user
func (m ConversationMessage) IsUser() bool {
	return m.Role == RoleUser
}
