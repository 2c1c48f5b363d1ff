package controller

import (
	"github.com/diogo/ragchat/internal/models"
)

// Status is the phase of one operation family
type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInFlight:
		return "in-flight"
	default:
		return "unknown"
	}
}

// Operation names the controller operation a failure came from
type Operation string

const (
	OpSend   Operation = "send"
	OpUpload Operation = "upload"
	OpIndex  Operation = "index"
)

// State is a point-in-time copy of everything the controller owns.
// Callers may keep and modify it freely.
type State struct {
	Messages []models.ConversationMessage
	Draft    string
	Sending  bool
	Indexing bool
	Uploads  int
	Notice   string
}

// LastMessage returns the newest message, if any
func (s State) LastMessage() (models.ConversationMessage, bool) {
	if len(s.Messages) == 0 {
		return models.ConversationMessage{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// CanSend reports whether a send of draft would be accepted
func (s State) CanSend(draft string) bool {
	return !s.Sending && trimmed(draft) != ""
}
