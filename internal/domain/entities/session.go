package entities

import (
	"time"

	"github.com/google/uuid"
)

// Mode is the activity of a session.
type Mode string

const (
	ModeLearning Mode = "learning"
	ModeTesting  Mode = "testing"
)

// Session is the transient state of one learning or testing activity.
// Mode-specific state lives in the navigator or the quiz engine that owns it.
type Session struct {
	ID        uuid.UUID // correlates log lines of one activity
	Mode      Mode      // learning or testing
	TopicID   string    // active topic
	StartedAt time.Time // moment the mode was entered
}

// NewSession creates a session for the topic in the given mode.
func NewSession(topicID string, mode Mode) *Session {
	return &Session{
		ID:        uuid.New(),
		Mode:      mode,
		TopicID:   topicID,
		StartedAt: time.Now(),
	}
}
