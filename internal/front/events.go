package front

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

// EventType labels the messages pushed to connected screens.
type EventType string

const (
	// EventTypeStateUpdated carries a full store snapshot after any change,
	// local or merged from remote.
	EventTypeStateUpdated EventType = "StateUpdated"
	// EventTypeArenaUpdated carries the session view after an arena
	// interaction on this device.
	EventTypeArenaUpdated EventType = "ArenaUpdated"
)

// Event is the envelope every WebSocket message uses.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewStateEvent wraps a store snapshot for broadcast.
func NewStateEvent(state models.GameStore) (*Event, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeStateUpdated,
		Timestamp: time.Now(),
		Data:      data,
	}, nil
}

// NewArenaEvent wraps a session view for broadcast.
func NewArenaEvent(view any) (*Event, error) {
	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeArenaUpdated,
		Timestamp: time.Now(),
		Data:      data,
	}, nil
}
