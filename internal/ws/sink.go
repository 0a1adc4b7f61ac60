package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type notificationEvent struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// HubSink adapts the hub to the notification-sink contract so workflow
// and sweep notifications reach connected browsers without polling.
type HubSink struct {
	hub *Hub
}

func NewHubSink(hub *Hub) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Notify(_ context.Context, userID uuid.UUID, text string) {
	if s == nil || s.hub == nil {
		return
	}

	evt := notificationEvent{
		Type:      "notification",
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	s.hub.Send(userID, b)
}
