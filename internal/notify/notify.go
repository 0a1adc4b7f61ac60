// Package notify defines the fire-and-forget notification sink. Sink
// failures are logged and swallowed; they never abort the operation that
// produced the notification.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

type Message struct {
	UserID uuid.UUID `json:"user_id"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

type Sink interface {
	Notify(ctx context.Context, userID uuid.UUID, text string)
}

// Dispatcher fans one notification out to every configured sink.
type Dispatcher struct {
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Dispatcher{sinks: out}
}

func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, text string) {
	if d == nil || userID == uuid.Nil || text == "" {
		return
	}
	for _, s := range d.sinks {
		s.Notify(ctx, userID, text)
	}
}

// LogSink records notifications on a logger. Used standalone in tests
// and alongside the Redis sink in production.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, userID uuid.UUID, text string) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf("[Notify] user=%s message=%q", userID, text)
}
