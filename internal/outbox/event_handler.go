package outbox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minhle2104/shopcore-api/internal/logging"
)

// Publisher is the broker port: topic name plus JSON payload, nothing more.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// EventHandler drains event.publish jobs to the broker. The job's Topic
// field carries the event type; the actual topic comes from the map.
type EventHandler struct {
	topics *TopicMap
	pub    Publisher
}

func NewEventHandler(topics *TopicMap, pub Publisher) *EventHandler {
	return &EventHandler{topics: topics, pub: pub}
}

func (h *EventHandler) Handle(ctx context.Context, job Job) error {
	topic, ok := h.topics.Resolve(job.Topic)
	if !ok {
		logging.FromCtx(ctx).Error("unknown event type, dropping job",
			slog.String("event_type", job.Topic), slog.Int64("job_id", job.ID))
		return fmt.Errorf("unknown event type %q: %w", job.Topic, ErrPermanent)
	}
	return h.pub.Publish(ctx, topic, job.Payload)
}
