package broker

import (
	"context"
	"log/slog"

	"github.com/minhle2104/shopcore-api/internal/outbox"
)

// NoopPublisher backs the broker.driver=disabled flag: every publish is a
// successful delivery to nowhere. Consumers must tolerate silence anyway.
type NoopPublisher struct {
	log *slog.Logger
}

func NewNoopPublisher(log *slog.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) Publish(_ context.Context, topic string, _ []byte) error {
	p.log.Debug("broker disabled, event dropped", slog.String("topic", topic))
	return nil
}

var _ outbox.Publisher = (*NoopPublisher)(nil)
