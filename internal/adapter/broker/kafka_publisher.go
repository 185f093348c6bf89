package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/minhle2104/shopcore-api/internal/outbox"
)

// KafkaPublisher writes one message per event onto the topic named by the
// dispatch worker. Synchronous sends: a failed produce must be visible to
// the retry loop, not swallowed by an async buffer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
}

func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 0 // retries belong to the dispatch worker
	cfg.Producer.Return.Successes = true
	cfg.Net.DialTimeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &KafkaPublisher{producer: producer}, nil
}

func (p *KafkaPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

var _ outbox.Publisher = (*KafkaPublisher)(nil)
