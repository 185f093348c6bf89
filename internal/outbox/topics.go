package outbox

import (
	domain "github.com/minhle2104/shopcore-api/internal/entity"
)

// TopicMap resolves an event type to the broker topic it publishes on.
// The defaults name the topic after the event type; configuration may
// override individual entries.
type TopicMap struct {
	m map[string]string
}

func NewTopicMap(overrides map[string]string) *TopicMap {
	m := map[string]string{
		domain.EventOrderCompleted: domain.EventOrderCompleted,
		domain.EventCartUpdated:    domain.EventCartUpdated,
		domain.EventReviewCreated:  domain.EventReviewCreated,
	}
	for k, v := range overrides {
		if _, known := m[k]; known && v != "" {
			m[k] = v
		}
	}
	return &TopicMap{m: m}
}

// Resolve returns the topic for an event type; ok is false for unknown types.
func (t *TopicMap) Resolve(eventType string) (string, bool) {
	topic, ok := t.m[eventType]
	return topic, ok
}
