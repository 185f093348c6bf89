package outbox

import (
	"context"
	"errors"
	"time"
)

// Job statuses as stored. PENDING jobs with next_attempt_at in the past are
// due; SENT and FAILED are terminal.
const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
)

// Job is one unit of asynchronous work: a broker event or an ML side-call,
// created in the same breath as the business action and executed out of band.
type Job struct {
	ID            int64
	JobType       string
	Topic         string // event type for event.publish jobs, empty otherwise
	Payload       []byte
	Attempts      int
	NextAttemptAt time.Time
	Status        string
	LastError     string
	CreatedAt     time.Time
}

// Store is the durable queue the worker drains.
type Store interface {
	FetchDue(ctx context.Context, limit int) ([]Job, error)
	MarkSent(ctx context.Context, id int64) error
	MarkRetry(ctx context.Context, id int64, nextAttempt time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id int64, lastErr string) error
}

// ErrPermanent marks a failure retrying cannot fix (unknown event type,
// malformed payload). The worker dead-letters these on the first hit.
var ErrPermanent = errors.New("permanent job failure")

// Handler processes one job. Return nil => sent; wrap ErrPermanent => dead-
// letter immediately; any other error => retry within the attempt budget.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}
