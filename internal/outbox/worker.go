package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var jobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "outbox_jobs_total",
		Help: "Outbox jobs by type and final attempt result",
	},
	[]string{"job_type", "result"}, // result: sent | retried | failed
)

// Worker polls the durable queue on a ticker and routes due jobs to their
// handlers. Retry budget and backoff are fixed per worker; exhausting the
// budget dead-letters the job and logs a terminal failure. The originating
// business transaction is never rolled back.
type Worker struct {
	store       Store
	handlers    map[string]Handler
	tick        time.Duration
	batch       int
	maxAttempts int
	backoff     time.Duration
	log         *slog.Logger
	clock       func() time.Time
}

type WorkerOption func(*Worker)

func WithTick(d time.Duration) WorkerOption       { return func(w *Worker) { w.tick = d } }
func WithBatchSize(n int) WorkerOption            { return func(w *Worker) { w.batch = n } }
func WithMaxAttempts(n int) WorkerOption          { return func(w *Worker) { w.maxAttempts = n } }
func WithBackoff(d time.Duration) WorkerOption    { return func(w *Worker) { w.backoff = d } }
func WithClock(f func() time.Time) WorkerOption   { return func(w *Worker) { w.clock = f } }

func NewWorker(store Store, log *slog.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{
		store:       store,
		handlers:    map[string]Handler{},
		tick:        time.Second,
		batch:       100,
		maxAttempts: 3,
		backoff:     5 * time.Second,
		log:         log,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register associates a job type with a handler. Call before Run.
func (w *Worker) Register(jobType string, h Handler) {
	w.handlers[jobType] = h
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.ProcessDue(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ProcessDue drains one batch. Exported so tests can drive the worker
// without the ticker.
func (w *Worker) ProcessDue(ctx context.Context) {
	jobs, err := w.store.FetchDue(ctx, w.batch)
	if err != nil {
		w.log.Error("fetch due jobs failed", slog.Any("err", err))
		return
	}
	for _, job := range jobs {
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	h, ok := w.handlers[job.JobType]
	if !ok {
		w.log.Error("no handler for job type",
			slog.String("job_type", job.JobType), slog.Int64("job_id", job.ID))
		w.fail(ctx, job, "no handler registered")
		return
	}

	err := h.Handle(ctx, job)
	if err == nil {
		if err := w.store.MarkSent(ctx, job.ID); err != nil {
			w.log.Error("mark sent failed", slog.Int64("job_id", job.ID), slog.Any("err", err))
			return
		}
		jobsTotal.WithLabelValues(job.JobType, "sent").Inc()
		return
	}

	attempts := job.Attempts + 1
	if errors.Is(err, ErrPermanent) || attempts >= w.maxAttempts {
		w.log.Error("job failed terminally",
			slog.Int64("job_id", job.ID),
			slog.String("job_type", job.JobType),
			slog.Int("attempts", attempts),
			slog.Any("err", err))
		w.fail(ctx, job, err.Error())
		return
	}

	next := w.clock().Add(w.backoff)
	if err := w.store.MarkRetry(ctx, job.ID, next, err.Error()); err != nil {
		w.log.Error("mark retry failed", slog.Int64("job_id", job.ID), slog.Any("err", err))
		return
	}
	jobsTotal.WithLabelValues(job.JobType, "retried").Inc()
	w.log.Warn("job attempt failed, will retry",
		slog.Int64("job_id", job.ID),
		slog.String("job_type", job.JobType),
		slog.Int("attempts", attempts),
		slog.Time("next_attempt_at", next),
		slog.Any("err", err))
}

func (w *Worker) fail(ctx context.Context, job Job, reason string) {
	if err := w.store.MarkFailed(ctx, job.ID, reason); err != nil {
		w.log.Error("mark failed failed", slog.Int64("job_id", job.ID), slog.Any("err", err))
		return
	}
	jobsTotal.WithLabelValues(job.JobType, "failed").Inc()
}
