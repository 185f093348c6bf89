package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minhle2104/shopcore-api/internal/outbox"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

// MySQLOutboxRepo is both ends of the durable queue: usecases enqueue rows,
// the dispatch worker fetches and settles them.
type MySQLOutboxRepo struct{ db dbtx }

func NewMySQLOutboxRepo(db *sql.DB) *MySQLOutboxRepo { return &MySQLOutboxRepo{db: db} }

func (r *MySQLOutboxRepo) EnqueueEvent(ctx context.Context, eventType string, payload any) error {
	return r.insert(ctx, usecase.JobEventPublish, eventType, payload)
}

func (r *MySQLOutboxRepo) EnqueueJob(ctx context.Context, jobType string, payload any) error {
	return r.insert(ctx, jobType, "", payload)
}

func (r *MySQLOutboxRepo) insert(ctx context.Context, jobType, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", jobType, err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO outbox_jobs (job_type, topic, payload, status, attempts, next_attempt_at, created_at, updated_at)
VALUES (?, ?, ?, 'PENDING', 0, NOW(), NOW(), NOW())`,
		jobType, topic, body)
	return err
}

func (r *MySQLOutboxRepo) FetchDue(ctx context.Context, limit int) ([]outbox.Job, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, job_type, topic, payload, attempts, next_attempt_at, status, last_error, created_at
FROM outbox_jobs
WHERE status = 'PENDING' AND next_attempt_at <= NOW()
ORDER BY id
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []outbox.Job
	for rows.Next() {
		var j outbox.Job
		var lastErr sql.NullString
		if err := rows.Scan(&j.ID, &j.JobType, &j.Topic, &j.Payload,
			&j.Attempts, &j.NextAttemptAt, &j.Status, &lastErr, &j.CreatedAt); err != nil {
			return nil, err
		}
		j.LastError = lastErr.String
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *MySQLOutboxRepo) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE outbox_jobs
SET status = 'SENT', attempts = attempts + 1, updated_at = NOW()
WHERE id = ?`, id)
	return err
}

func (r *MySQLOutboxRepo) MarkRetry(ctx context.Context, id int64, nextAttempt time.Time, lastErr string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE outbox_jobs
SET attempts = attempts + 1, next_attempt_at = ?, last_error = ?, updated_at = NOW()
WHERE id = ?`, nextAttempt, lastErr, id)
	return err
}

func (r *MySQLOutboxRepo) MarkFailed(ctx context.Context, id int64, lastErr string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE outbox_jobs
SET status = 'FAILED', attempts = attempts + 1, last_error = ?, updated_at = NOW()
WHERE id = ?`, lastErr, id)
	return err
}

var (
	_ usecase.Outbox = (*MySQLOutboxRepo)(nil)
	_ outbox.Store   = (*MySQLOutboxRepo)(nil)
)
