package outbox

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONHandler adapts a typed function into a raw job handler. It unmarshals
// the payload into T and calls HandleFunc. A payload that does not decode is
// a permanent failure: replaying it cannot help.
type JSONHandler[T any] struct {
	HandleFunc func(ctx context.Context, msg T) error
}

func (h JSONHandler[T]) Handle(ctx context.Context, job Job) error {
	var v T
	if err := json.Unmarshal(job.Payload, &v); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", job.JobType, err, ErrPermanent)
	}
	return h.HandleFunc(ctx, v)
}
