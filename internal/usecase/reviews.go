package usecase

import (
	"context"
	"fmt"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
)

// ReviewEvents is the dispatch seam for review activity. Review CRUD lives
// elsewhere; this core only guarantees that a created review fans out to the
// broker and to the ML sidecar with the standard retry budget.
type ReviewEvents struct {
	outbox Outbox
	clock  nowFunc
}

func NewReviewEvents(outbox Outbox) *ReviewEvents {
	return &ReviewEvents{outbox: outbox}
}

type ReviewCreatedInput struct {
	ReviewID  int64
	UserID    int64
	ProductID int64
	Rating    int
	Comment   string
}

// ReviewCreated enqueues the review.created broker event and a sentiment
// scoring job. Either enqueue failing is surfaced to the caller; the review
// row itself was written by the owning service and is not ours to undo.
func (r *ReviewEvents) ReviewCreated(ctx context.Context, in ReviewCreatedInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return &domain.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}

	ev := domain.ReviewCreatedEvent{
		ReviewID:  in.ReviewID,
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Timestamp: r.clock.now(),
	}
	if err := r.outbox.EnqueueEvent(ctx, domain.EventReviewCreated, ev); err != nil {
		return fmt.Errorf("enqueue review.created: %w", err)
	}

	if in.Comment != "" {
		job := SentimentJob{
			ReviewID:  in.ReviewID,
			UserID:    in.UserID,
			ProductID: in.ProductID,
			Text:      in.Comment,
		}
		if err := r.outbox.EnqueueJob(ctx, JobMLSentiment, job); err != nil {
			return fmt.Errorf("enqueue sentiment job: %w", err)
		}
	}
	return nil
}

// RecommendationFeedback queues an off-path signal for the recommendation
// engine. Fire, don't block, tolerate partial failure.
func (r *ReviewEvents) RecommendationFeedback(ctx context.Context, userID, productID int64, feedbackType string) error {
	switch feedbackType {
	case "clicked", "purchased", "dismissed", "not_interested", "viewed":
	default:
		return &domain.ValidationError{Field: "feedback_type", Reason: "unknown value"}
	}
	return r.outbox.EnqueueJob(ctx, JobMLFeedback, FeedbackJob{
		UserID:       userID,
		ProductID:    productID,
		FeedbackType: feedbackType,
	})
}
