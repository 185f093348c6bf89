package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
)

func TestReviewCreatedFansOut(t *testing.T) {
	f := newFixture()
	uc := NewReviewEvents(f.outbox)

	err := uc.ReviewCreated(context.Background(), ReviewCreatedInput{
		ReviewID: 5, UserID: 7, ProductID: 1, Rating: 4, Comment: "solid keyboard",
	})
	require.NoError(t, err)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.EventReviewCreated, f.outbox.events[0].Type)
	ev := f.outbox.events[0].Payload.(domain.ReviewCreatedEvent)
	assert.Equal(t, int64(5), ev.ReviewID)
	assert.Equal(t, 4, ev.Rating)

	require.Len(t, f.outbox.jobs, 1)
	assert.Equal(t, JobMLSentiment, f.outbox.jobs[0].Type)
	job := f.outbox.jobs[0].Payload.(SentimentJob)
	assert.Equal(t, "solid keyboard", job.Text)
	assert.Equal(t, int64(7), job.UserID)
}

func TestReviewCreatedWithoutCommentSkipsSentiment(t *testing.T) {
	f := newFixture()
	uc := NewReviewEvents(f.outbox)

	err := uc.ReviewCreated(context.Background(), ReviewCreatedInput{
		ReviewID: 5, UserID: 7, ProductID: 1, Rating: 5,
	})
	require.NoError(t, err)
	assert.Len(t, f.outbox.events, 1)
	assert.Empty(t, f.outbox.jobs, "no text, nothing to score")
}

func TestReviewCreatedValidatesRating(t *testing.T) {
	f := newFixture()
	uc := NewReviewEvents(f.outbox)

	for _, rating := range []int{0, 6, -1} {
		err := uc.ReviewCreated(context.Background(), ReviewCreatedInput{
			ReviewID: 5, UserID: 7, ProductID: 1, Rating: rating,
		})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, "rating %d", rating)
		assert.Equal(t, "rating", ve.Field)
	}
	assert.Empty(t, f.outbox.events)
}

func TestRecommendationFeedback(t *testing.T) {
	f := newFixture()
	uc := NewReviewEvents(f.outbox)

	for _, typ := range []string{"clicked", "purchased", "dismissed", "not_interested", "viewed"} {
		require.NoError(t, uc.RecommendationFeedback(context.Background(), 7, 1, typ))
	}
	assert.Len(t, f.outbox.jobs, 5)
	job := f.outbox.jobs[0].Payload.(FeedbackJob)
	assert.Equal(t, "clicked", job.FeedbackType)

	err := uc.RecommendationFeedback(context.Background(), 7, 1, "loved")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "feedback_type", ve.Field)
}
