package usecase

// Job types understood by the dispatch worker. Events go out through the
// broker; ML jobs are off-path HTTP calls to the ML sidecar. Both share the
// same attempt/backoff budget.
const (
	JobEventPublish = "event.publish"
	JobMLSentiment  = "ml.sentiment"
	JobMLFeedback   = "ml.feedback"
)

// SentimentJob asks the ML service to score a new review's text.
type SentimentJob struct {
	ReviewID  int64  `json:"review_id"`
	UserID    int64  `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Text      string `json:"text"`
}

// FeedbackJob records how a user reacted to a recommendation.
type FeedbackJob struct {
	UserID       int64  `json:"user_id"`
	ProductID    int64  `json:"product_id"`
	FeedbackType string `json:"feedback_type"` // clicked | purchased | dismissed | viewed
}
