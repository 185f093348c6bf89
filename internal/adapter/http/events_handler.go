package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhle2104/shopcore-api/internal/usecase"
)

// EventsHandler is the internal ingress other services call to push activity
// into the dispatch pipeline. Guarded by the events.write permission.
type EventsHandler struct {
	reviews *usecase.ReviewEvents
}

func NewEventsHandler(reviews *usecase.ReviewEvents) *EventsHandler {
	return &EventsHandler{reviews: reviews}
}

type reviewCreatedReq struct {
	ReviewID  int64  `json:"review_id" binding:"required"`
	UserID    int64  `json:"user_id" binding:"required"`
	ProductID int64  `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// POST /v1/internal/reviews/created
func (h *EventsHandler) ReviewCreated(c *gin.Context) {
	var req reviewCreatedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	err := h.reviews.ReviewCreated(c.Request.Context(), usecase.ReviewCreatedInput{
		ReviewID:  req.ReviewID,
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type feedbackReq struct {
	UserID       int64  `json:"user_id" binding:"required"`
	ProductID    int64  `json:"product_id" binding:"required"`
	FeedbackType string `json:"feedback_type" binding:"required"`
}

// POST /v1/internal/recommendations/feedback
func (h *EventsHandler) RecommendationFeedback(c *gin.Context) {
	var req feedbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	if err := h.reviews.RecommendationFeedback(c.Request.Context(), req.UserID, req.ProductID, req.FeedbackType); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
