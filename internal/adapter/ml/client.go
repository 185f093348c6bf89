package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minhle2104/shopcore-api/internal/usecase"
)

// Client talks to the ML sidecar over HTTP with a bearer service token.
// Callers never block a request on it: the dispatch worker drives these
// calls with the standard retry budget.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type sentimentRequest struct {
	Text        string `json:"text"`
	UserID      int64  `json:"user_id"`
	ProductID   int64  `json:"product_id"`
	StoreResult bool   `json:"store_result"`
}

// AnalyzeSentiment submits review text for scoring. The sidecar stores the
// result itself; we only need the call to land.
func (c *Client) AnalyzeSentiment(ctx context.Context, job usecase.SentimentJob) error {
	return c.post(ctx, "/api/v1/sentiment", sentimentRequest{
		Text:        job.Text,
		UserID:      job.UserID,
		ProductID:   job.ProductID,
		StoreResult: true,
	})
}

type feedbackRequest struct {
	UserID       int64  `json:"user_id"`
	ProductID    int64  `json:"product_id"`
	FeedbackType string `json:"feedback_type"`
}

func (c *Client) RecordFeedback(ctx context.Context, job usecase.FeedbackJob) error {
	return c.post(ctx, "/api/v1/recommendations/feedback", feedbackRequest{
		UserID:       job.UserID,
		ProductID:    job.ProductID,
		FeedbackType: job.FeedbackType,
	})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ml service %s: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ml service %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}
