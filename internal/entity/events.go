package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types carried by outbox jobs. Consumers (the ML sidecar among them)
// subscribe by topic; the default topic equals the event type.
const (
	EventOrderCompleted = "order.completed"
	EventCartUpdated    = "cart.updated"
	EventReviewCreated  = "review.created"
)

// OrderCompletedEvent is the stable contract other services consume.
type OrderCompletedEvent struct {
	OrderID     string           `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	UserID      int64            `json:"user_id"`
	Items       []OrderLineEvent `json:"items"`
	Total       decimal.Decimal  `json:"total"`
	Timestamp   time.Time        `json:"timestamp"`
}

type OrderLineEvent struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CartUpdatedEvent carries no prices: consumers refetch the catalog.
type CartUpdatedEvent struct {
	UserID            int64           `json:"user_id"`
	Action            string          `json:"action"`
	AffectedProductID int64           `json:"affected_product_id"`
	Items             []CartLineEvent `json:"items"`
	Timestamp         time.Time       `json:"timestamp"`
}

type CartLineEvent struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type ReviewCreatedEvent struct {
	ReviewID  int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}
