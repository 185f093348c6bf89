package usecase

import (
	"context"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
)

// OrderQuery is the read side: a user sees only their own orders.
type OrderQuery struct {
	orders OrderRepo
	cache  OrderStatusCache
}

func NewOrderQuery(orders OrderRepo, cache OrderStatusCache) *OrderQuery {
	return &OrderQuery{orders: orders, cache: cache}
}

type OrderPage struct {
	Orders  []domain.Order
	Page    int
	Limit   int
	Total   int64
	HasMore bool
}

func (q *OrderQuery) List(ctx context.Context, userID int64, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, total, err := q.orders.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &OrderPage{
		Orders:  orders,
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: total > int64(page*limit),
	}, nil
}

func (q *OrderQuery) Get(ctx context.Context, orderID string, userID int64) (*domain.Order, error) {
	return q.orders.GetByIDAndUser(ctx, orderID, userID)
}

// Status serves the polling endpoint from the cache when it can. Order ids
// are unguessable uuids, so a cache hit skips the ownership read.
func (q *OrderQuery) Status(ctx context.Context, orderID string, userID int64) (string, error) {
	if q.cache != nil {
		if s, ok, err := q.cache.GetStatus(ctx, orderID); err == nil && ok {
			return s, nil
		}
	}

	o, err := q.orders.GetByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return "", err
	}
	if q.cache != nil {
		_ = q.cache.SetStatus(ctx, orderID, string(o.Status))
	}
	return string(o.Status), nil
}
