package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/logging"
)

// OrderLifecycle drives post-creation status changes. Forward transitions
// never touch inventory; cancellation gives the reserved stock back inside
// the same transaction as the status flip.
type OrderLifecycle struct {
	uow    UnitOfWork
	orders OrderRepo
	cache  OrderStatusCache
}

func NewOrderLifecycle(uow UnitOfWork, orders OrderRepo, cache OrderStatusCache) *OrderLifecycle {
	return &OrderLifecycle{uow: uow, orders: orders, cache: cache}
}

// Apply runs a forward action (confirm, process, ship, deliver) on behalf of
// an operator, so the lookup is unscoped. The repo's conditional UPDATE both
// guards the source state and stamps the entry timestamp at most once.
// Cancellation goes through Cancel: it is the only action touching stock.
func (l *OrderLifecycle) Apply(ctx context.Context, orderID string, act domain.Action) (*domain.Order, error) {
	if act == domain.ActionCancel {
		order, err := l.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return l.Cancel(ctx, orderID, order.UserID)
	}

	order, err := l.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	to, err := domain.Next(order.Status, act)
	if err != nil {
		return nil, err
	}

	ok, err := l.orders.TransitionStatus(ctx, orderID, []domain.Status{order.Status}, to)
	if err != nil {
		return nil, fmt.Errorf("transition %s: %w", act, err)
	}
	if !ok {
		// Raced with another transition; re-read for an accurate error.
		current, rerr := l.orders.GetByID(ctx, orderID)
		if rerr != nil {
			return nil, rerr
		}
		return nil, &domain.InvalidTransitionError{From: current.Status, Action: act}
	}

	l.cacheStatus(ctx, orderID, to)
	return l.orders.GetByID(ctx, orderID)
}

// Cancel is only legal from pending or confirmed. The status flip and the
// stock release for every tracked order item share one transaction, so an
// order can never end up cancelled with its stock still committed.
func (l *OrderLifecycle) Cancel(ctx context.Context, orderID string, userID int64) (*domain.Order, error) {
	err := l.uow.Do(ctx, func(ctx context.Context, r Repos) error {
		order, err := r.Orders.GetByIDAndUser(ctx, orderID, userID)
		if err != nil {
			return err
		}

		ok, err := r.Orders.TransitionStatus(ctx, orderID, domain.CancellableStatuses(), domain.StatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		if !ok {
			return &domain.InvalidTransitionError{From: order.Status, Action: domain.ActionCancel}
		}

		// Give back exactly what the snapshots recorded. Release ignores
		// untracked products, so nothing is credited that was never taken.
		for _, item := range order.Items {
			if err := r.Products.Release(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("release product %d: %w", item.ProductID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	l.cacheStatus(ctx, orderID, domain.StatusCancelled)
	logging.FromCtx(ctx).Info("order cancelled",
		slog.String("order_id", orderID), slog.Int64("user_id", userID))
	return l.orders.GetByIDAndUser(ctx, orderID, userID)
}

func (l *OrderLifecycle) cacheStatus(ctx context.Context, orderID string, status domain.Status) {
	if l.cache == nil {
		return
	}
	if err := l.cache.SetStatus(ctx, orderID, string(status)); err != nil && !errors.Is(err, context.Canceled) {
		logging.FromCtx(ctx).Warn("status cache update failed",
			slog.String("order_id", orderID), slog.Any("err", err))
	}
}
