package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/logging"
)

// ErrDuplicateCheckout means another request with the same idempotency key
// is in flight and has not finished yet.
var ErrDuplicateCheckout = errors.New("duplicate checkout in progress")

type CheckoutInput struct {
	UserID            int64
	ShippingAddressID *int64
	BillingAddressID  *int64
	Notes             string
	IdempotencyKey    string
}

// Checkout converts a cart into an immutable order in one transaction:
// hard stock validation, conditional stock reservation, price/name
// snapshots, cart clearing, and total computation all commit or roll back
// together. The order.completed event is enqueued after commit.
type Checkout struct {
	uow       UnitOfWork
	orders    OrderRepo
	addresses AddressRepo
	outbox    Outbox
	idem      IdempotencyStore
	taxRate   decimal.Decimal
	prefix    string
	clock     nowFunc
}

func NewCheckout(uow UnitOfWork, orders OrderRepo, addresses AddressRepo, outbox Outbox, idem IdempotencyStore, taxRate decimal.Decimal, orderPrefix string) *Checkout {
	if orderPrefix == "" {
		orderPrefix = "ORD"
	}
	return &Checkout{
		uow:       uow,
		orders:    orders,
		addresses: addresses,
		outbox:    outbox,
		idem:      idem,
		taxRate:   taxRate,
		prefix:    orderPrefix,
	}
}

func (c *Checkout) Execute(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	log := logging.FromCtx(ctx)
	scope := fmt.Sprintf("checkout:%d", in.UserID)

	// Replay: a finished checkout with the same key returns the same order.
	if in.IdempotencyKey != "" {
		if id, ok, _ := c.idem.Recall(ctx, scope, in.IdempotencyKey); ok {
			return c.orders.GetByIDAndUser(ctx, id, in.UserID)
		}
		ok, err := c.idem.TryLock(ctx, scope, in.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency lock: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateCheckout
		}
	}

	shippingID, err := c.resolveAddress(ctx, in.UserID, in.ShippingAddressID, "shipping")
	if err != nil {
		return nil, err
	}
	billingID, err := c.resolveAddress(ctx, in.UserID, in.BillingAddressID, "billing")
	if err != nil {
		return nil, err
	}

	now := c.clock.now()
	order := &domain.Order{
		ID:                uuid.NewString(),
		OrderNumber:       c.newOrderNumber(now),
		UserID:            in.UserID,
		ShippingAddressID: shippingID,
		BillingAddressID:  billingID,
		Status:            domain.StatusPending,
		Notes:             in.Notes,
		OrderedAt:         now,
	}

	err = c.uow.Do(ctx, func(ctx context.Context, r Repos) error {
		cart, err := r.Carts.GetByUser(ctx, in.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrEmptyCart
			}
			return err
		}
		if cart.Empty() {
			return domain.ErrEmptyCart
		}

		// Hard check against the rows as this transaction sees them. The
		// conditional decrement below is the guard that holds under
		// concurrent checkouts; this pass exists to fail early with the
		// full available quantity in the error.
		subtotal := decimal.Zero
		for _, line := range cart.Items {
			p := line.Product
			if p == nil {
				// The product row vanished between add-to-cart and now.
				return fmt.Errorf("cart line %d: product %d: %w", line.ID, line.ProductID, domain.ErrNotFound)
			}
			if !p.Available(line.Quantity) {
				return &domain.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Requested:   line.Quantity,
					Available:   p.Stock,
				}
			}
			subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order.Subtotal = subtotal
		order.Discount = decimal.Zero
		order.Tax = subtotal.Mul(c.taxRate).Round(2)
		order.Total = order.Subtotal.Sub(order.Discount).Add(order.Tax)

		order.Items = order.Items[:0]
		for _, line := range cart.Items {
			p := line.Product
			order.Items = append(order.Items, domain.OrderItem{
				OrderID:      order.ID,
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductPrice: p.Price,
				Quantity:     line.Quantity,
				Subtotal:     p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
		}

		// Take the stock. A lost race shows up here as zero rows affected
		// and aborts the whole unit.
		for _, line := range cart.Items {
			ok, err := r.Products.Reserve(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("reserve product %d: %w", line.ProductID, err)
			}
			if !ok {
				current, err := r.Products.GetByID(ctx, line.ProductID)
				available := 0
				name := line.Product.Name
				if err == nil {
					available = current.Stock
					name = current.Name
				}
				return &domain.InsufficientStockError{
					ProductID:   line.ProductID,
					ProductName: name,
					Requested:   line.Quantity,
					Available:   available,
				}
			}
		}

		if err := r.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return r.Carts.ClearItems(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	// The order is committed; event delivery is best-effort from here on.
	lines := make([]domain.OrderLineEvent, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, domain.OrderLineEvent{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.ProductPrice,
		})
	}
	ev := domain.OrderCompletedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Items:       lines,
		Total:       order.Total,
		Timestamp:   now,
	}
	if err := c.outbox.EnqueueEvent(ctx, domain.EventOrderCompleted, ev); err != nil {
		log.Error("order.completed enqueue failed",
			slog.String("order_id", order.ID), slog.Any("err", err))
	}

	if in.IdempotencyKey != "" {
		_ = c.idem.Remember(ctx, scope, in.IdempotencyKey, order.ID)
	}

	log.Info("checkout committed",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.Int64("user_id", order.UserID),
		slog.String("total", order.Total.String()))
	return order, nil
}

func (c *Checkout) resolveAddress(ctx context.Context, userID int64, given *int64, addrType string) (*int64, error) {
	if given != nil {
		ok, err := c.addresses.Exists(ctx, *given, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAddressNotFound
		}
		return given, nil
	}
	// Fall back to the user's default; a missing default is fine, the
	// order is created without an address reference.
	return c.addresses.DefaultID(ctx, userID, addrType)
}

// newOrderNumber builds the human-readable token: fixed prefix, a
// second-resolution timestamp, and a short random suffix. Collisions are
// treated as practically impossible; the unique index is the backstop.
func (c *Checkout) newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", c.prefix, now.Format("20060102-150405"), suffix)
}
