package usecase

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/logging"
)

// CartView is what every cart operation returns: the lines plus the derived
// total and item count, recomputed on each call and never persisted.
type CartView struct {
	Cart      *domain.Cart
	Total     decimal.Decimal
	ItemCount int
}

// CartService owns the per-user pre-purchase aggregate. Stock checks here
// are soft pre-checks against the current catalog row; nothing is reserved
// until checkout.
type CartService struct {
	carts    CartRepo
	products ProductRepo
	outbox   Outbox
	clock    nowFunc
}

func NewCartService(carts CartRepo, products ProductRepo, outbox Outbox) *CartService {
	return &CartService{carts: carts, products: products, outbox: outbox}
}

// Get returns the user's cart, creating it lazily on first access.
func (s *CartService) Get(ctx context.Context, userID int64) (*CartView, error) {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view(cart), nil
}

// AddItem appends qty units of a product, merging with an existing line for
// the same product. The combined quantity is checked against current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, qty int) (*CartView, error) {
	if qty < 1 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}

	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	combined := qty
	if line := cart.Item(productID); line != nil {
		combined += line.Quantity
	}
	if !product.Available(combined) {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   combined,
			Available:   product.Stock,
		}
	}

	if err := s.carts.SetItemQuantity(ctx, cart.ID, productID, combined); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, userID, "add", productID)
}

// UpdateItem sets a line to an absolute quantity, re-validating stock.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, qty int) (*CartView, error) {
	if qty < 1 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.carts.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Available(qty) {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}
	}

	if err := s.carts.UpdateItemQuantity(ctx, itemID, qty); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, userID, "update", line.ProductID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) (*CartView, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.carts.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, userID, "remove", line.ProductID)
}

func (s *CartService) Clear(ctx context.Context, userID int64) (*CartView, error) {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, userID, "clear", 0)
}

// afterMutation reloads the cart, emits cart.updated, and builds the view.
// Event enqueue is best-effort: a full queue never fails a cart write.
func (s *CartService) afterMutation(ctx context.Context, userID int64, action string, productID int64) (*CartView, error) {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLineEvent, 0, len(cart.Items))
	for _, it := range cart.Items {
		lines = append(lines, domain.CartLineEvent{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	ev := domain.CartUpdatedEvent{
		UserID:            userID,
		Action:            action,
		AffectedProductID: productID,
		Items:             lines,
		Timestamp:         s.clock.now(),
	}
	if err := s.outbox.EnqueueEvent(ctx, domain.EventCartUpdated, ev); err != nil {
		logging.FromCtx(ctx).Warn("cart.updated enqueue failed",
			slog.Int64("user_id", userID), slog.String("action", action), slog.Any("err", err))
	}

	return view(cart), nil
}

func view(cart *domain.Cart) *CartView {
	return &CartView{Cart: cart, Total: cart.Total(), ItemCount: cart.ItemCount()}
}
