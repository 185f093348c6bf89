package usecase

import (
	"context"
	"time"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
)

// ProductRepo is the slice of the catalog this core touches: read rows,
// and mutate stock only through the guarded reserve/release primitives.
type ProductRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Reserve takes qty units with a conditional decrement. It returns
	// false when the product is tracked and has fewer than qty units;
	// nothing is changed in that case. Untracked products always succeed.
	Reserve(ctx context.Context, productID int64, qty int) (bool, error)

	// Release gives qty units back. No-op for untracked products.
	Release(ctx context.Context, productID int64, qty int) error
}

type CartRepo interface {
	// GetOrCreateByUser returns the user's cart, creating an empty one on
	// first access. Items come hydrated with their current product rows.
	GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error)

	// GetByUser returns the hydrated cart or domain.ErrNotFound.
	GetByUser(ctx context.Context, userID int64) (*domain.Cart, error)

	// GetItem returns a line scoped to the cart, or domain.ErrNotFound.
	GetItem(ctx context.Context, cartID, itemID int64) (*domain.CartItem, error)

	// SetItemQuantity upserts the (cart, product) line to an absolute quantity.
	SetItemQuantity(ctx context.Context, cartID, productID int64, qty int) error

	UpdateItemQuantity(ctx context.Context, itemID int64, qty int) error
	DeleteItem(ctx context.Context, itemID int64) error
	ClearItems(ctx context.Context, cartID int64) error
}

type OrderRepo interface {
	// Create persists the order and its item snapshots.
	Create(ctx context.Context, o *domain.Order) error

	// GetByID is the unscoped lookup used by operator flows.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIDAndUser(ctx context.Context, id string, userID int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, page, limit int) ([]domain.Order, int64, error)

	// TransitionStatus flips status only when the current status is one of
	// from, stamping the entry timestamp for to exactly once. Returns false
	// when no row matched (missing order or illegal source state).
	TransitionStatus(ctx context.Context, id string, from []domain.Status, to domain.Status) (bool, error)
}

// AddressRepo is a read-only view into the external address book.
type AddressRepo interface {
	// Exists reports whether the address belongs to the user.
	Exists(ctx context.Context, id, userID int64) (bool, error)

	// DefaultID returns the user's default address id for addrType
	// ("shipping" or "billing"), or nil when none is set.
	DefaultID(ctx context.Context, userID int64, addrType string) (*int64, error)
}

// Outbox enqueues asynchronous work: broker events and ML side-calls.
// Both are durable rows drained by the dispatch worker.
type Outbox interface {
	EnqueueEvent(ctx context.Context, eventType string, payload any) error
	EnqueueJob(ctx context.Context, jobType string, payload any) error
}

// Repos is the transaction-bound repository set handed to a unit of work.
type Repos struct {
	Products ProductRepo
	Carts    CartRepo
	Orders   OrderRepo
}

// UnitOfWork runs fn inside one database transaction: everything fn does
// through the bound repos commits or rolls back as a whole.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// OrderStatusCache mirrors order status into a fast store, best-effort.
type OrderStatusCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
	GetStatus(ctx context.Context, orderID string) (string, bool, error)
}

// nowFunc lets tests pin time; zero value falls back to time.Now.
type nowFunc func() time.Time

func (f nowFunc) now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f()
}
