package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single mutable pre-purchase aggregate. One per user,
// created lazily, emptied at checkout but never deleted.
type Cart struct {
	ID        int64
	UserID    int64
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int
	AddedAt   time.Time

	// Product is the current catalog row the item points at, loaded
	// alongside the line for price/stock checks. Nil when not hydrated.
	Product *Product
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

// Item returns the line for a product, if present.
func (c *Cart) Item(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Total sums price x quantity over hydrated lines. Derived, never persisted.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		if it.Product == nil {
			continue
		}
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ItemCount sums quantities over all lines. Derived, never persisted.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
