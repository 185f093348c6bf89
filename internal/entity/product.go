package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is partially owned: the catalog service manages everything else,
// this core only reads pricing/stock and mutates stock through the
// reserve/release primitives.
type Product struct {
	ID                int64
	Name              string
	Price             decimal.Decimal
	Stock             int
	TrackStock        bool
	LowStockThreshold int
	UpdatedAt         time.Time
}

// Available reports whether qty units can be sold right now.
// Untracked products have unlimited availability.
func (p *Product) Available(qty int) bool {
	if !p.TrackStock {
		return true
	}
	return p.Stock >= qty
}

// LowStock reports whether the product fell to or under its alert threshold.
func (p *Product) LowStock() bool {
	return p.TrackStock && p.Stock <= p.LowStockThreshold
}
