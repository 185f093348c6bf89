package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCartDerivedValues(t *testing.T) {
	cart := &Cart{
		ID:     1,
		UserID: 7,
		Items: []CartItem{
			{ProductID: 1, Quantity: 2, Product: &Product{ID: 1, Price: dec("10.00")}},
			{ProductID: 2, Quantity: 1, Product: &Product{ID: 2, Price: dec("25.00")}},
		},
	}

	assert.True(t, cart.Total().Equal(dec("45.00")))
	assert.Equal(t, 3, cart.ItemCount())
	assert.False(t, cart.Empty())

	line := cart.Item(2)
	assert.NotNil(t, line)
	assert.Equal(t, 1, line.Quantity)
	assert.Nil(t, cart.Item(99))
}

func TestCartEmpty(t *testing.T) {
	cart := &Cart{ID: 1}
	assert.True(t, cart.Empty())
	assert.True(t, cart.Total().IsZero())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestProductAvailability(t *testing.T) {
	tracked := &Product{TrackStock: true, Stock: 3}
	assert.True(t, tracked.Available(3))
	assert.False(t, tracked.Available(4))

	untracked := &Product{TrackStock: false, Stock: 0}
	assert.True(t, untracked.Available(1000))
}

func TestProductLowStock(t *testing.T) {
	p := &Product{TrackStock: true, Stock: 5, LowStockThreshold: 5}
	assert.True(t, p.LowStock())

	p.Stock = 6
	assert.False(t, p.LowStock())

	untracked := &Product{TrackStock: false, Stock: 0, LowStockThreshold: 5}
	assert.False(t, untracked.LowStock())
}
