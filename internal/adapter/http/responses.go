package http

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

func qty(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// Money travels as fixed two-decimal strings; clients never see floats.

type cartItemResp struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type cartResp struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Items     []cartItemResp `json:"items"`
	Total     string         `json:"total"`
	ItemCount int            `json:"item_count"`
}

func toCartResp(v *usecase.CartView) cartResp {
	items := make([]cartItemResp, 0, len(v.Cart.Items))
	for _, it := range v.Cart.Items {
		line := cartItemResp{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.UnitPrice = it.Product.Price.StringFixed(2)
			line.LineTotal = it.Product.Price.Mul(qty(it.Quantity)).StringFixed(2)
		}
		items = append(items, line)
	}
	return cartResp{
		ID:        v.Cart.ID,
		UserID:    v.Cart.UserID,
		Items:     items,
		Total:     v.Total.StringFixed(2),
		ItemCount: v.ItemCount,
	}
}

type orderItemResp struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	Quantity     int    `json:"quantity"`
	Subtotal     string `json:"subtotal"`
}

type orderResp struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	UserID            int64           `json:"user_id"`
	ShippingAddressID *int64          `json:"shipping_address_id"`
	BillingAddressID  *int64          `json:"billing_address_id"`
	Status            string          `json:"status"`
	Subtotal          string          `json:"subtotal"`
	Discount          string          `json:"discount"`
	Tax               string          `json:"tax"`
	Total             string          `json:"total"`
	Notes             string          `json:"notes,omitempty"`
	Items             []orderItemResp `json:"items"`
	OrderedAt         time.Time       `json:"ordered_at"`
	ConfirmedAt       *time.Time      `json:"confirmed_at,omitempty"`
	ShippedAt         *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
}

func toOrderResp(o *domain.Order) orderResp {
	items := make([]orderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResp{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductPrice: it.ProductPrice.StringFixed(2),
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal.StringFixed(2),
		})
	}
	return orderResp{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		ShippingAddressID: o.ShippingAddressID,
		BillingAddressID:  o.BillingAddressID,
		Status:            string(o.Status),
		Subtotal:          o.Subtotal.StringFixed(2),
		Discount:          o.Discount.StringFixed(2),
		Tax:               o.Tax.StringFixed(2),
		Total:             o.Total.StringFixed(2),
		Notes:             o.Notes,
		Items:             items,
		OrderedAt:         o.OrderedAt,
		ConfirmedAt:       o.ConfirmedAt,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
	}
}
