package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhle2104/shopcore-api/internal/adapter/http/middleware"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

type CheckoutHandler struct {
	uc *usecase.Checkout
}

func NewCheckoutHandler(uc *usecase.Checkout) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type checkoutReq struct {
	ShippingAddressID *int64 `json:"shipping_address_id"`
	BillingAddressID  *int64 `json:"billing_address_id"`
	Notes             string `json:"notes"`
}

// POST /v1/checkout
// The X-Idempotency-Key header makes retried requests return the first order
// instead of charging the cart twice.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}

	var req checkoutReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
			return
		}
	}

	order, err := h.uc.Execute(c.Request.Context(), usecase.CheckoutInput{
		UserID:            uid,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		Notes:             req.Notes,
		IdempotencyKey:    c.GetHeader("X-Idempotency-Key"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResp(order))
}
