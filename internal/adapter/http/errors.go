package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/logging"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

// respondError maps domain failures onto stable HTTP shapes. Callers get a
// machine-readable code plus whatever detail the error itself carries; only
// unmapped errors fall through to a logged 500.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "validation_failed", "field": ve.Field, "message": ve.Error(),
		})
		return
	}

	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		c.JSON(http.StatusConflict, gin.H{
			"error":        "insufficient_stock",
			"message":      ise.Error(),
			"product_id":   ise.ProductID,
			"product_name": ise.ProductName,
			"requested":    ise.Requested,
			"available":    ise.Available,
		})
		return
	}

	var ite *domain.InvalidTransitionError
	if errors.As(err, &ite) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_transition",
			"message": ite.Error(),
			"status":  string(ite.From),
			"action":  string(ite.Action),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "empty_cart", "message": err.Error()})
	case errors.Is(err, domain.ErrAddressNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "address_not_found", "message": err.Error()})
	case errors.Is(err, usecase.ErrDuplicateCheckout):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate_checkout", "message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	default:
		logging.From(c).Error("unhandled error", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
