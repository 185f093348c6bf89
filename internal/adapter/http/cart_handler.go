package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minhle2104/shopcore-api/internal/adapter/http/middleware"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

type CartHandler struct {
	svc *usecase.CartService
}

func NewCartHandler(svc *usecase.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// GET /v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	view, err := h.svc.Get(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResp(view))
}

type addItemReq struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	view, err := h.svc.AddItem(c.Request.Context(), uid, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResp(view))
}

type updateItemReq struct {
	Quantity int `json:"quantity" binding:"required"`
}

// PUT /v1/cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return
	}
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	view, err := h.svc.UpdateItem(c.Request.Context(), uid, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResp(view))
}

// DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return
	}
	view, err := h.svc.RemoveItem(c.Request.Context(), uid, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResp(view))
}

// DELETE /v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	view, err := h.svc.Clear(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResp(view))
}

// pathID parses a numeric :param, writing the 400 itself on failure.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid " + name})
		if err == nil {
			err = strconv.ErrRange
		}
		return 0, err
	}
	return id, nil
}

// noSubject rejects user-scoped calls made with a token that has no sub.
func noSubject(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error": "insufficient_scope", "error_description": "token carries no user identity",
	})
}
