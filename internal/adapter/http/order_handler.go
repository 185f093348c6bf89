package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minhle2104/shopcore-api/internal/adapter/http/middleware"
	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

type OrderHandler struct {
	query     *usecase.OrderQuery
	lifecycle *usecase.OrderLifecycle
}

func NewOrderHandler(query *usecase.OrderQuery, lifecycle *usecase.OrderLifecycle) *OrderHandler {
	return &OrderHandler{query: query, lifecycle: lifecycle}
}

// GET /v1/orders?page=&limit=
func (h *OrderHandler) List(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	res, err := h.query.List(c.Request.Context(), uid, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	orders := make([]orderResp, 0, len(res.Orders))
	for i := range res.Orders {
		orders = append(orders, toOrderResp(&res.Orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":   orders,
		"page":     res.Page,
		"limit":    res.Limit,
		"total":    res.Total,
		"has_more": res.HasMore,
	})
}

// GET /v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	order, err := h.query.Get(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResp(order))
}

// POST /v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	order, err := h.lifecycle.Cancel(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResp(order))
}

// GET /v1/orders/:id/status
func (h *OrderHandler) Status(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		noSubject(c)
		return
	}
	status, err := h.query.Status(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": status})
}

type transitionReq struct {
	Action string `json:"action" binding:"required"`
}

// POST /v1/admin/orders/:id/transition
// Operator endpoint: drives confirm/process/ship/deliver/cancel on any order.
func (h *OrderHandler) Transition(c *gin.Context) {
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	act := domain.Action(req.Action)
	switch act {
	case domain.ActionConfirm, domain.ActionProcess, domain.ActionShip, domain.ActionDeliver, domain.ActionCancel:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "unknown action " + req.Action})
		return
	}

	order, err := h.lifecycle.Apply(c.Request.Context(), c.Param("id"), act)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResp(order))
}
