package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhle2104/shopcore-api/configs"
	"github.com/minhle2104/shopcore-api/internal/adapter/http/middleware"
	"github.com/minhle2104/shopcore-api/internal/logging"
)

type Handlers struct {
	Token    *TokenHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Events   *EventsHandler
}

func NewRouter(cfg configs.Config, h Handlers) *gin.Engine {
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(logging.New("http")))
	r.Use(middleware.MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authz := middleware.NewAuthz(cfg)

	v1 := r.Group("/v1")
	{
		v1.POST("/token", h.Token.IssueToken)

		cart := v1.Group("/cart")
		{
			cart.GET("", authz.Require("cart.read"), h.Cart.Get)
			cart.POST("/items", authz.Require("cart.write"), h.Cart.AddItem)
			cart.PUT("/items/:id", authz.Require("cart.write"), h.Cart.UpdateItem)
			cart.DELETE("/items/:id", authz.Require("cart.write"), h.Cart.RemoveItem)
			cart.DELETE("", authz.Require("cart.write"), h.Cart.Clear)
		}

		v1.POST("/checkout", authz.Require("orders.write"), h.Checkout.Checkout)

		orders := v1.Group("/orders")
		{
			orders.GET("", authz.Require("orders.read"), h.Orders.List)
			orders.GET("/:id", authz.Require("orders.read"), h.Orders.Get)
			orders.GET("/:id/status", authz.Require("orders.read"), h.Orders.Status)
			orders.POST("/:id/cancel", authz.Require("orders.write"), h.Orders.Cancel)
		}

		v1.POST("/admin/orders/:id/transition", authz.Require("orders.admin"), h.Orders.Transition)

		internal := v1.Group("/internal", authz.Require("events.write"))
		{
			internal.POST("/reviews/created", h.Events.ReviewCreated)
			internal.POST("/recommendations/feedback", h.Events.RecommendationFeedback)
		}
	}

	return r
}
