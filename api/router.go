// Package api assembles the gin engine: middleware chain, public surface,
// and the identity-protected v1 group.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cantina/api/catalog"
	"cantina/api/feedback"
	"cantina/api/health"
	"cantina/api/middleware"
	"cantina/api/notify"
	"cantina/api/order"
	"cantina/api/payment"
	"cantina/api/response"
	"cantina/config"
)

// Router holds everything needed to build the HTTP engine.
type Router struct {
	cfg      *config.Config
	health   *health.Controller
	order    *order.Controller
	catalog  *catalog.Controller
	feedback *feedback.Controller
	payment  *payment.Controller
	notify   *notify.Controller
}

func NewRouter(
	cfg *config.Config,
	healthCtrl *health.Controller,
	orderCtrl *order.Controller,
	catalogCtrl *catalog.Controller,
	feedbackCtrl *feedback.Controller,
	paymentCtrl *payment.Controller,
	notifyCtrl *notify.Controller,
) *Router {
	return &Router{
		cfg:      cfg,
		health:   healthCtrl,
		order:    orderCtrl,
		catalog:  catalogCtrl,
		feedback: feedbackCtrl,
		payment:  paymentCtrl,
		notify:   notifyCtrl,
	}
}

// Build wires the middleware chain and every route group.
func (r *Router) Build() *gin.Engine {
	if r.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(r.cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(r.cfg.Server.RateLimit))

	engine.GET("/", func(c *gin.Context) {
		response.HandleSuccess(c, gin.H{
			"name":    r.cfg.App.Name,
			"version": r.cfg.App.Version,
		}, "service info")
	})

	r.health.RegisterRoutes(engine)

	v1 := engine.Group("/api/v1")
	// Health stays reachable without identity headers; everything
	// registered after the middleware requires them.
	r.health.RegisterRoutes(v1)
	v1.Use(middleware.IdentityMiddleware())
	{
		r.order.RegisterRoutes(v1)
		r.catalog.RegisterRoutes(v1)
		r.feedback.RegisterRoutes(v1)
		r.payment.RegisterRoutes(v1)
		r.notify.RegisterRoutes(v1)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, &response.Response{
			Success:   false,
			Error:     "NOT_FOUND",
			Message:   "route not found",
			Code:      http.StatusNotFound,
			RequestID: response.GetRequestID(c),
		})
	})

	return engine
}
