// Package order exposes the order lifecycle over HTTP.
package order

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cantina/api/ctxutil"
	"cantina/api/middleware"
	"cantina/api/response"
	apporder "cantina/application/order"
)

// Controller handles order endpoints.
type Controller struct {
	service *apporder.Service
}

func NewController(service *apporder.Service) *Controller {
	return &Controller{service: service}
}

// RegisterRoutes mounts the order endpoints on the given group.
func (ctrl *Controller) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("/quote", ctrl.Quote)
		orders.POST("", ctrl.Create)
		orders.POST("/commit", ctrl.Commit)
		orders.GET("/my", ctrl.ListMy)
		orders.GET("/:id", ctrl.Get)
		orders.PUT("/:id/status", ctrl.UpdateStatus)
		orders.PUT("/:id/cancel", ctrl.Cancel)
	}
	r.GET("/cafes/:id/orders", ctrl.ListByCafe)
}

// Quote handles POST /orders/quote. Prices the requested lines without
// reserving anything.
func (ctrl *Controller) Quote(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req apporder.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	quote, err := ctrl.service.Quote(ctxutil.WithRequestID(c), actor, req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, quote, "quote calculated")
}

// Create handles POST /orders. Charges the payment and places the order in
// one call.
func (ctrl *Controller) Create(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req apporder.CreateAtomicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	placed, err := ctrl.service.CreateAtomic(ctxutil.WithRequestID(c), actor, req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleCreated(c, placed, "order placed")
}

// Commit handles POST /orders/commit. Places an order whose payment the
// client already confirmed out of band.
func (ctrl *Controller) Commit(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req apporder.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	placed, err := ctrl.service.Commit(ctxutil.WithRequestID(c), actor, req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleCreated(c, placed, "order placed")
}

// Get handles GET /orders/:id.
func (ctrl *Controller) Get(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	o, err := ctrl.service.GetOrder(ctxutil.WithRequestID(c), actor, c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, o, "order retrieved")
}

// ListMy handles GET /orders/my.
func (ctrl *Controller) ListMy(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	orders, err := ctrl.service.ListMyOrders(ctxutil.WithRequestID(c), actor)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, orders, "orders retrieved")
}

// ListByCafe handles GET /cafes/:id/orders. An optional ?status= query
// narrows the queue to one pipeline stage.
func (ctrl *Controller) ListByCafe(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	orders, err := ctrl.service.ListCafeOrders(ctxutil.WithRequestID(c), actor, c.Param("id"), c.Query("status"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, orders, "orders retrieved")
}

// UpdateStatus handles PUT /orders/:id/status.
func (ctrl *Controller) UpdateStatus(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req apporder.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := ctrl.service.UpdateStatus(ctxutil.WithRequestID(c), actor, c.Param("id"), req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, o, "order status updated")
}

// Cancel handles PUT /orders/:id/cancel.
func (ctrl *Controller) Cancel(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	o, err := ctrl.service.Cancel(ctxutil.WithRequestID(c), actor, c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, o, "order cancelled")
}
