// Package feedback exposes order rating endpoints over HTTP.
package feedback

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cantina/api/ctxutil"
	"cantina/api/middleware"
	"cantina/api/response"
	appfeedback "cantina/application/feedback"
)

// Controller handles feedback endpoints.
type Controller struct {
	service *appfeedback.Service
}

func NewController(service *appfeedback.Service) *Controller {
	return &Controller{service: service}
}

// RegisterRoutes mounts the feedback endpoints on the given group. Submission
// and lookup hang off the order resource; listings hang off the cafe and the
// caller.
func (ctrl *Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/orders/:id/feedback", ctrl.Submit)
	r.GET("/orders/:id/feedback", ctrl.GetForOrder)
	r.GET("/cafes/:id/feedbacks", ctrl.ListForCafe)
	r.GET("/feedback/my", ctrl.ListMy)
}

// Submit handles POST /orders/:id/feedback.
func (ctrl *Controller) Submit(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req appfeedback.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	f, err := ctrl.service.Submit(ctxutil.WithRequestID(c), actor, c.Param("id"), req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleCreated(c, f, "feedback submitted")
}

// GetForOrder handles GET /orders/:id/feedback.
func (ctrl *Controller) GetForOrder(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	f, err := ctrl.service.GetForOrder(ctxutil.WithRequestID(c), actor, c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, f, "feedback retrieved")
}

// ListForCafe handles GET /cafes/:id/feedbacks.
func (ctrl *Controller) ListForCafe(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	entries, err := ctrl.service.ListForCafe(ctxutil.WithRequestID(c), actor, c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, entries, "feedback retrieved")
}

// ListMy handles GET /feedback/my.
func (ctrl *Controller) ListMy(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	entries, err := ctrl.service.ListMine(ctxutil.WithRequestID(c), actor)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, entries, "feedback retrieved")
}
