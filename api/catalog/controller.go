// Package catalog exposes cafe and menu endpoints over HTTP.
package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cantina/api/ctxutil"
	"cantina/api/middleware"
	"cantina/api/response"
	appcatalog "cantina/application/catalog"
)

// Controller handles catalog endpoints.
type Controller struct {
	service *appcatalog.Service
}

func NewController(service *appcatalog.Service) *Controller {
	return &Controller{service: service}
}

// RegisterRoutes mounts the catalog endpoints on the given group.
func (ctrl *Controller) RegisterRoutes(r *gin.RouterGroup) {
	cafes := r.Group("/cafes")
	{
		cafes.GET("", ctrl.ListCafes)
		cafes.POST("", ctrl.CreateCafe)
		cafes.GET("/:id", ctrl.GetCafe)
		cafes.GET("/:id/menu", ctrl.GetMenu)
		cafes.POST("/:id/menu", ctrl.CreateItem)
	}
	items := r.Group("/menu-items")
	{
		items.GET("/:id", ctrl.GetItem)
		items.PATCH("/:id/restock", ctrl.Restock)
		items.PATCH("/:id/availability", ctrl.ToggleAvailability)
	}
}

// ListCafes handles GET /cafes.
func (ctrl *Controller) ListCafes(c *gin.Context) {
	cafes, err := ctrl.service.ListCafes(ctxutil.WithRequestID(c))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, cafes, "cafes retrieved")
}

// CreateCafe handles POST /cafes.
func (ctrl *Controller) CreateCafe(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req appcatalog.CreateCafeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	cafe, err := ctrl.service.CreateCafe(ctxutil.WithRequestID(c), actor, req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleCreated(c, cafe, "cafe created")
}

// GetCafe handles GET /cafes/:id.
func (ctrl *Controller) GetCafe(c *gin.Context) {
	cafe, err := ctrl.service.GetCafe(ctxutil.WithRequestID(c), c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, cafe, "cafe retrieved")
}

// GetMenu handles GET /cafes/:id/menu.
func (ctrl *Controller) GetMenu(c *gin.Context) {
	menu, err := ctrl.service.GetMenu(ctxutil.WithRequestID(c), c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, menu, "menu retrieved")
}

// CreateItem handles POST /cafes/:id/menu.
func (ctrl *Controller) CreateItem(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req appcatalog.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := ctrl.service.CreateItem(ctxutil.WithRequestID(c), actor, c.Param("id"), req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleCreated(c, item, "menu item created")
}

// GetItem handles GET /menu-items/:id.
func (ctrl *Controller) GetItem(c *gin.Context) {
	item, err := ctrl.service.GetItem(ctxutil.WithRequestID(c), c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, item, "menu item retrieved")
}

// Restock handles PATCH /menu-items/:id/restock. An empty body restocks to
// the daily maximum.
func (ctrl *Controller) Restock(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req appcatalog.RestockRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	item, err := ctrl.service.RestockItem(ctxutil.WithRequestID(c), actor, c.Param("id"), req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, item, "menu item restocked")
}

// ToggleAvailability handles PATCH /menu-items/:id/availability.
func (ctrl *Controller) ToggleAvailability(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	item, err := ctrl.service.ToggleItemAvailability(ctxutil.WithRequestID(c), actor, c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}
	response.HandleSuccess(c, item, "menu item availability toggled")
}
