// Package payment exposes the charge collaborator over HTTP for the two-step
// checkout protocol: the client charges here first, then commits the order
// with the returned transaction id.
package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cantina/api/ctxutil"
	"cantina/api/response"
	"cantina/domain/payment"
	"cantina/domain/shared"
)

// Controller handles payment endpoints.
type Controller struct {
	gateway payment.Gateway
}

func NewController(gateway payment.Gateway) *Controller {
	return &Controller{gateway: gateway}
}

// RegisterRoutes mounts the payment endpoints on the given group.
func (ctrl *Controller) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.GET("/methods", ctrl.ListMethods)
		payments.POST("/charge", ctrl.Charge)
	}
}

// ChargeRequest asks the gateway to collect an amount ahead of an order
// commit. Amount is in minor units.
type ChargeRequest struct {
	Method   string `json:"method" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,min=1"`
	Currency string `json:"currency"`
	OrderID  string `json:"order_id"`
}

// ChargeResponse is the wire form of a gateway receipt.
type ChargeResponse struct {
	TransactionID string `json:"transaction_id"`
	Method        string `json:"method"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

// ListMethods handles GET /payments/methods.
func (ctrl *Controller) ListMethods(c *gin.Context) {
	response.HandleSuccess(c, gin.H{"methods": payment.AcceptedMethods()}, "payment methods retrieved")
}

// Charge handles POST /payments/charge.
func (ctrl *Controller) Charge(c *gin.Context) {
	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	receipt, err := ctrl.gateway.Charge(ctxutil.WithRequestID(c),
		req.Method, shared.NewMoney(req.Amount, req.Currency), req.OrderID)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, ChargeResponse{
		TransactionID: receipt.TransactionID,
		Method:        receipt.Method,
		Amount:        receipt.Amount.Amount(),
		Currency:      receipt.Amount.Currency(),
	}, "charge completed")
}
