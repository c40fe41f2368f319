// Package notify streams order notifications to connected clients over SSE.
package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cantina/api/middleware"
	"cantina/api/response"
	"cantina/infrastructure/notify"
	"cantina/pkg/logger"
)

// heartbeatInterval keeps idle connections from being reaped by proxies.
const heartbeatInterval = 25 * time.Second

// Controller handles the notification stream endpoint.
type Controller struct {
	hub *notify.Hub
}

func NewController(hub *notify.Hub) *Controller {
	return &Controller{hub: hub}
}

// RegisterRoutes mounts the stream endpoint on the given group.
func (ctrl *Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/notifications/stream", ctrl.Stream)
}

// Stream handles GET /notifications/stream. Holds the connection open and
// forwards hub notifications as SSE events until the client disconnects.
func (ctrl *Controller) Stream(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	subscriberID := actor.UserID + ":" + uuid.NewString()
	ch := ctrl.hub.Subscribe(subscriberID, actor.Role)
	defer ctrl.hub.Unsubscribe(subscriberID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	requestID := response.GetRequestID(c)
	logger.Info("notification stream opened",
		zap.String("request_id", requestID),
		zap.String("user_id", actor.UserID))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case n, ok := <-ch:
			if !ok {
				return false
			}
			data, err := json.Marshal(n)
			if err != nil {
				logger.Error("failed to encode notification", zap.Error(err))
				return true
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.EventType, data)
			return true
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			return true
		}
	})

	logger.Info("notification stream closed",
		zap.String("request_id", requestID),
		zap.String("user_id", actor.UserID))
}
