package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/pos-terminal/logger"
	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

// HeartbeatInterval is how often an idle stream sends a ping event.
var HeartbeatInterval = 15 * time.Second

// Stream handles GET /api/stream. It sends the current snapshot, then a new
// one after every state change until the client goes away. A slow client only
// ever receives the latest snapshot.
func (pc *POSController) Stream(c *gin.Context) {
	updates := make(chan models.Snapshot, 1)
	unsubscribe := pc.svc.Subscribe(func(s models.Snapshot) {
		select {
		case updates <- s:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- s:
		default:
		}
	})
	defer unsubscribe()

	log := logger.ForRequest(pc.logger, c)
	log.Info("State stream opened", zap.String("client_ip", c.ClientIP()))
	defer log.Info("State stream closed")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("snapshot", pc.svc.Snapshot())
	c.Writer.Flush()

	heartbeat := time.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-updates:
			c.SSEvent("snapshot", s)
			c.Writer.Flush()
		case t := <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": t.UTC()})
			c.Writer.Flush()
		}
	}
}
