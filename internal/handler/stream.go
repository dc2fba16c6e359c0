package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/internal/feed"
)

// Stream writes every snapshot of sub as a server-sent event named
// event until the client goes away or the subscription ends. It closes
// sub.
func Stream[T any](c *gin.Context, sub *feed.Subscription[T], event string) {
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snapshot, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(event, snapshot)
			return true
		}
	})
}

// Wants reports whether the request asked for a stream with ?stream=true.
func Wants(c *gin.Context) bool {
	return c.Query("stream") == "true"
}
