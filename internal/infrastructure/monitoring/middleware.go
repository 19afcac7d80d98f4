package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route templates keep session IDs out of the label set
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			int64(c.Writer.Size()),
		)
	}
}

// Timer measures a service tool call
type Timer struct {
	start   time.Time
	metrics *Metrics
	toolID  string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, toolID string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		toolID:  toolID,
	}
}

// Stop stops the timer and records the duration
func (t *Timer) Stop(failed bool) {
	t.metrics.RecordServiceCall(t.toolID, failed, time.Since(t.start))
}
