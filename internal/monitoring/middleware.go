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
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())

		metrics.RecordHTTPRequest(method, path, status, duration)
	}
}

// Timer measures operation duration
type Timer struct {
	start    time.Time
	metrics  *Metrics
	language string
}

// NewTimer creates a timer for one evaluation
func NewTimer(metrics *Metrics, language string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, language: language}
}

// Stop stops the timer and records the duration
func (t *Timer) Stop(status string) {
	t.metrics.RecordEvaluation(t.language, status, time.Since(t.start))
}
