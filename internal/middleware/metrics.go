package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"quantumpartners/internal/metrics"
)

// Metrics returns a Gin middleware that records request counts and latency
// in the given Prometheus metrics. The route label uses the matched route
// template, not the raw path, to keep cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
