package middleware

import (
	"context"

	"github.com/erp/cashledger/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling tags the request goroutine with Pyroscope labels (operation,
// route pattern and branch) so CPU profiles can be sliced per endpoint.
// Place it after the JWT middleware so the branch is known.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := telemetry.OperationLabels(c.Request.Method+" "+route, GetJWTBranchID(c))
		labels[telemetry.ProfilingLabelRoute] = route

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
