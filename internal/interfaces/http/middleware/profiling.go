package middleware

import (
	"context"

	"github.com/edusuite/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling labels CPU and allocation samples with the route pattern, method and caller
// role so profiles can be split per endpoint. Place it after SessionAuth.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		labels := map[string]string{
			telemetry.ProfilingLabelRoute:  c.FullPath(),
			telemetry.ProfilingLabelMethod: c.Request.Method,
		}
		if caller := GetIdentity(c); caller != nil {
			labels[telemetry.ProfilingLabelRole] = caller.Role.String()
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
