package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
}

// Metrics records every request under its route template so ids do not
// explode label cardinality. Unmatched paths share one label.
func Metrics(recorder HTTPRecorder) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordHTTPRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}
