package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/meetspot-io/meetspot/internal/telemetry"
)

// OtelTracing instruments API requests with OpenTelemetry spans.
func OtelTracing(serviceName string) gin.HandlerFunc {
	return telemetry.GinMiddleware(serviceName)
}

// TraceID exposes the current trace id in response headers.
func TraceID() gin.HandlerFunc {
	return telemetry.TraceIDMiddleware()
}
