package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wayfarer/pkg/utils"
)

// TraceIDMiddleware mints a per-request id, exposes it to handlers under
// utils.TraceIDKey and echoes it in the X-Trace-ID response header so a
// client-reported failure can be matched to server logs.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.New().String()
		c.Set(utils.TraceIDKey, traceID)
		c.Writer.Header().Set("X-Trace-ID", traceID)
		c.Next()
	}
}
