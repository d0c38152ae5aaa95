package middleware

import (
	"context"

	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/gin-gonic/gin"
)

// RequestIDMiddleware attaches a request ID to the context and echoes it in
// the response headers. Incoming IDs are honoured so callers can correlate
// retries.
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
