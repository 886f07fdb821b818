package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/pos-terminal/errors"
)

// Timeout bounds the request context. A handler that returns without writing
// a response after the deadline passed gets a 504. Streaming routes should be
// registered outside of it.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			apperrors.Abort(c, apperrors.ErrRequestTimeout)
		}
	}
}
