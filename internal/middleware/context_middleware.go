package middleware

import (
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a logger tagged with the request id and caller to
// the request context. It must run after RequestID and AuthMiddleware.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		fields := []zap.Field{zap.String("request_id", contextutil.GetRequestID(ctx))}
		if actor, ok := contextutil.GetActor(ctx); ok {
			fields = append(fields, zap.String("user_id", actor.UserID), zap.String("role", actor.Role))
		}

		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, logger.With(fields...)))
		c.Next()
	}
}
