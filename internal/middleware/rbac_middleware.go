package middleware

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize is the single capability check placed in front of every
// guarded route.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Subject:  c.GetString("user_id"),
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			zap.L().Named("middleware.rbac").Error("enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			abortWith(c, apperror.ErrInternal)
			return
		}
		if !allowed {
			abortWith(c, apperror.ErrForbidden)
			return
		}

		c.Next()
	}
}

// HasRole reports whether the caller's role is one of roles.
func HasRole(c *gin.Context, roles ...string) bool {
	current := c.GetString("role")
	for _, r := range roles {
		if r == current {
			return true
		}
	}
	return false
}
