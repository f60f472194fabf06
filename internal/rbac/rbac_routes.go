package rbac

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service, auth gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth)
	{
		group.GET("/capabilities", handler.Capabilities)
		group.POST("/enforce", middleware.RBACAuthorize(service, domain.ResourceRBAC, domain.ActionRead), handler.Enforce)
		group.POST("/reload", middleware.RBACAuthorize(service, domain.ResourceRBAC, domain.ActionManage), handler.Reload)
	}
}
