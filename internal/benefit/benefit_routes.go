package benefit

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc) {
	benefits := r.Group("/benefits")
	benefits.Use(auth)
	{
		read := middleware.RBACAuthorize(rbacService, domain.ResourceBenefit, domain.ActionRead)
		manage := middleware.RBACAuthorize(rbacService, domain.ResourceBenefit, domain.ActionManage)

		benefits.GET("/deductions", read, h.ListDeductions)
		benefits.GET("/allowances", read, h.ListAllowances)
		benefits.POST("/deductions", manage, h.CreateDeduction)
		benefits.POST("/allowances", manage, h.CreateAllowance)
		benefits.POST("/deductions/:id/assign", manage, h.AssignDeduction)
		benefits.POST("/allowances/:id/assign", manage, h.AssignAllowance)
	}
}
