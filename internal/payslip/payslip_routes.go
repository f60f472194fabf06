package payslip

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc) {
	payslips := r.Group("/payslips")
	payslips.Use(auth)
	{
		payslips.GET("", middleware.RBACAuthorize(rbacService, domain.ResourcePayslip, domain.ActionRead), handler.GetAll)
		payslips.GET("/:id", middleware.RBACAuthorize(rbacService, domain.ResourcePayslip, domain.ActionRead), handler.GetByID)
		payslips.POST("", middleware.RBACAuthorize(rbacService, domain.ResourcePayslip, domain.ActionGenerate), handler.Generate)
		payslips.POST("/:id/approve", middleware.RBACAuthorize(rbacService, domain.ResourcePayslip, domain.ActionApprove), handler.Approve)
		payslips.POST("/:id/reject", middleware.RBACAuthorize(rbacService, domain.ResourcePayslip, domain.ActionApprove), handler.Reject)
		payslips.POST("/:id/distribute", middleware.RBACAuthorize(rbacService, domain.ResourcePayslip, domain.ActionDistribute), handler.Distribute)
	}
}
