package payroll

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /payroll-periods and /payrolls. idempotency guards
// the batch POSTs and may be nil.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	auth gin.HandlerFunc,
	idempotency gin.HandlerFunc,
) {
	if idempotency == nil {
		idempotency = func(c *gin.Context) { c.Next() }
	}

	periods := r.Group("/payroll-periods")
	periods.Use(auth)
	{
		periods.GET("", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollPeriod, domain.ActionRead), handler.ListPeriods)
		periods.GET("/current", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollPeriod, domain.ActionRead), handler.CurrentPeriod)
		periods.GET("/:id/summary", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollSummary, domain.ActionRead), handler.Summary)
		periods.POST("", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollPeriod, domain.ActionWrite), handler.CreatePeriod)
		periods.POST(
			"/:id/process",
			middleware.RBACAuthorize(rbacService, domain.ResourcePayrollPeriod, domain.ActionProcess),
			idempotency,
			handler.ProcessPeriod,
		)
		periods.POST("/:id/close", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollPeriod, domain.ActionClose), handler.ClosePeriod)
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(auth)
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionRead), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionRead), handler.GetByID)
		payrolls.GET("/:id/breakdown", middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionRead), handler.GetBreakdown)
		payrolls.POST("/:id/mark-paid", middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionWrite), handler.MarkPaid)
		payrolls.POST("/:id/recalculate", middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionWrite), handler.Recalculate)
		payrolls.POST(
			"/:id/payslip",
			middleware.RBACAuthorize(rbacService, domain.ResourcePayslip, domain.ActionGenerate),
			idempotency,
			handler.RequestPayslip,
		)
	}
}
