package attendanceimport

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the import endpoints. limit and idempotency run
// after auth so they can key on the caller.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, auth, limit, idempotency gin.HandlerFunc) {
	imports := r.Group("/attendance/imports")
	imports.Use(auth, limit)
	{
		imports.POST("/preview",
			middleware.RBACAuthorize(rbacService, domain.ResourceAttendanceImport, domain.ActionWrite),
			h.Preview,
		)
		imports.POST("/:id/confirm",
			middleware.RBACAuthorize(rbacService, domain.ResourceAttendanceImport, domain.ActionWrite),
			idempotency,
			h.Confirm,
		)
	}
}
