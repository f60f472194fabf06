package attendance

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc) {
	attendance := r.Group("/attendance")
	attendance.Use(auth)
	{
		attendance.GET("", middleware.RBACAuthorize(rbacService, domain.ResourceAttendance, domain.ActionRead), h.GetAll)
		attendance.GET("/summary", middleware.RBACAuthorize(rbacService, domain.ResourceAttendance, domain.ActionRead), h.Summary)
		attendance.POST("", middleware.RBACAuthorize(rbacService, domain.ResourceAttendance, domain.ActionWrite), h.Record)
	}
}
