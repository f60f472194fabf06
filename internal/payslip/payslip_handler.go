package payslip

import (
	"net/http"

	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payslip.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payslip request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func ownEmployeeID(c *gin.Context, requested int64) (int64, error) {
	if !middleware.HasRole(c, domain.RoleEmployee) {
		return requested, nil
	}
	own, ok := middleware.ActorEmployeeID(c)
	if !ok || (requested != 0 && requested != own) {
		return 0, apperror.ErrForbidden
	}
	return own, nil
}

// Generate returns 201 for a new payslip and 200 when one already existed.
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	actor, _ := contextutil.GetActor(c.Request.Context())

	resp, err := h.service.Generate(c.Request.Context(), req.PayrollID, actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	status := http.StatusCreated
	if resp.AlreadyExists {
		status = http.StatusOK
	}
	response.Success(c, status, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var q ListPayslipsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	employeeID, err := ownEmployeeID(c, q.EmployeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	q.EmployeeID = employeeID

	resp, meta, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if _, err := ownEmployeeID(c, resp.EmployeeID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	actor, _ := contextutil.GetActor(c.Request.Context())
	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	actor, _ := contextutil.GetActor(c.Request.Context())

	resp, err := h.service.Reject(c.Request.Context(), c.Param("id"), req.Reason, actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Distribute(c *gin.Context) {
	actor, _ := contextutil.GetActor(c.Request.Context())
	resp, err := h.service.Distribute(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
