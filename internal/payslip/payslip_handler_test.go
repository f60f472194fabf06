package payslip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/payslip"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	payslip.Service

	generateFn func(ctx context.Context, payrollID string, actor contextutil.Actor) (payslip.GenerateResult, error)
	getByIDFn  func(ctx context.Context, id string) (payslip.PayslipResponse, error)
	rejectFn   func(ctx context.Context, id, reason string, actor contextutil.Actor) (payslip.PayslipResponse, error)
}

func (f *fakeService) Generate(ctx context.Context, payrollID string, actor contextutil.Actor) (payslip.GenerateResult, error) {
	return f.generateFn(ctx, payrollID, actor)
}
func (f *fakeService) GetByID(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeService) Reject(ctx context.Context, id, reason string, actor contextutil.Actor) (payslip.PayslipResponse, error) {
	return f.rejectFn(ctx, id, reason, actor)
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req.WithContext(contextutil.WithActor(req.Context(), officer))
	return c, w
}

func TestHandler_Generate(t *testing.T) {
	existing := uuid.NewString()
	svc := &fakeService{
		generateFn: func(ctx context.Context, payrollID string, actor contextutil.Actor) (payslip.GenerateResult, error) {
			return payslip.GenerateResult{
				Payslip:       payslip.PayslipResponse{PayrollID: payrollID, Status: payslip.StatusGenerated},
				AlreadyExists: payrollID == existing,
			}, nil
		},
	}
	h := payslip.NewHandler(svc)

	c, w := newContext(http.MethodPost, "/payslips", `{"payroll_id":"`+uuid.NewString()+`"}`)
	h.Generate(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newContext(http.MethodPost, "/payslips", `{"payroll_id":"`+existing+`"}`)
	h.Generate(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"already_exists":true`)

	c, w = newContext(http.MethodPost, "/payslips", `{"payroll_id":"nope"}`)
	h.Generate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetByID_EmployeeOwnOnly(t *testing.T) {
	svc := &fakeService{
		getByIDFn: func(ctx context.Context, id string) (payslip.PayslipResponse, error) {
			return payslip.PayslipResponse{ID: id, EmployeeID: 7}, nil
		},
	}
	h := payslip.NewHandler(svc)

	c, w := newContext(http.MethodGet, "/payslips/s-1", "")
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	c.Set("role", domain.RoleEmployee)
	c.Set("employee_id", int64(8))
	h.GetByID(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = newContext(http.MethodGet, "/payslips/s-1", "")
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	c.Set("role", domain.RoleDeptHead)
	h.GetByID(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Reject(t *testing.T) {
	svc := &fakeService{
		rejectFn: func(ctx context.Context, id, reason string, actor contextutil.Actor) (payslip.PayslipResponse, error) {
			if id == "s-done" {
				return payslip.PayslipResponse{}, paysliperrors.ErrInvalidStatusTransition
			}
			return payslip.PayslipResponse{ID: id, Status: payslip.StatusRejected, RejectionReason: reason}, nil
		},
	}
	h := payslip.NewHandler(svc)

	c, w := newContext(http.MethodPost, "/payslips/s-1/reject", `{"reason":"wrong hours"}`)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Reject(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rejection_reason":"wrong hours"`)

	c, w = newContext(http.MethodPost, "/payslips/s-1/reject", `{}`)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Reject(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodPost, "/payslips/s-done/reject", `{"reason":"late"}`)
	c.Params = gin.Params{{Key: "id", Value: "s-done"}}
	h.Reject(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}
