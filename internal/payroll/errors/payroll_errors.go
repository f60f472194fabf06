package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidPeriodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period id",
		http.StatusBadRequest,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidPayDate = apperror.New(
		apperror.CodeInvalidInput,
		"pay_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrPeriodOverlap = apperror.New(
		apperror.CodeConflict,
		"payroll period overlaps an existing period",
		http.StatusConflict,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll period not found",
		http.StatusNotFound,
	)
	ErrNoOpenPeriod = apperror.New(
		apperror.CodeNotFound,
		"no open payroll period covers today",
		http.StatusNotFound,
	)
	ErrPeriodClosed = apperror.New(
		apperror.CodeInvalidState,
		"payroll period is closed",
		http.StatusConflict,
	)
	ErrPeriodAlreadyClosed = apperror.New(
		apperror.CodeInvalidState,
		"payroll period is already closed",
		http.StatusConflict,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll status transition",
		http.StatusConflict,
	)
	ErrPayrollLocked = apperror.New(
		apperror.CodeInvalidState,
		"payroll is referenced by a payslip and can no longer be recalculated",
		http.StatusConflict,
	)
	ErrInvalidGroup = apperror.New(
		apperror.CodeInvalidInput,
		"group must be empty or department",
		http.StatusBadRequest,
	)
	ErrOutboxUnavailable = apperror.New(
		apperror.CodeInvalidState,
		"asynchronous payslip generation is not configured",
		http.StatusServiceUnavailable,
	)
)
