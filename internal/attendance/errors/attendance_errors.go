package attendanceerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidDate       = apperror.New(apperror.CodeInvalidInput, "date must be YYYY-MM-DD", http.StatusBadRequest)
	ErrInvalidDateRange  = apperror.New(apperror.CodeInvalidInput, "from must not be after to", http.StatusBadRequest)
	ErrInvalidClockTime  = apperror.New(apperror.CodeInvalidInput, "clock time must be HH:MM", http.StatusBadRequest)
	ErrClockOutWithoutIn = apperror.New(apperror.CodeInvalidInput, "clock_out requires clock_in", http.StatusBadRequest)
	ErrNegativeHours     = apperror.New(apperror.CodeInvalidInput, "hours must not be negative", http.StatusBadRequest)
	ErrEmployeeRequired  = apperror.New(apperror.CodeInvalidInput, "employee_id is required", http.StatusBadRequest)
	ErrEmployeeNotFound  = apperror.New(apperror.CodeNotFound, "employee not found", http.StatusNotFound)
	ErrInvalidShift      = apperror.New(apperror.CodeInvalidInput, "shift end must be after shift start", http.StatusBadRequest)
)
