package benefiterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidKind       = apperror.New(apperror.CodeInvalidInput, "kind must be FIXED or PERCENTAGE", http.StatusBadRequest)
	ErrInvalidAmount     = apperror.New(apperror.CodeInvalidInput, "amount must not be negative", http.StatusBadRequest)
	ErrInvalidPercentage = apperror.New(apperror.CodeInvalidInput, "percentage must be between 0 and 100", http.StatusBadRequest)
	ErrInvalidBenefitID  = apperror.New(apperror.CodeInvalidInput, "benefit id is invalid", http.StatusBadRequest)
	ErrDeductionNotFound = apperror.New(apperror.CodeNotFound, "deduction not found", http.StatusNotFound)
	ErrAllowanceNotFound = apperror.New(apperror.CodeNotFound, "allowance not found", http.StatusNotFound)
	ErrEmployeeNotFound  = apperror.New(apperror.CodeNotFound, "employee not found", http.StatusNotFound)
	ErrDuplicateName     = apperror.New(apperror.CodeConflict, "a benefit with this name already exists", http.StatusConflict)
)
