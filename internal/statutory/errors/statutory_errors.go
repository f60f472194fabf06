package statutoryerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrNoBrackets = apperror.New(
		"TAX_BRACKETS_MISSING",
		"No active tax brackets are configured",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidBrackets = apperror.New(
		"TAX_BRACKETS_INVALID",
		"Tax brackets must be contiguous and non-overlapping",
		http.StatusUnprocessableEntity,
	)

	ErrUnknownStrategy = apperror.New(
		"SOCIAL_STRATEGY_UNKNOWN",
		"Unknown social insurance strategy",
		http.StatusInternalServerError,
	)
)
