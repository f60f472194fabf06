package middleware

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenMissing = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrInvalidToken = apperror.New("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired = apperror.New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)

	ErrRequestInFlight = apperror.New(
		"PROCESSING",
		"A request with this Idempotency-Key is still being processed",
		http.StatusConflict,
	)
	ErrTooManyRequests = apperror.New(apperror.CodeTooManyInputs, "Too many requests", http.StatusTooManyRequests)
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, response.ApiEnvelope{
		Ok:    false,
		Error: &response.ErrorBody{Code: err.Code, Message: err.Message},
	})
}
