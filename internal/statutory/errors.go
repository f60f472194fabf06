package statutory

import statutoryerrors "go-payroll/internal/statutory/errors"

var (
	ErrNoBrackets      = statutoryerrors.ErrNoBrackets
	ErrInvalidBrackets = statutoryerrors.ErrInvalidBrackets
	ErrUnknownStrategy = statutoryerrors.ErrUnknownStrategy
)
