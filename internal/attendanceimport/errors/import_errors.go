package importerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrNoRows           = apperror.New(apperror.CodeInvalidInput, "import file has no rows", http.StatusBadRequest)
	ErrTooManyRows      = apperror.New(apperror.CodeInvalidInput, "import file exceeds the row limit", http.StatusRequestEntityTooLarge)
	ErrInvalidEncoding  = apperror.New(apperror.CodeInvalidInput, "import file must be UTF-8 text", http.StatusBadRequest)
	ErrUnreadableFile   = apperror.New(apperror.CodeInvalidInput, "import file could not be read", http.StatusBadRequest)
	ErrFileRequired     = apperror.New(apperror.CodeInvalidInput, "file or rows is required", http.StatusBadRequest)
	ErrPreviewNotFound  = apperror.New(apperror.CodeNotFound, "import preview not found or expired", http.StatusNotFound)
	ErrInvalidPreviewID = apperror.New(apperror.CodeInvalidInput, "preview id is invalid", http.StatusBadRequest)
)
