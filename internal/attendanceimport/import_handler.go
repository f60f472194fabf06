package attendanceimport

import (
	"net/http"
	"strings"

	importerrors "go-payroll/internal/attendanceimport/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service        Service
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(service Service, maxUploadBytes int64, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendanceimport.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendanceimport.handler")
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &Handler{service: service, maxUploadBytes: maxUploadBytes, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance import request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Preview accepts either a multipart "file" upload or a JSON body of rows.
func (h *Handler) Preview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var (
		fileName string
		rows     []string
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			h.writeServiceError(c, importerrors.ErrFileRequired)
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.writeServiceError(c, importerrors.ErrUnreadableFile.WithCause(err))
			return
		}
		defer f.Close()

		fileName = fh.Filename
		if rows, err = ReadRows(f, IsCSV(fileName)); err != nil {
			h.writeServiceError(c, err)
			return
		}
	} else {
		var req PreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, importerrors.ErrFileRequired)
			return
		}
		fileName = req.FileName
		rows = req.Rows
	}

	actor, _ := contextutil.GetActor(c.Request.Context())
	resp, err := h.service.Preview(c.Request.Context(), actor, fileName, rows)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Confirm(c *gin.Context) {
	actor, _ := contextutil.GetActor(c.Request.Context())
	resp, err := h.service.Confirm(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
