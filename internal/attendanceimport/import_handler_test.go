package attendanceimport_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/attendanceimport"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	previewFn func(ctx context.Context, actor contextutil.Actor, fileName string, rows []string) (attendanceimport.PreviewResult, error)
	confirmFn func(ctx context.Context, actor contextutil.Actor, previewID string) (attendanceimport.ImportOutcome, error)
}

func (f *fakeService) Preview(ctx context.Context, actor contextutil.Actor, fileName string, rows []string) (attendanceimport.PreviewResult, error) {
	return f.previewFn(ctx, actor, fileName, rows)
}
func (f *fakeService) Confirm(ctx context.Context, actor contextutil.Actor, previewID string) (attendanceimport.ImportOutcome, error) {
	return f.confirmFn(ctx, actor, previewID)
}
func (f *fakeService) Import(ctx context.Context, rows []string) (attendanceimport.ImportOutcome, error) {
	return attendanceimport.ImportOutcome{}, nil
}

func TestHandler_PreviewMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var gotRows []string
	var gotActor contextutil.Actor
	svc := &fakeService{
		previewFn: func(ctx context.Context, actor contextutil.Actor, fileName string, rows []string) (attendanceimport.PreviewResult, error) {
			gotRows = rows
			gotActor = actor
			return attendanceimport.PreviewResult{PreviewID: "p-1", FileName: fileName}, nil
		},
	}
	h := attendanceimport.NewHandler(svc, 1<<20)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "january.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("User ID: 1023 Name: Juan\n5\n08:05 17:02\n"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/attendance/imports/preview", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.Request = req.WithContext(contextutil.WithActor(req.Context(), contextutil.Actor{UserID: "officer-1"}))

	h.Preview(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"User ID: 1023 Name: Juan", "5", "08:05 17:02"}, gotRows)
	assert.Equal(t, "officer-1", gotActor.UserID)
	assert.Contains(t, w.Body.String(), `"preview_id":"p-1"`)
}

func TestHandler_PreviewJSONAndConfirm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{
		previewFn: func(ctx context.Context, actor contextutil.Actor, fileName string, rows []string) (attendanceimport.PreviewResult, error) {
			assert.Equal(t, "pasted.txt", fileName)
			assert.Len(t, rows, 2)
			return attendanceimport.PreviewResult{PreviewID: "p-2"}, nil
		},
		confirmFn: func(ctx context.Context, actor contextutil.Actor, previewID string) (attendanceimport.ImportOutcome, error) {
			assert.Equal(t, "p-2", previewID)
			return attendanceimport.ImportOutcome{Inserted: 3}, nil
		},
	}
	h := attendanceimport.NewHandler(svc, 0)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/imports/preview",
		strings.NewReader(`{"file_name":"pasted.txt","rows":["5","08:00"]}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Preview(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodPost, "/attendance/imports/p-2/confirm", nil)
	c2.Params = gin.Params{{Key: "id", Value: "p-2"}}
	h.Confirm(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), `"inserted":3`)

	w3 := httptest.NewRecorder()
	c3, _ := gin.CreateTestContext(w3)
	c3.Request = httptest.NewRequest(http.MethodPost, "/attendance/imports/preview", strings.NewReader(`{"rows":[]}`))
	c3.Request.Header.Set("Content-Type", "application/json")
	h.Preview(c3)
	assert.Equal(t, http.StatusBadRequest, w3.Code)
}
