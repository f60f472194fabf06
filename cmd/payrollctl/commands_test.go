package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCmd(t *testing.T) {
	t.Setenv("PAYROLL_JWT_SECRET", "cli-secret")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "u-7", "--role", "employee", "--employee", "7"})
	require.NoError(t, root.Execute())

	token := strings.TrimSpace(out.String())
	require.NotEmpty(t, token)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware("cli-secret"), func(c *gin.Context) {
		id, _ := middleware.ActorEmployeeID(c)
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("role"), "employee_id": id})
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"role":"employee","employee_id":7}`, rec.Body.String())
}

func TestTokenCmd_UnknownRole(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"token", "u-1", "--role", "root"})
	assert.Error(t, root.Execute())
}

func TestImportCmd_MissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import", "/nonexistent/export.txt"})
	assert.Error(t, root.Execute())
}
