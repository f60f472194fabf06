package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		meta := response.NewPaginationMeta(45, 2, 20)
		response.Success(c, http.StatusOK, []int{1}, &meta)

		var env response.ApiEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Nil(t, env.Error)
		require.NotNil(t, env.Meta)
		assert.Equal(t, 3, env.Meta.TotalPages)
	})

	t.Run("error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		response.Error(c, http.StatusConflict, "INVALID_STATE", "period closed", nil)

		var env response.ApiEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.False(t, env.Ok)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestPaginate(t *testing.T) {
	off, lim := response.Paginate(0, 0)
	assert.Equal(t, 0, off)
	assert.Equal(t, 20, lim)

	off, lim = response.Paginate(3, 500)
	assert.Equal(t, 400, off)
	assert.Equal(t, 200, lim)
}
