package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Ok    bool `json:"ok"`
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Ok)
	return env.Error.Code
}

func TestAuthMiddleware(t *testing.T) {
	r := setupRouter()
	r.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		actor, ok := contextutil.GetActor(c.Request.Context())
		require.True(t, ok)
		empID, _ := middleware.ActorEmployeeID(c)
		c.JSON(http.StatusOK, gin.H{"user": actor.UserID, "role": c.GetString("role"), "employee_id": empID})
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := middleware.IssueToken(testSecret, "go-payroll", middleware.Claims{
			UserID: "u-1", Role: domain.RoleOfficer, EmployeeID: 1023,
		}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user":"u-1","role":"officer","employee_id":1023}`, rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := middleware.IssueToken(testSecret, "go-payroll", middleware.Claims{
			UserID: "u-1", Role: domain.RoleOfficer,
		}, -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, rec))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := middleware.IssueToken("other", "go-payroll", middleware.Claims{
			UserID: "u-1", Role: domain.RoleOfficer,
		}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "INVALID_TOKEN", errorCode(t, rec))
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := middleware.IssueToken(testSecret, "go-payroll", middleware.Claims{
			UserID: "u-1", Role: "superuser",
		}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

type fakeRBAC struct {
	EnforceFn func(req domain.EnforceRequest) (bool, error)
}

func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.EnforceFn(req)
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("role", role)
		c.Set("user_id", "u-1")
		c.Next()
	}
}

func TestRBACAuthorize(t *testing.T) {
	svc := &fakeRBAC{EnforceFn: func(req domain.EnforceRequest) (bool, error) {
		switch req.Role {
		case domain.RoleAdmin:
			return true, nil
		case "broken":
			return false, errors.New("policy unavailable")
		}
		return false, nil
	}}

	cases := []struct {
		role string
		want int
	}{
		{domain.RoleAdmin, http.StatusOK},
		{domain.RoleEmployee, http.StatusForbidden},
		{"broken", http.StatusInternalServerError},
		{"", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run("role="+tc.role, func(t *testing.T) {
			r := setupRouter()
			r.POST("/close", withRole(tc.role),
				middleware.RBACAuthorize(svc, domain.ResourcePayrollPeriod, domain.ActionClose),
				func(c *gin.Context) { c.Status(http.StatusOK) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/close", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequestIDAndContextLogger(t *testing.T) {
	r := setupRouter()
	r.Use(middleware.RequestID(), middleware.ContextLogger(nil))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get(middleware.HeaderRequestID))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rec.Body.String())
}

func TestRateLimitByUser(t *testing.T) {
	r := setupRouter()
	r.POST("/import", withRole(domain.RoleOfficer), middleware.RateLimitByUser(0.001, 1), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestIdempotency(t *testing.T) {
	const (
		cacheKey = "idemp:/periods/p-1/process:u-1:key-1"
		lockKey  = cacheKey + ":lock"
	)
	ttl := time.Hour

	t.Run("first request stores response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0

		r := setupRouter()
		r.POST("/periods/:id/process", withRole(domain.RoleOfficer), middleware.Idempotency(rdb, ttl), func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		payload := []byte(`{"status":201,"body":{"ok":true}}`)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "1", 5*time.Minute).SetVal(true)
		mock.ExpectSet(cacheKey, payload, ttl).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		req := httptest.NewRequest(http.MethodPost, "/periods/p-1/process", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "key-1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat replays stored response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0

		r := setupRouter()
		r.POST("/periods/:id/process", withRole(domain.RoleOfficer), middleware.Idempotency(rdb, ttl), func(c *gin.Context) {
			calls++
			c.Status(http.StatusInternalServerError)
		})

		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"ok":true}}`)

		req := httptest.NewRequest(http.MethodPost, "/periods/p-1/process", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "key-1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		assert.Equal(t, "true", rec.Header().Get("Idempotent-Replay"))
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := setupRouter()
		r.POST("/periods/:id/process", withRole(domain.RoleOfficer), middleware.Idempotency(rdb, ttl), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "1", 5*time.Minute).SetVal(false)

		req := httptest.NewRequest(http.MethodPost, "/periods/p-1/process", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "key-1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "PROCESSING", errorCode(t, rec))
	})

	t.Run("no header passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := setupRouter()
		r.POST("/periods/:id/process", middleware.Idempotency(rdb, ttl), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/periods/p-1/process", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
