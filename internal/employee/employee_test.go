package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/employee/mock"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEffectiveHourlyRate(t *testing.T) {
	cases := []struct {
		name   string
		emp    employee.Employee
		expect string
	}{
		{"explicit rate wins", employee.Employee{HourlyRate: decimal.NewFromInt(100), Salary: decimal.NewFromInt(50000)}, "100.0000"},
		{"derived from salary", employee.Employee{Salary: decimal.NewFromInt(17600)}, "100.0000"},
		{"uneven salary", employee.Employee{Salary: decimal.NewFromInt(25000)}, "142.0455"},
		{"no salary", employee.Employee{}, "0.0000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.emp.EffectiveHourlyRate(8, 22).StringFixed(4))
		})
	}
}

func TestFullName(t *testing.T) {
	e := employee.Employee{FirstName: "Juan", MiddleName: "Santos", LastName: "Dela Cruz"}
	assert.Equal(t, "Juan Santos Dela Cruz", e.FullName())
	assert.Equal(t, "Juan Dela Cruz", employee.Employee{FirstName: "Juan", LastName: "Dela Cruz"}.FullName())
}

func TestService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := mock.NewMockRegistry(ctrl)
	svc := employee.NewService(reg, 8, 22)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		dept := int64(3)
		reg.EXPECT().FindByID(ctx, int64(1023)).Return(&employee.Employee{
			ID: 1023, FirstName: "Juan", LastName: "Dela Cruz",
			DepartmentID: &dept, Department: &employee.Department{ID: 3, Name: "Accounting"},
			Salary: decimal.NewFromInt(17600), Active: true,
		}, nil)

		resp, err := svc.GetByID(ctx, 1023)
		require.NoError(t, err)
		assert.Equal(t, "Juan Dela Cruz", resp.FullName)
		assert.Equal(t, "Accounting", resp.Department)
		assert.Equal(t, "100.0000", resp.HourlyRate)
	})

	t.Run("not found", func(t *testing.T) {
		reg.EXPECT().FindByID(ctx, int64(9)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(ctx, 9)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 0)
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	reg := mock.NewMockRegistry(ctrl)
	h := employee.NewHandler(employee.NewService(reg, 8, 22))

	t.Run("bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/employees/abc", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		h.GetByID(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ok", func(t *testing.T) {
		reg.EXPECT().FindByID(gomock.Any(), int64(7)).Return(&employee.Employee{ID: 7, FirstName: "Ana", LastName: "Reyes"}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/employees/7", nil)
		c.Params = gin.Params{{Key: "id", Value: "7"}}

		h.GetByID(c)
		require.Equal(t, http.StatusOK, w.Code)

		var env struct {
			Ok   bool                      `json:"ok"`
			Data employee.EmployeeResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Equal(t, "Ana Reyes", env.Data.FullName)
	})
}

func TestRegistry_SQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&employee.Department{}, &employee.Employee{}))

	dept := int64(1)
	require.NoError(t, db.Create(&employee.Department{ID: 1, Name: "Accounting"}).Error)
	require.NoError(t, db.Create(&[]employee.Employee{
		{ID: 1023, EmployeeCode: "E-1023", FirstName: "Juan", LastName: "Dela Cruz", DepartmentID: &dept, Salary: decimal.NewFromInt(20000), Active: true},
		{ID: 1024, EmployeeCode: "E-1024", FirstName: "Ana", LastName: "Reyes", Salary: decimal.NewFromInt(18000), Active: true},
	}).Error)
	require.NoError(t, db.Create(&employee.Employee{ID: 1025, EmployeeCode: "E-1025", FirstName: "Old", LastName: "Timer", Active: true}).Error)
	require.NoError(t, db.Model(&employee.Employee{}).Where("id = ?", 1025).Update("active", false).Error)

	reg := employee.NewRegistry(db)
	ctx := context.Background()

	active, err := reg.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Accounting", active[0].DepartmentName())

	found, err := reg.FindByIDs(ctx, []int64{1023, 9999})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.True(t, found[1023].Salary.Equal(decimal.NewFromInt(20000)))

	rows, total, err := reg.List(ctx, employee.ListEmployeesQuery{Q: "reyes"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1024), rows[0].ID)
}
