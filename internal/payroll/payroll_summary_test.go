package payroll_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/payroll"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func departmentRoster() map[int64]employee.Employee {
	eng, treasury := int64(1), int64(2)
	return map[int64]employee.Employee{
		1: {ID: 1, DepartmentID: &eng, Department: &employee.Department{ID: eng, Name: "Engineering"}},
		2: {ID: 2, DepartmentID: &treasury, Department: &employee.Department{ID: treasury, Name: "Treasury"}},
		3: {ID: 3, DepartmentID: &eng, Department: &employee.Department{ID: eng, Name: "Engineering"}},
	}
}

func TestSummarize(t *testing.T) {
	period := payroll.Period{ID: uuid.New(), Name: "January 1-15", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 15)}
	records := []payroll.Record{
		{EmployeeID: 1, Status: payroll.StatusProcessed, GrossPay: d("2100.10"), TaxWithheld: d("74.60"), TotalDeductions: d("428.60"), NetPay: d("1671.50")},
		{EmployeeID: 2, Status: payroll.StatusAbsent, GrossPay: d("0"), TotalDeductions: d("0"), NetPay: d("0")},
		{EmployeeID: 3, Status: payroll.StatusPaid, GrossPay: d("1000.20"), TaxWithheld: d("0"), TotalDeductions: d("100.10"), NetPay: d("900.10")},
		{EmployeeID: 99, Status: payroll.StatusProcessed, GrossPay: d("10"), TotalDeductions: d("0"), NetPay: d("10")},
	}

	t.Run("overall", func(t *testing.T) {
		s := payroll.Summarize(period, records, nil, payroll.GroupNone)
		assert.Equal(t, "2025-01-01", s.StartDate)
		assert.Equal(t, 4, s.Totals.Employees)
		assert.Equal(t, 2, s.Totals.Processed)
		assert.Equal(t, 1, s.Totals.Absent)
		assert.Equal(t, 1, s.Totals.Paid)
		assert.Equal(t, "3110.30", s.Totals.GrossPay)
		assert.Equal(t, "2581.60", s.Totals.NetPay)
		assert.Nil(t, s.Departments)
	})

	t.Run("by department", func(t *testing.T) {
		s := payroll.Summarize(period, records, departmentRoster(), payroll.GroupDepartment)
		require.Len(t, s.Departments, 3)

		// unknown employees land in an unnamed group, sorted first
		assert.Equal(t, "", s.Departments[0].Department)
		assert.Nil(t, s.Departments[0].DepartmentID)
		assert.Equal(t, "10.00", s.Departments[0].NetPay)

		assert.Equal(t, "Engineering", s.Departments[1].Department)
		assert.Equal(t, 2, s.Departments[1].Employees)
		assert.Equal(t, "3100.30", s.Departments[1].GrossPay)
		assert.Equal(t, "2571.60", s.Departments[1].NetPay)

		assert.Equal(t, "Treasury", s.Departments[2].Department)
		assert.Equal(t, 1, s.Departments[2].Absent)
		assert.Equal(t, "0.00", s.Departments[2].NetPay)
	})
}

func TestRedisSummaryCache(t *testing.T) {
	ctx := context.Background()
	periodID := uuid.NewString()
	key := "payroll:summary:" + periodID + ":all"
	summary := payroll.SummaryResponse{PeriodID: periodID, PeriodName: "Jan", Totals: payroll.TotalsResponse{Employees: 2, NetPay: "1671.40"}}
	payload, err := json.Marshal(summary)
	require.NoError(t, err)

	t.Run("miss", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cache := payroll.NewRedisSummaryCache(rdb, time.Minute)
		mock.ExpectGet(key).RedisNil()

		got, err := cache.Get(ctx, periodID, payroll.GroupNone)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set then hit", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cache := payroll.NewRedisSummaryCache(rdb, time.Minute)
		mock.ExpectSet(key, payload, time.Minute).SetVal("OK")
		mock.ExpectGet(key).SetVal(string(payload))

		require.NoError(t, cache.Set(ctx, periodID, payroll.GroupNone, summary))
		got, err := cache.Get(ctx, periodID, payroll.GroupNone)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, summary, *got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidate drops both groupings", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cache := payroll.NewRedisSummaryCache(rdb, 0)
		mock.ExpectDel(key, "payroll:summary:"+periodID+":department").SetVal(2)

		require.NoError(t, cache.Invalidate(ctx, periodID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
