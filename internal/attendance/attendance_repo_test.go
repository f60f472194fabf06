package attendance_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/attendance"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&attendance.Record{}))
	return db
}

func TestRepository_FirstImportWins(t *testing.T) {
	db := newTestDB(t)
	repo := attendance.NewRepository(db)
	shift := attendance.DefaultShift()
	ctx := context.Background()
	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	first := attendance.NewRecord(shift, 1023, day, at(8, 5), at(17, 2), attendance.SourceImport)
	inserted, err := repo.InsertIfAbsent(ctx, &first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := attendance.NewRecord(shift, 1023, day, at(7, 0), at(12, 0), attendance.SourceImport)
	inserted, err = repo.InsertIfAbsent(ctx, &second)
	require.NoError(t, err)
	assert.False(t, inserted)

	stored, err := repo.FindByEmployeeAndDate(ctx, 1023, day)
	require.NoError(t, err)
	assert.Equal(t, "08:05", *stored.ClockIn)
	assert.Equal(t, "17:02", *stored.ClockOut)
	assert.Equal(t, attendance.StatusLate, stored.Status)

	var count int64
	require.NoError(t, db.Model(&attendance.Record{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_UpsertReclassifiesAndTotals(t *testing.T) {
	db := newTestDB(t)
	repo := attendance.NewRepository(db)
	shift := attendance.DefaultShift()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	late := attendance.NewRecord(shift, 7, day(2), at(9, 0), at(17, 0), attendance.SourceImport)
	require.NoError(t, repo.Upsert(ctx, &late))

	fixed := attendance.NewRecord(shift, 7, day(2), at(8, 0), at(17, 0), attendance.SourceManual)
	fixed.OvertimeHours = decimal.RequireFromString("2")
	require.NoError(t, repo.Upsert(ctx, &fixed))

	other := attendance.NewRecord(shift, 7, day(3), at(8, 0), at(12, 0), attendance.SourceManual)
	require.NoError(t, repo.Upsert(ctx, &other))

	outside := attendance.NewRecord(shift, 7, day(20), at(8, 0), at(17, 0), attendance.SourceManual)
	require.NoError(t, repo.Upsert(ctx, &outside))

	stored, err := repo.FindByEmployeeAndDate(ctx, 7, day(2))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, stored.Status)
	assert.Equal(t, "", stored.Remarks)

	totals, err := repo.Totals(ctx, 7, day(1), day(15))
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Days)
	assert.Equal(t, "12.00", totals.Working.StringFixed(2))
	assert.Equal(t, "2.00", totals.Overtime.StringFixed(2))

	rows, total, err := repo.List(ctx, attendance.ListFilter{EmployeeID: 7}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.True(t, rows[0].AttendanceDate.Equal(day(20)))
}
