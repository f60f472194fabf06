package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/attendance"
	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/employee"
	employeemock "go-payroll/internal/employee/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeRepo struct {
	upsertFn    func(ctx context.Context, r *attendance.Record) error
	findFn      func(ctx context.Context, employeeID int64, date time.Time) (*attendance.Record, error)
	listFn      func(ctx context.Context, filter attendance.ListFilter, offset, limit int) ([]attendance.Record, int64, error)
	listRangeFn func(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Record, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) attendance.Repository { return f }
func (f *fakeRepo) InsertIfAbsent(ctx context.Context, r *attendance.Record) (bool, error) {
	return true, nil
}
func (f *fakeRepo) Upsert(ctx context.Context, r *attendance.Record) error { return f.upsertFn(ctx, r) }
func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Record, error) {
	return f.findFn(ctx, employeeID, date)
}
func (f *fakeRepo) List(ctx context.Context, filter attendance.ListFilter, offset, limit int) ([]attendance.Record, int64, error) {
	return f.listFn(ctx, filter, offset, limit)
}
func (f *fakeRepo) ListRange(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Record, error) {
	return f.listRangeFn(ctx, employeeID, from, to)
}
func (f *fakeRepo) Totals(ctx context.Context, employeeID int64, from, to time.Time) (attendance.HoursTotals, error) {
	return attendance.HoursTotals{}, nil
}

func strPtr(s string) *string { return &s }

func TestService_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctrl := gomock.NewController(t)
	registry := employeemock.NewMockRegistry(ctrl)
	ctx := context.Background()

	var saved attendance.Record
	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, r *attendance.Record) error {
			saved = *r
			return nil
		},
		findFn: func(ctx context.Context, employeeID int64, date time.Time) (*attendance.Record, error) {
			return &saved, nil
		},
	}
	svc := attendance.NewService(db, repo, registry, attendance.DefaultShift())

	t.Run("late clock in is classified on write", func(t *testing.T) {
		registry.EXPECT().FindByID(ctx, int64(1023)).Return(&employee.Employee{ID: 1023}, nil)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Record(ctx, attendance.RecordAttendanceRequest{
			EmployeeID:    1023,
			Date:          "2025-01-05",
			ClockIn:       strPtr("08:20"),
			ClockOut:      strPtr("17:00"),
			OvertimeHours: decimal.RequireFromString("1.5"),
		})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusLate, resp.Status)
		assert.Equal(t, "7.67", resp.WorkingHours)
		assert.Equal(t, "1.50", resp.OvertimeHours)
		assert.Contains(t, resp.Remarks, "08:20")
		assert.Equal(t, "2025-01-05", resp.AttendanceDate)
		assert.Equal(t, attendance.SourceManual, saved.Source)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown employee", func(t *testing.T) {
		registry.EXPECT().FindByID(ctx, int64(9)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Record(ctx, attendance.RecordAttendanceRequest{EmployeeID: 9, Date: "2025-01-05", ClockIn: strPtr("08:00")})
		assert.ErrorIs(t, err, attendanceerrors.ErrEmployeeNotFound)
	})

	t.Run("invalid input never reaches storage", func(t *testing.T) {
		_, err := svc.Record(ctx, attendance.RecordAttendanceRequest{EmployeeID: 1, Date: "05/01/2025"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDate)

		_, err = svc.Record(ctx, attendance.RecordAttendanceRequest{EmployeeID: 1, Date: "2025-01-05", ClockIn: strPtr("25:99")})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidClockTime)

		_, err = svc.Record(ctx, attendance.RecordAttendanceRequest{EmployeeID: 1, Date: "2025-01-05", ClockOut: strPtr("17:00")})
		assert.ErrorIs(t, err, attendanceerrors.ErrClockOutWithoutIn)

		_, err = svc.Record(ctx, attendance.RecordAttendanceRequest{EmployeeID: 1, Date: "2025-01-05", NightHours: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, attendanceerrors.ErrNegativeHours)
	})

	t.Run("storage failure rolls back", func(t *testing.T) {
		registry.EXPECT().FindByID(ctx, int64(1023)).Return(&employee.Employee{ID: 1023}, nil)
		repo.upsertFn = func(ctx context.Context, r *attendance.Record) error { return errors.New("db down") }
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Record(ctx, attendance.RecordAttendanceRequest{EmployeeID: 1023, Date: "2025-01-05", ClockIn: strPtr("08:00")})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := employeemock.NewMockRegistry(ctrl)
	shift := attendance.DefaultShift()
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	repo := &fakeRepo{
		listRangeFn: func(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Record, error) {
			assert.Equal(t, day(1), from)
			assert.Equal(t, day(31), to)
			return []attendance.Record{
				attendance.NewRecord(shift, employeeID, day(2), at(7, 55), at(17, 0), attendance.SourceImport),
				attendance.NewRecord(shift, employeeID, day(3), at(8, 30), at(17, 0), attendance.SourceImport),
				attendance.NewRecord(shift, employeeID, day(4), nil, nil, attendance.SourceManual),
			}, nil
		},
	}
	svc := attendance.NewService(nil, repo, registry, shift)

	resp, err := svc.Summary(context.Background(), attendance.SummaryQuery{EmployeeID: 7, From: "2025-01-01", To: "2025-01-31"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Present)
	assert.Equal(t, 1, resp.Late)
	assert.Equal(t, 1, resp.Absent)
	assert.Equal(t, 3, resp.TotalDays)
	assert.Equal(t, "15.50", resp.WorkingHours)

	_, err = svc.Summary(context.Background(), attendance.SummaryQuery{EmployeeID: 7, From: "2025-02-01", To: "2025-01-01"})
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDateRange)

	_, err = svc.Summary(context.Background(), attendance.SummaryQuery{From: "2025-01-01", To: "2025-01-31"})
	assert.ErrorIs(t, err, attendanceerrors.ErrEmployeeRequired)
}
