package attendance

import (
	"context"
	"database/sql"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/shared/dberr"
	"go-payroll/internal/shared/response"

	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error)
	List(ctx context.Context, q ListAttendanceQuery) ([]AttendanceResponse, response.PaginationMeta, error)
	Summary(ctx context.Context, q SummaryQuery) (SummaryResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Registry
	shift     Shift
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Registry, shift Shift, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, employees: employees, shift: shift, logger: l}
}

// Record stores the clock times for one employee-day and reclassifies it.
func (s *service) Record(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	in, err := parseOptionalTime(req.ClockIn)
	if err != nil {
		return AttendanceResponse{}, err
	}
	out, err := parseOptionalTime(req.ClockOut)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if in == nil && out != nil {
		return AttendanceResponse{}, attendanceerrors.ErrClockOutWithoutIn
	}
	if req.OvertimeHours.IsNegative() || req.HolidayHours.IsNegative() || req.NightHours.IsNegative() {
		return AttendanceResponse{}, attendanceerrors.ErrNegativeHours
	}

	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if dberr.IsNotFound(err) {
			return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}

	rec := NewRecord(s.shift, req.EmployeeID, date, in, out, SourceManual)
	rec.OvertimeHours = req.OvertimeHours.Round(2)
	rec.HolidayHours = req.HolidayHours.Round(2)
	rec.NightHours = req.NightHours.Round(2)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Upsert(ctx, &rec); err != nil {
		return AttendanceResponse{}, err
	}
	stored, err := qtx.FindByEmployeeAndDate(ctx, rec.EmployeeID, rec.AttendanceDate)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance recorded",
		zap.Int64("employee_id", stored.EmployeeID),
		zap.String("date", stored.AttendanceDate.Format(DateLayout)),
		zap.String("status", stored.Status),
	)
	return mapToResponse(*stored), nil
}

func (s *service) List(ctx context.Context, q ListAttendanceQuery) ([]AttendanceResponse, response.PaginationMeta, error) {
	filter := ListFilter{EmployeeID: q.EmployeeID}
	if q.From != "" {
		from, err := ParseDate(q.From)
		if err != nil {
			return nil, response.PaginationMeta{}, err
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := ParseDate(q.To)
		if err != nil {
			return nil, response.PaginationMeta{}, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, response.PaginationMeta{}, attendanceerrors.ErrInvalidDateRange
	}

	offset, limit := response.Paginate(q.Page, q.PageSize)
	rows, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	out := make([]AttendanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapToResponse(r))
	}
	return out, response.NewPaginationMeta(total, offset/limit+1, limit), nil
}

// Summary counts present, late and absent days for one employee.
func (s *service) Summary(ctx context.Context, q SummaryQuery) (SummaryResponse, error) {
	if q.EmployeeID <= 0 {
		return SummaryResponse{}, attendanceerrors.ErrEmployeeRequired
	}
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		return SummaryResponse{}, err
	}

	rows, err := s.repo.ListRange(ctx, q.EmployeeID, from, to)
	if err != nil {
		return SummaryResponse{}, err
	}

	resp := SummaryResponse{
		EmployeeID: q.EmployeeID,
		From:       from.Format(DateLayout),
		To:         to.Format(DateLayout),
		TotalDays:  len(rows),
	}
	var totals HoursTotals
	for _, r := range rows {
		switch r.Status {
		case StatusPresent:
			resp.Present++
		case StatusLate:
			resp.Late++
		case StatusAbsent:
			resp.Absent++
		}
		totals = totals.add(r)
	}
	resp.WorkingHours = totals.Working.StringFixed(2)
	return resp, nil
}

func parseRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := ParseDate(fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidDateRange
	}
	return from, to, nil
}
