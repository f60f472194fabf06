package payroll

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/dberr"
	"go-payroll/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	CreatePeriod(ctx context.Context, actor contextutil.Actor, req CreatePeriodRequest) (PeriodResponse, error)
	ListPeriods(ctx context.Context, q ListPeriodsQuery) ([]PeriodResponse, response.PaginationMeta, error)
	CurrentPeriod(ctx context.Context) (PeriodResponse, error)
	ClosePeriod(ctx context.Context, periodID string) (PeriodResponse, error)
	ProcessPeriod(ctx context.Context, periodID string, actor contextutil.Actor) (ProcessResult, error)
	ProcessEmployee(ctx context.Context, periodID string, employeeID int64, actor contextutil.Actor) (ProcessResult, error)

	List(ctx context.Context, q ListPayrollQuery) ([]PayrollResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	GetBreakdown(ctx context.Context, id string) (BreakdownResponse, error)
	MarkPaid(ctx context.Context, id string) (PayrollResponse, error)
	Recalculate(ctx context.Context, id string) (PayrollResponse, error)
	RequestPayslip(ctx context.Context, id string, actor contextutil.Actor) error
	Summary(ctx context.Context, periodID, group string) (SummaryResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	processor *Processor
	sf        singleflight.Group
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, processor *Processor, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		processor: processor,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) employees() employee.Registry { return s.processor.deps.Employees }
func (s *service) cache() SummaryCache          { return s.processor.deps.Cache }

func (s *service) invalidate(ctx context.Context, periodID uuid.UUID) {
	if c := s.cache(); c != nil {
		if err := c.Invalidate(ctx, periodID.String()); err != nil {
			s.logger.Warn("invalidate payroll summary failed", zap.String("period_id", periodID.String()), zap.Error(err))
		}
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := attendance.ParseDate(v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func (s *service) CreatePeriod(ctx context.Context, actor contextutil.Actor, req CreatePeriodRequest) (PeriodResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	pay, err := parseDate(req.PayDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	if start.After(end) {
		return PeriodResponse{}, payrollerrors.ErrInvalidDateRange
	}
	if pay.Before(start) {
		return PeriodResponse{}, payrollerrors.ErrInvalidPayDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, start, end)
	if err != nil {
		return PeriodResponse{}, err
	}
	if overlap {
		return PeriodResponse{}, payrollerrors.ErrPeriodOverlap
	}

	period := &Period{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		StartDate: start,
		EndDate:   end,
		PayDate:   pay,
		Status:    PeriodOpen,
		CreatedBy: actor.UserID,
	}
	if err := qtx.CreatePeriod(ctx, period); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.logger.Info("payroll period created",
		zap.String("period_id", period.ID.String()),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
	)
	return mapPeriod(*period), nil
}

func (s *service) ListPeriods(ctx context.Context, q ListPeriodsQuery) ([]PeriodResponse, response.PaginationMeta, error) {
	offset, limit := response.Paginate(q.Page, q.PageSize)
	rows, total, err := s.repo.ListPeriods(ctx, q.Status, offset, limit)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	out := make([]PeriodResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, mapPeriod(p))
	}
	return out, response.NewPaginationMeta(total, offset/limit+1, limit), nil
}

func (s *service) CurrentPeriod(ctx context.Context) (PeriodResponse, error) {
	today := attendance.DateOnly(s.now())
	p, err := s.repo.OpenPeriodOn(ctx, today)
	if err != nil {
		if dberr.IsNotFound(err) {
			return PeriodResponse{}, payrollerrors.ErrNoOpenPeriod
		}
		return PeriodResponse{}, err
	}
	return mapPeriod(*p), nil
}

func (s *service) ClosePeriod(ctx context.Context, periodID string) (PeriodResponse, error) {
	id, err := uuid.Parse(periodID)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidPeriodID
	}

	changed, err := s.repo.TransitionPeriod(ctx, id, []string{PeriodOpen, PeriodProcessing}, PeriodClosed)
	if err != nil {
		return PeriodResponse{}, err
	}

	p, err := s.repo.FindPeriod(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return PeriodResponse{}, payrollerrors.ErrPeriodNotFound
		}
		return PeriodResponse{}, err
	}
	if !changed {
		return PeriodResponse{}, payrollerrors.ErrPeriodAlreadyClosed
	}

	s.logger.Info("payroll period closed", zap.String("period_id", periodID))
	return mapPeriod(*p), nil
}

func (s *service) ProcessPeriod(ctx context.Context, periodID string, actor contextutil.Actor) (ProcessResult, error) {
	return s.processor.ProcessPeriod(ctx, periodID, actor)
}

func (s *service) ProcessEmployee(ctx context.Context, periodID string, employeeID int64, actor contextutil.Actor) (ProcessResult, error) {
	return s.processor.ProcessEmployee(ctx, periodID, employeeID, actor)
}

func (s *service) List(ctx context.Context, q ListPayrollQuery) ([]PayrollResponse, response.PaginationMeta, error) {
	filter := RecordFilter{Status: q.Status}
	if q.PeriodID != "" {
		id, err := uuid.Parse(q.PeriodID)
		if err != nil {
			return nil, response.PaginationMeta{}, payrollerrors.ErrInvalidPeriodID
		}
		filter.PeriodID = &id
	}
	if q.EmployeeID > 0 {
		filter.EmployeeID = &q.EmployeeID
	}

	offset, limit := response.Paginate(q.Page, q.PageSize)
	rows, total, err := s.repo.ListRecords(ctx, filter, offset, limit)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	out := make([]PayrollResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapToResponse(r))
	}
	return out, response.NewPaginationMeta(total, offset/limit+1, limit), nil
}

func (s *service) findRecord(ctx context.Context, id string) (*Record, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, payrollerrors.ErrInvalidPayrollID
	}
	rec, err := s.repo.FindRecord(ctx, rid)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, payrollerrors.ErrPayrollNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) GetBreakdown(ctx context.Context, id string) (BreakdownResponse, error) {
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return BreakdownResponse{}, err
	}
	components, err := s.repo.ListComponents(ctx, rec.ID)
	if err != nil {
		return BreakdownResponse{}, err
	}

	resp := BreakdownResponse{
		Payroll:    mapToResponse(*rec),
		Allowances: []ComponentResponse{},
		Deductions: []ComponentResponse{},
		Statutory:  []ComponentResponse{},
	}
	for _, c := range components {
		switch c.ComponentType {
		case ComponentAllowance:
			resp.Allowances = append(resp.Allowances, mapComponent(c))
		case ComponentDeduction:
			resp.Deductions = append(resp.Deductions, mapComponent(c))
		case ComponentStatutory:
			resp.Statutory = append(resp.Statutory, mapComponent(c))
		}
	}
	return resp, nil
}

// MarkPaid moves a PROCESSED record to PAID.
func (s *service) MarkPaid(ctx context.Context, id string) (PayrollResponse, error) {
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return PayrollResponse{}, err
	}

	paidAt := s.now().UTC()
	changed, err := s.repo.TransitionRecord(ctx, rec.ID, StatusProcessed, StatusPaid, &paidAt)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !changed {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	rec.Status = StatusPaid
	rec.PaidAt = &paidAt
	s.invalidate(ctx, rec.PeriodID)
	return mapToResponse(*rec), nil
}

// Recalculate reprices a DRAFT or PROCESSED record in place. Records already
// snapshotted by a payslip, or in a closed period, are rejected.
func (s *service) Recalculate(ctx context.Context, id string) (PayrollResponse, error) {
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	if rec.Locked() {
		return PayrollResponse{}, payrollerrors.ErrPayrollLocked
	}
	if rec.Status != StatusDraft && rec.Status != StatusProcessed {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	period, err := s.repo.FindPeriod(ctx, rec.PeriodID)
	if err != nil {
		return PayrollResponse{}, fmt.Errorf("load period: %w", err)
	}
	if period.Status == PeriodClosed {
		return PayrollResponse{}, payrollerrors.ErrPeriodClosed
	}

	emp, err := s.employees().FindByID(ctx, rec.EmployeeID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return PayrollResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return PayrollResponse{}, err
	}

	comp, err := s.processor.Recompute(ctx, *period, *emp)
	if err != nil {
		return PayrollResponse{}, err
	}
	comp.Apply(rec)
	rec.Status = StatusProcessed
	if !comp.Worked() {
		rec.Status = StatusAbsent
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	updated, err := qtx.UpdateFigures(ctx, rec)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !updated {
		return PayrollResponse{}, payrollerrors.ErrPayrollLocked
	}
	if err := qtx.ReplaceComponents(ctx, rec.ID, comp.Components(rec.ID)); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.invalidate(ctx, rec.PeriodID)
	s.logger.Info("payroll recalculated", zap.String("payroll_id", id), zap.String("net_pay", fixed(rec.NetPay)))
	return mapToResponse(*rec), nil
}

// RequestPayslip queues asynchronous payslip generation through the outbox.
func (s *service) RequestPayslip(ctx context.Context, id string, actor contextutil.Actor) error {
	if s.processor.deps.Outbox == nil {
		return payrollerrors.ErrOutboxUnavailable
	}
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status != StatusProcessed && rec.Status != StatusPaid {
		return payrollerrors.ErrInvalidStatusTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.processor.queuePayslip(ctx, tx, rec, actor); err != nil {
		return err
	}
	return tx.Commit()
}

// Summary totals a period's records, optionally per department. Results are
// cached and concurrent misses for the same key share one computation.
func (s *service) Summary(ctx context.Context, periodID, group string) (SummaryResponse, error) {
	if group != GroupNone && group != GroupDepartment {
		return SummaryResponse{}, payrollerrors.ErrInvalidGroup
	}
	id, err := uuid.Parse(periodID)
	if err != nil {
		return SummaryResponse{}, payrollerrors.ErrInvalidPeriodID
	}

	if c := s.cache(); c != nil {
		cached, err := c.Get(ctx, id.String(), group)
		if err != nil {
			s.logger.Warn("read payroll summary cache failed", zap.String("period_id", periodID), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	v, err, _ := s.sf.Do(summaryKey(id.String(), group), func() (any, error) {
		return s.computeSummary(ctx, id, group)
	})
	if err != nil {
		return SummaryResponse{}, err
	}
	return v.(SummaryResponse), nil
}

func (s *service) computeSummary(ctx context.Context, periodID uuid.UUID, group string) (SummaryResponse, error) {
	period, err := s.repo.FindPeriod(ctx, periodID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return SummaryResponse{}, payrollerrors.ErrPeriodNotFound
		}
		return SummaryResponse{}, err
	}
	records, err := s.repo.ListByPeriod(ctx, periodID)
	if err != nil {
		return SummaryResponse{}, err
	}

	var employees map[int64]employee.Employee
	if group == GroupDepartment {
		ids := make([]int64, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.EmployeeID)
		}
		if employees, err = s.employees().FindByIDs(ctx, ids); err != nil {
			return SummaryResponse{}, fmt.Errorf("load employees: %w", err)
		}
	}

	summary := Summarize(*period, records, employees, group)
	if c := s.cache(); c != nil {
		if err := c.Set(ctx, periodID.String(), group, summary); err != nil {
			s.logger.Warn("write payroll summary cache failed", zap.String("period_id", periodID.String()), zap.Error(err))
		}
	}
	return summary, nil
}
