package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/benefit"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/dberr"
	"go-payroll/internal/statutory"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EmployeeFailure struct {
	EmployeeID int64  `json:"employee_id"`
	Reason     string `json:"reason"`
}

type ProcessResult struct {
	PeriodID     string            `json:"period_id"`
	Processed    int               `json:"processed"`
	Absent       int               `json:"absent"`
	Skipped      int               `json:"skipped"`
	Failed       int               `json:"failed"`
	Failures     []EmployeeFailure `json:"failures"`
	PeriodClosed bool              `json:"period_closed"`
}

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeAbsent
	outcomeSkipped
	outcomePeriodClosed
)

// Dependencies are the collaborators the processor reads from.
type Dependencies struct {
	Attendance attendance.Repository
	Benefits   benefit.Repository
	Employees  employee.Registry
	Brackets   statutory.BracketRepository
	Calculator *statutory.Calculator
	// Outbox is optional. When set, every new PROCESSED record queues a
	// payslip request in the same transaction.
	Outbox kafka.OutboxRepository
	// Cache is optional and invalidated after each run.
	Cache SummaryCache
}

// Processor turns a period's attendance into payroll records, at most one
// per employee and period.
type Processor struct {
	db     *sql.DB
	repo   Repository
	deps   Dependencies
	rates  Rates
	now    func() time.Time
	logger *zap.Logger
}

func NewProcessor(db *sql.DB, repo Repository, deps Dependencies, rates Rates, logger ...*zap.Logger) *Processor {
	l := zap.L().Named("payroll.processor")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.processor")
	}
	return &Processor{
		db:     db,
		repo:   repo,
		deps:   deps,
		rates:  rates,
		now:    time.Now,
		logger: l,
	}
}

// ProcessPeriod computes payroll for every active employee. Re-running it is
// safe: existing records are skipped and a CLOSED period is left untouched.
// Per-employee failures are counted; roster, period and bracket loads are
// fatal.
func (p *Processor) ProcessPeriod(ctx context.Context, periodID string, actor contextutil.Actor) (ProcessResult, error) {
	period, err := p.loadPeriod(ctx, periodID)
	if err != nil {
		return ProcessResult{}, err
	}

	result := ProcessResult{PeriodID: period.ID.String(), Failures: []EmployeeFailure{}}
	if period.Status == PeriodClosed {
		result.PeriodClosed = true
		p.logger.Info("payroll period closed, nothing to do", zap.String("period_id", result.PeriodID))
		return result, nil
	}

	if _, err := p.repo.TransitionPeriod(ctx, period.ID, []string{PeriodOpen}, PeriodProcessing); err != nil {
		return ProcessResult{}, fmt.Errorf("mark period processing: %w", err)
	}

	brackets, err := p.deps.Brackets.ListActive(ctx)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("load tax brackets: %w", err)
	}

	roster, err := p.deps.Employees.ListActive(ctx)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("load employees: %w", err)
	}

	for _, emp := range roster {
		out, err := p.processOne(ctx, *period, emp, brackets, actor)
		if err != nil {
			if isFatal(err) {
				return result, err
			}
			result.Failed++
			result.Failures = append(result.Failures, EmployeeFailure{EmployeeID: emp.ID, Reason: err.Error()})
			p.logger.Error("payroll for employee failed",
				zap.String("period_id", result.PeriodID),
				zap.Int64("employee_id", emp.ID),
				zap.Error(err),
			)
			continue
		}
		if out == outcomePeriodClosed {
			result.PeriodClosed = true
			p.logger.Info("payroll period closed during run, stopping",
				zap.String("period_id", result.PeriodID),
				zap.Int64("employee_id", emp.ID),
			)
			break
		}
		result.count(out)
	}

	if p.deps.Cache != nil {
		if err := p.deps.Cache.Invalidate(ctx, result.PeriodID); err != nil {
			p.logger.Warn("invalidate payroll summary failed", zap.String("period_id", result.PeriodID), zap.Error(err))
		}
	}

	if p.deps.Outbox != nil {
		if err := p.announceProcessed(ctx, result, actor); err != nil {
			p.logger.Warn("queue period processed event failed", zap.String("period_id", result.PeriodID), zap.Error(err))
		}
	}

	p.logger.Info("payroll period processed",
		zap.String("period_id", result.PeriodID),
		zap.String("actor", actor.UserID),
		zap.Int("employees", len(roster)),
		zap.Int("processed", result.Processed),
		zap.Int("absent", result.Absent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ProcessEmployee computes one employee's payroll for a period.
func (p *Processor) ProcessEmployee(ctx context.Context, periodID string, employeeID int64, actor contextutil.Actor) (ProcessResult, error) {
	period, err := p.loadPeriod(ctx, periodID)
	if err != nil {
		return ProcessResult{}, err
	}

	result := ProcessResult{PeriodID: period.ID.String(), Failures: []EmployeeFailure{}}
	if period.Status == PeriodClosed {
		result.PeriodClosed = true
		return result, nil
	}

	emp, err := p.deps.Employees.FindByID(ctx, employeeID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return ProcessResult{}, payrollerrors.ErrEmployeeNotFound
		}
		return ProcessResult{}, fmt.Errorf("load employee %d: %w", employeeID, err)
	}

	brackets, err := p.deps.Brackets.ListActive(ctx)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("load tax brackets: %w", err)
	}

	out, err := p.processOne(ctx, *period, *emp, brackets, actor)
	if err != nil {
		if isFatal(err) {
			return result, err
		}
		result.Failed++
		result.Failures = append(result.Failures, EmployeeFailure{EmployeeID: emp.ID, Reason: err.Error()})
		return result, nil
	}
	if out == outcomePeriodClosed {
		result.PeriodClosed = true
		return result, nil
	}
	result.count(out)

	if p.deps.Cache != nil {
		if err := p.deps.Cache.Invalidate(ctx, result.PeriodID); err != nil {
			p.logger.Warn("invalidate payroll summary failed", zap.String("period_id", result.PeriodID), zap.Error(err))
		}
	}
	return result, nil
}

func (r *ProcessResult) count(out outcome) {
	switch out {
	case outcomeProcessed:
		r.Processed++
	case outcomeAbsent:
		r.Absent++
	case outcomeSkipped:
		r.Skipped++
	}
}

func (p *Processor) loadPeriod(ctx context.Context, periodID string) (*Period, error) {
	id, err := uuid.Parse(periodID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidPeriodID
	}
	period, err := p.repo.FindPeriod(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, payrollerrors.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("load period: %w", err)
	}
	return period, nil
}

type fatalError struct{ err error }

func (e fatalError) Error() string { return e.err.Error() }
func (e fatalError) Unwrap() error { return e.err }

func isFatal(err error) bool {
	var f fatalError
	return errors.As(err, &f)
}

// storageErr marks err fatal when the database itself is unreachable, so a
// run stops instead of failing every remaining employee the same way.
func storageErr(err error) error {
	if dberr.IsUnavailable(err) {
		return fatalError{err}
	}
	return err
}

// processOne runs one employee in its own transaction. A panic is recovered
// and reported as that employee's failure. Commit and storage outages are
// fatal. The period status is read again under a share lock so a close that
// lands mid-run stops further inserts.
func (p *Processor) processOne(ctx context.Context, period Period, emp employee.Employee, brackets []statutory.Bracket, actor contextutil.Actor) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fatalError{fmt.Errorf("begin transaction: %w", err)}
	}
	defer tx.Rollback()

	qtx := p.repo.WithTx(tx)

	status, err := qtx.LockPeriodStatus(ctx, period.ID)
	if err != nil {
		return 0, fatalError{fmt.Errorf("read period status: %w", err)}
	}
	if status == PeriodClosed {
		return outcomePeriodClosed, nil
	}

	exists, err := qtx.RecordExists(ctx, emp.ID, period.ID)
	if err != nil {
		return 0, storageErr(fmt.Errorf("check existing payroll: %w", err))
	}
	if exists {
		return outcomeSkipped, nil
	}

	comp, err := p.compute(ctx, tx, period, emp, brackets)
	if err != nil {
		return 0, storageErr(err)
	}

	rec := &Record{
		ID:          uuid.New(),
		EmployeeID:  emp.ID,
		PeriodID:    period.ID,
		PeriodStart: period.StartDate,
		PeriodEnd:   period.EndDate,
		Status:      StatusProcessed,
		ProcessedBy: actor.UserID,
	}
	comp.Apply(rec)
	result := outcomeProcessed
	if !comp.Worked() {
		rec.Status = StatusAbsent
		result = outcomeAbsent
	}

	inserted, err := qtx.InsertRecord(ctx, rec)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return outcomeSkipped, nil
		}
		return 0, storageErr(fmt.Errorf("insert payroll: %w", err))
	}
	if !inserted {
		return outcomeSkipped, nil
	}

	if err := qtx.ReplaceComponents(ctx, rec.ID, comp.Components(rec.ID)); err != nil {
		return 0, storageErr(fmt.Errorf("insert payroll components: %w", err))
	}

	if rec.Status == StatusProcessed && p.deps.Outbox != nil {
		if err := p.queuePayslip(ctx, tx, rec, actor); err != nil {
			return 0, storageErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fatalError{fmt.Errorf("commit payroll for employee %d: %w", emp.ID, err)}
	}
	return result, nil
}

// compute reads attendance and benefits through tx, when given, and prices
// them.
func (p *Processor) compute(ctx context.Context, tx *sql.Tx, period Period, emp employee.Employee, brackets []statutory.Bracket) (Computation, error) {
	hours, err := p.deps.Attendance.WithTx(tx).Totals(ctx, emp.ID, period.StartDate, period.EndDate)
	if err != nil {
		return Computation{}, fmt.Errorf("sum attendance: %w", err)
	}

	rate := emp.EffectiveHourlyRate(p.rates.HoursPerDay, p.rates.DaysPerMonth)
	earnings := ComputeEarnings(rate, hours, p.rates)
	if !earnings.Worked() {
		return ZeroComputation(earnings), nil
	}

	resolver := benefit.NewResolver(p.deps.Benefits.WithTx(tx))
	allowances, err := resolver.Allowances(ctx, emp.ID, earnings.Subtotal())
	if err != nil {
		return Computation{}, err
	}
	deductions, err := resolver.Deductions(ctx, emp.ID, earnings.BasicSalary)
	if err != nil {
		return Computation{}, err
	}
	return Compute(p.deps.Calculator, brackets, earnings, allowances, deductions), nil
}

func (p *Processor) queuePayslip(ctx context.Context, tx *sql.Tx, rec *Record, actor contextutil.Actor) error {
	payload := events.PayrollPayslipRequestedEvent{
		EventType:   events.PayrollPayslipRequestedType,
		PayrollID:   rec.ID.String(),
		PeriodID:    rec.PeriodID.String(),
		EmployeeID:  rec.EmployeeID,
		RequestedBy: actor.UserID,
		OccurredAt:  p.now().UTC(),
	}
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"payroll",
		rec.ID.String(),
		events.PayrollPayslipRequestedType,
		events.PayrollPayslipRequestedTopic,
		payload,
	)
	if err != nil {
		return err
	}
	if err := p.deps.Outbox.WithTx(tx).Create(ctx, event); err != nil {
		return fmt.Errorf("queue payslip request: %w", err)
	}
	return nil
}

func (p *Processor) announceProcessed(ctx context.Context, result ProcessResult, actor contextutil.Actor) error {
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"payroll_period",
		result.PeriodID,
		events.PayrollPeriodProcessedType,
		events.PayrollPeriodProcessedTopic,
		events.PayrollPeriodProcessedEvent{
			EventType:   events.PayrollPeriodProcessedType,
			PeriodID:    result.PeriodID,
			Processed:   result.Processed,
			Absent:      result.Absent,
			Skipped:     result.Skipped,
			Failed:      result.Failed,
			ProcessedBy: actor.UserID,
			OccurredAt:  p.now().UTC(),
		},
	)
	if err != nil {
		return err
	}
	return p.deps.Outbox.Create(ctx, event)
}

// Recompute prices an existing record again from current attendance and
// benefits, outside any transaction.
func (p *Processor) Recompute(ctx context.Context, period Period, emp employee.Employee) (Computation, error) {
	brackets, err := p.deps.Brackets.ListActive(ctx)
	if err != nil {
		return Computation{}, fmt.Errorf("load tax brackets: %w", err)
	}
	return p.compute(ctx, nil, period, emp, brackets)
}
