package payslip

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/payroll"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/shared/dberr"
	"go-payroll/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, payrollID string, actor contextutil.Actor) (GenerateResult, error)
	List(ctx context.Context, q ListPayslipsQuery) ([]PayslipResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, id string) (PayslipResponse, error)
	Approve(ctx context.Context, id string, actor contextutil.Actor) (PayslipResponse, error)
	Reject(ctx context.Context, id, reason string, actor contextutil.Actor) (PayslipResponse, error)
	Distribute(ctx context.Context, id string, actor contextutil.Actor) (PayslipResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	payrolls payroll.Repository
	counters counter.Repository
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	payrolls payroll.Repository,
	counters counter.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		payrolls: payrolls,
		counters: counters,
		now:      time.Now,
		logger:   l,
	}
}

// snapshot copies every figure of rec. Later recalculations cannot reach it.
func snapshot(rec payroll.Record) Payslip {
	return Payslip{
		EmployeeID:        rec.EmployeeID,
		PayrollID:         rec.ID,
		PeriodStart:       rec.PeriodStart,
		PeriodEnd:         rec.PeriodEnd,
		WorkingHours:      rec.WorkingHours,
		HourlyRate:        rec.HourlyRate,
		BasicSalary:       rec.BasicSalary,
		OvertimePay:       rec.OvertimePay,
		HolidayPay:        rec.HolidayPay,
		NightDifferential: rec.NightDifferential,
		Allowances:        rec.Allowances,
		GrossPay:          rec.GrossPay,
		SocialInsurance:   rec.SocialInsurance,
		HealthInsurance:   rec.HealthInsurance,
		HousingFund:       rec.HousingFund,
		TaxableIncome:     rec.TaxableIncome,
		TaxWithheld:       rec.TaxWithheld,
		OtherDeductions:   rec.OtherDeductions,
		TotalDeductions:   rec.TotalDeductions,
		NetPay:            rec.NetPay,
	}
}

// Generate writes at most one payslip per payroll record. A second call, or
// a concurrent one losing the race, returns the existing payslip with
// AlreadyExists set.
func (s *service) Generate(ctx context.Context, payrollID string, actor contextutil.Actor) (GenerateResult, error) {
	pid, err := uuid.Parse(payrollID)
	if err != nil {
		return GenerateResult{}, paysliperrors.ErrInvalidPayrollID
	}

	rec, err := s.payrolls.FindRecord(ctx, pid)
	if err != nil {
		if dberr.IsNotFound(err) {
			return GenerateResult{}, paysliperrors.ErrPayrollNotFound
		}
		return GenerateResult{}, fmt.Errorf("load payroll: %w", err)
	}

	if existing, err := s.repo.FindByPayrollID(ctx, pid); err == nil {
		return GenerateResult{Payslip: mapToResponse(*existing), AlreadyExists: true}, nil
	} else if !dberr.IsNotFound(err) {
		return GenerateResult{}, err
	}

	if rec.Status != payroll.StatusProcessed && rec.Status != payroll.StatusPaid {
		return GenerateResult{}, paysliperrors.ErrPayrollNotPayable
	}

	inserted, slip, err := s.insert(ctx, rec.ID, actor)
	if err != nil {
		return GenerateResult{}, err
	}
	if !inserted {
		existing, err := s.repo.FindByPayrollID(ctx, pid)
		if err != nil {
			return GenerateResult{}, err
		}
		return GenerateResult{Payslip: mapToResponse(*existing), AlreadyExists: true}, nil
	}

	s.logger.Info("payslip generated",
		zap.String("payslip_number", slip.PayslipNumber),
		zap.String("payroll_id", payrollID),
		zap.Int64("employee_id", slip.EmployeeID),
		zap.String("actor", actor.UserID),
	)
	return GenerateResult{Payslip: mapToResponse(slip)}, nil
}

// insert snapshots the record as it stands inside the transaction. On
// postgres the row stays locked until commit so a recalculation cannot
// change the figures between the snapshot and the lock stamp.
func (s *service) insert(ctx context.Context, payrollID uuid.UUID, actor contextutil.Actor) (bool, Payslip, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, Payslip{}, err
	}
	defer tx.Rollback()

	rec, err := s.payrolls.WithTx(tx).LockRecord(ctx, payrollID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return false, Payslip{}, paysliperrors.ErrPayrollNotFound
		}
		return false, Payslip{}, fmt.Errorf("lock payroll: %w", err)
	}
	if rec.Status != payroll.StatusProcessed && rec.Status != payroll.StatusPaid {
		return false, Payslip{}, paysliperrors.ErrPayrollNotPayable
	}

	seq, err := s.counters.WithTx(tx).GetNextValue(ctx, counter.TypePayslip)
	if err != nil {
		return false, Payslip{}, fmt.Errorf("next payslip sequence: %w", err)
	}

	now := s.now().UTC()
	slip := snapshot(*rec)
	slip.ID = uuid.New()
	slip.PayslipNumber = Number(rec.PeriodStart, rec.EmployeeID, seq)
	slip.Status = StatusGenerated
	slip.GeneratedAt = now
	slip.GeneratedBy = actor.UserID

	inserted, err := s.repo.WithTx(tx).Insert(ctx, &slip)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return false, Payslip{}, nil
		}
		return false, Payslip{}, err
	}
	if !inserted {
		return false, Payslip{}, nil
	}

	if err := s.payrolls.WithTx(tx).MarkPayslipGenerated(ctx, rec.ID, now); err != nil {
		return false, Payslip{}, fmt.Errorf("stamp payroll: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, Payslip{}, err
	}
	return true, slip, nil
}

func (s *service) List(ctx context.Context, q ListPayslipsQuery) ([]PayslipResponse, response.PaginationMeta, error) {
	filter := ListFilter{Status: q.Status}
	if q.EmployeeID > 0 {
		filter.EmployeeID = &q.EmployeeID
	}

	offset, limit := response.Paginate(q.Page, q.PageSize)
	rows, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	out := make([]PayslipResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, mapToResponse(p))
	}
	return out, response.NewPaginationMeta(total, offset/limit+1, limit), nil
}

func (s *service) find(ctx context.Context, id string) (*Payslip, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, paysliperrors.ErrInvalidPayslipID
	}
	p, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, paysliperrors.ErrPayslipNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayslipResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	return mapToResponse(*p), nil
}

// transition applies one workflow step and returns the stored result.
func (s *service) transition(ctx context.Context, actor contextutil.Actor, id, from, to string, fields map[string]any) (PayslipResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	if p.Status != from {
		return PayslipResponse{}, paysliperrors.ErrInvalidStatusTransition
	}

	changed, err := s.repo.Transition(ctx, p.ID, from, to, fields)
	if err != nil {
		return PayslipResponse{}, err
	}
	if !changed {
		return PayslipResponse{}, paysliperrors.ErrInvalidStatusTransition
	}

	updated, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return PayslipResponse{}, err
	}
	s.logger.Info("payslip status changed",
		zap.String("payslip_number", updated.PayslipNumber),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("actor", actor.UserID),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Approve(ctx context.Context, id string, actor contextutil.Actor) (PayslipResponse, error) {
	return s.transition(ctx, actor, id, StatusGenerated, StatusApproved, map[string]any{
		"approved_by": actor.UserID,
		"approved_at": s.now().UTC(),
	})
}

func (s *service) Reject(ctx context.Context, id, reason string, actor contextutil.Actor) (PayslipResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return PayslipResponse{}, paysliperrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, actor, id, StatusGenerated, StatusRejected, map[string]any{
		"rejection_reason": reason,
	})
}

func (s *service) Distribute(ctx context.Context, id string, actor contextutil.Actor) (PayslipResponse, error) {
	return s.transition(ctx, actor, id, StatusApproved, StatusDistributed, map[string]any{
		"distributed_at": s.now().UTC(),
	})
}
