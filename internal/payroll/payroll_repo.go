package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecordFilter struct {
	PeriodID   *uuid.UUID
	EmployeeID *int64
	Status     string
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreatePeriod(ctx context.Context, p *Period) error
	FindPeriod(ctx context.Context, id uuid.UUID) (*Period, error)
	ListPeriods(ctx context.Context, status string, offset, limit int) ([]Period, int64, error)
	HasOverlappingPeriod(ctx context.Context, start, end time.Time) (bool, error)
	// OpenPeriodOn returns the OPEN period whose range contains day.
	OpenPeriodOn(ctx context.Context, day time.Time) (*Period, error)
	// TransitionPeriod moves the period to `to` only when its status is one
	// of from. It reports whether a row changed.
	TransitionPeriod(ctx context.Context, id uuid.UUID, from []string, to string) (bool, error)
	// LockPeriodStatus reads the period status and, on postgres, holds a
	// share lock until the transaction ends so a close waits for inserts.
	LockPeriodStatus(ctx context.Context, id uuid.UUID) (string, error)

	RecordExists(ctx context.Context, employeeID int64, periodID uuid.UUID) (bool, error)
	// InsertRecord relies on uq_payroll_employee_period. It reports false
	// when a concurrent run already inserted the pair.
	InsertRecord(ctx context.Context, rec *Record) (bool, error)
	// UpdateFigures rewrites the money fields of a record no payslip has
	// locked yet. It reports false when the record is locked.
	UpdateFigures(ctx context.Context, rec *Record) (bool, error)
	FindRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	// LockRecord reads a record and, on postgres, holds it FOR UPDATE.
	LockRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	ListRecords(ctx context.Context, filter RecordFilter, offset, limit int) ([]Record, int64, error)
	ListByPeriod(ctx context.Context, periodID uuid.UUID) ([]Record, error)
	// TransitionRecord moves status from one value to another, stamping
	// paid_at when given.
	TransitionRecord(ctx context.Context, id uuid.UUID, from, to string, paidAt *time.Time) (bool, error)
	// MarkPayslipGenerated freezes the figures of a record.
	MarkPayslipGenerated(ctx context.Context, id uuid.UUID, at time.Time) error

	ReplaceComponents(ctx context.Context, payrollID uuid.UUID, components []Component) error
	ListComponents(ctx context.Context, payrollID uuid.UUID) ([]Component, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(r.db, r.tx).WithContext(ctx)
}

// locking applies a row lock where the dialect supports one.
func (r *repository) locking(q *gorm.DB, strength string) *gorm.DB {
	if r.db.Dialector.Name() != "postgres" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: strength})
}

func (r *repository) CreatePeriod(ctx context.Context, p *Period) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindPeriod(ctx context.Context, id uuid.UUID) (*Period, error) {
	var p Period
	if err := r.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListPeriods(ctx context.Context, status string, offset, limit int) ([]Period, int64, error) {
	q := r.conn(ctx).Model(&Period{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Period
	err := q.Order("start_date DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, start, end time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Period{}).
		Where("NOT (end_date < ? OR start_date > ?)", start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) OpenPeriodOn(ctx context.Context, day time.Time) (*Period, error) {
	var p Period
	err := r.conn(ctx).
		Where("status = ? AND start_date <= ? AND end_date >= ?", PeriodOpen, day, day).
		Order("start_date DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) TransitionPeriod(ctx context.Context, id uuid.UUID, from []string, to string) (bool, error) {
	updates := map[string]any{"status": to, "updated_at": time.Now().UTC()}
	if to == PeriodClosed {
		updates["closed_at"] = time.Now().UTC()
	}
	res := r.conn(ctx).
		Model(&Period{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) LockPeriodStatus(ctx context.Context, id uuid.UUID) (string, error) {
	var p Period
	q := r.conn(ctx).Model(&Period{}).Select("id", "status").Where("id = ?", id)
	if err := r.locking(q, clause.LockingStrengthShare).Take(&p).Error; err != nil {
		return "", err
	}
	return p.Status, nil
}

func (r *repository) RecordExists(ctx context.Context, employeeID int64, periodID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Record{}).
		Where("employee_id = ? AND period_id = ?", employeeID, periodID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) InsertRecord(ctx context.Context, rec *Record) (bool, error) {
	res := r.conn(ctx).
		Omit("Components").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "period_id"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateFigures(ctx context.Context, rec *Record) (bool, error) {
	res := r.conn(ctx).
		Model(&Record{}).
		Where("id = ? AND payslip_generated_at IS NULL", rec.ID).
		Select(
			"working_hours", "hourly_rate", "basic_salary",
			"overtime_hours", "overtime_pay", "holiday_hours", "holiday_pay",
			"night_hours", "night_differential", "allowances", "gross_pay",
			"social_insurance", "health_insurance", "housing_fund",
			"taxable_income", "tax_withheld", "other_deductions",
			"total_deductions", "net_pay", "status", "updated_at",
		).
		Updates(rec)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) FindRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	if err := r.conn(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) LockRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	q := r.conn(ctx).Where("id = ?", id)
	if err := r.locking(q, clause.LockingStrengthUpdate).Take(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) ListRecords(ctx context.Context, filter RecordFilter, offset, limit int) ([]Record, int64, error) {
	q := r.conn(ctx).Model(&Record{})
	if filter.PeriodID != nil {
		q = q.Where("period_id = ?", *filter.PeriodID)
	}
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Record
	err := q.Order("period_start DESC, employee_id ASC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *repository) ListByPeriod(ctx context.Context, periodID uuid.UUID) ([]Record, error) {
	var rows []Record
	err := r.conn(ctx).
		Where("period_id = ?", periodID).
		Order("employee_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) TransitionRecord(ctx context.Context, id uuid.UUID, from, to string, paidAt *time.Time) (bool, error) {
	updates := map[string]any{"status": to, "updated_at": time.Now().UTC()}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	res := r.conn(ctx).
		Model(&Record{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) MarkPayslipGenerated(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.conn(ctx).
		Model(&Record{}).
		Where("id = ? AND payslip_generated_at IS NULL", id).
		Update("payslip_generated_at", at).Error
}

func (r *repository) ReplaceComponents(ctx context.Context, payrollID uuid.UUID, components []Component) error {
	db := r.conn(ctx)
	if err := db.Where("payroll_id = ?", payrollID).Delete(&Component{}).Error; err != nil {
		return err
	}
	if len(components) == 0 {
		return nil
	}
	return db.Create(&components).Error
}

func (r *repository) ListComponents(ctx context.Context, payrollID uuid.UUID) ([]Component, error) {
	var rows []Component
	err := r.conn(ctx).
		Where("payroll_id = ?", payrollID).
		Order("component_type ASC, component_name ASC").
		Find(&rows).Error
	return rows, err
}
