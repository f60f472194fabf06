package payslip

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID *int64
	Status     string
}

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Insert relies on the unique payroll_id. It reports false when the
	// payroll already has a payslip.
	Insert(ctx context.Context, p *Payslip) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Payslip, error)
	FindByPayrollID(ctx context.Context, payrollID uuid.UUID) (*Payslip, error)
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]Payslip, int64, error)
	// Transition changes status only when the current status is from.
	Transition(ctx context.Context, id uuid.UUID, from, to string, fields map[string]any) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(r.db, r.tx).WithContext(ctx)
}

func (r *repository) Insert(ctx context.Context, p *Payslip) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payroll_id"}},
			DoNothing: true,
		}).
		Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Payslip, error) {
	var p Payslip
	if err := r.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByPayrollID(ctx context.Context, payrollID uuid.UUID) (*Payslip, error) {
	var p Payslip
	if err := r.conn(ctx).First(&p, "payroll_id = ?", payrollID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]Payslip, int64, error) {
	q := r.conn(ctx).Model(&Payslip{})
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

	var rows []Payslip
	err := q.Order("period_start DESC, payslip_number ASC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *repository) Transition(ctx context.Context, id uuid.UUID, from, to string, fields map[string]any) (bool, error) {
	updates := map[string]any{"status": to, "updated_at": time.Now().UTC()}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.conn(ctx).
		Model(&Payslip{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}
