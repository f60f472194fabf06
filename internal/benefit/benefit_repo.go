package benefit

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=benefit_repo.go -destination=mock/benefit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// ActiveDeductions returns deductions linked to the employee where both
	// the link and the definition are active.
	ActiveDeductions(ctx context.Context, employeeID int64) ([]Deduction, error)
	ActiveAllowances(ctx context.Context, employeeID int64) ([]Allowance, error)

	CreateDeduction(ctx context.Context, d *Deduction) error
	CreateAllowance(ctx context.Context, a *Allowance) error
	FindDeduction(ctx context.Context, id uuid.UUID) (*Deduction, error)
	FindAllowance(ctx context.Context, id uuid.UUID) (*Allowance, error)
	ListDeductions(ctx context.Context) ([]Deduction, error)
	ListAllowances(ctx context.Context) ([]Allowance, error)
	// Assign* creates the link or reactivates an existing one.
	AssignDeduction(ctx context.Context, link *EmployeeDeduction) error
	AssignAllowance(ctx context.Context, link *EmployeeAllowance) error
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

func (r *repository) ActiveDeductions(ctx context.Context, employeeID int64) ([]Deduction, error) {
	var rows []Deduction
	err := r.conn(ctx).
		Joins("JOIN employee_deductions ed ON ed.deduction_id = deductions.id").
		Where("ed.employee_id = ? AND ed.active = ? AND deductions.active = ?", employeeID, true, true).
		Order("deductions.name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ActiveAllowances(ctx context.Context, employeeID int64) ([]Allowance, error) {
	var rows []Allowance
	err := r.conn(ctx).
		Joins("JOIN employee_allowances ea ON ea.allowance_id = allowances.id").
		Where("ea.employee_id = ? AND ea.active = ? AND allowances.active = ?", employeeID, true, true).
		Order("allowances.name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateDeduction(ctx context.Context, d *Deduction) error {
	return r.conn(ctx).Create(d).Error
}

func (r *repository) CreateAllowance(ctx context.Context, a *Allowance) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindDeduction(ctx context.Context, id uuid.UUID) (*Deduction, error) {
	var d Deduction
	if err := r.conn(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindAllowance(ctx context.Context, id uuid.UUID) (*Allowance, error) {
	var a Allowance
	if err := r.conn(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListDeductions(ctx context.Context) ([]Deduction, error) {
	var rows []Deduction
	err := r.conn(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) ListAllowances(ctx context.Context) ([]Allowance, error) {
	var rows []Allowance
	err := r.conn(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) AssignDeduction(ctx context.Context, link *EmployeeDeduction) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "deduction_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"active", "updated_at"}),
		}).
		Create(link).Error
}

func (r *repository) AssignAllowance(ctx context.Context, link *EmployeeAllowance) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "allowance_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"active", "updated_at"}),
		}).
		Create(link).Error
}
