package benefit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	KindFixed      = "FIXED"
	KindPercentage = "PERCENTAGE"
)

type Deduction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"size:120;not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Kind        string          `gorm:"type:varchar(12);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Percentage  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Active      bool            `gorm:"not null"`
	IsMandatory bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Allowance struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"size:120;not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Kind        string          `gorm:"type:varchar(12);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Percentage  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Active      bool            `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EmployeeDeduction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  int64     `gorm:"not null;uniqueIndex:uq_employee_deduction,priority:1"`
	DeductionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_employee_deduction,priority:2"`
	Active      bool      `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EmployeeAllowance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  int64     `gorm:"not null;uniqueIndex:uq_employee_allowance,priority:1"`
	AllowanceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_employee_allowance,priority:2"`
	Active      bool      `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Deduction) TableName() string         { return "deductions" }
func (Allowance) TableName() string         { return "allowances" }
func (EmployeeDeduction) TableName() string { return "employee_deductions" }
func (EmployeeAllowance) TableName() string { return "employee_allowances" }

// Rule is the part of a catalog entry the resolver needs.
type Rule struct {
	ID         uuid.UUID
	Name       string
	Kind       string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

func (d Deduction) Rule() Rule {
	return Rule{ID: d.ID, Name: d.Name, Kind: d.Kind, Amount: d.Amount, Percentage: d.Percentage}
}

func (a Allowance) Rule() Rule {
	return Rule{ID: a.ID, Name: a.Name, Kind: a.Kind, Amount: a.Amount, Percentage: a.Percentage}
}
