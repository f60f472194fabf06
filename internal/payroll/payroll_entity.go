package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PeriodOpen       = "OPEN"
	PeriodProcessing = "PROCESSING"
	PeriodClosed     = "CLOSED"
)

const (
	StatusDraft     = "DRAFT"
	StatusProcessed = "PROCESSED"
	StatusAbsent    = "ABSENT"
	StatusPaid      = "PAID"
)

const (
	ComponentAllowance = "ALLOWANCE"
	ComponentDeduction = "DEDUCTION"
	ComponentStatutory = "STATUTORY"
)

type Period struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:120;not null"`
	StartDate time.Time `gorm:"type:date;not null;index"`
	EndDate   time.Time `gorm:"type:date;not null"`
	PayDate   time.Time `gorm:"type:date;not null"`
	Status    string    `gorm:"type:varchar(12);not null;index"`
	CreatedBy string    `gorm:"size:64"`
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Period) TableName() string { return "payroll_periods" }

// Record is one employee's payroll for one period. Money columns are rounded
// to cents before they are summed, so NetPay == GrossPay - TotalDeductions
// holds exactly.
type Record struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  int64     `gorm:"not null;uniqueIndex:uq_payroll_employee_period,priority:1"`
	PeriodID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period,priority:2;index"`
	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`

	WorkingHours      decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	HourlyRate        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	BasicSalary       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OvertimeHours     decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	OvertimePay       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HolidayHours      decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	HolidayPay        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	NightHours        decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	NightDifferential decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Allowances        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	GrossPay          decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	SocialInsurance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HealthInsurance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HousingFund       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TaxableIncome     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TaxWithheld       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OtherDeductions   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	NetPay            decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	Status             string `gorm:"type:varchar(12);not null;index"`
	ProcessedBy        string `gorm:"size:64"`
	PaidAt             *time.Time
	PayslipGeneratedAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Components []Component `gorm:"foreignKey:PayrollID"`
}

func (Record) TableName() string { return "payroll_records" }

// Locked reports whether a payslip has snapshotted this record.
func (r Record) Locked() bool { return r.PayslipGeneratedAt != nil }

// Component is one breakdown line of a Record.
type Component struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayrollID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentType string          `gorm:"type:varchar(20);not null"`
	ComponentName string          `gorm:"type:varchar(120);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt     time.Time
}

func (Component) TableName() string { return "payroll_components" }
