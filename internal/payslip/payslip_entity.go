package payslip

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusGenerated   = "GENERATED"
	StatusApproved    = "APPROVED"
	StatusRejected    = "REJECTED"
	StatusDistributed = "DISTRIBUTED"
)

// Payslip is an immutable copy of a payroll record's figures. Only the
// workflow columns change after it is written.
type Payslip struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayslipNumber string    `gorm:"size:32;not null;uniqueIndex"`
	EmployeeID    int64     `gorm:"not null;index"`
	PayrollID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PeriodStart   time.Time `gorm:"type:date;not null"`
	PeriodEnd     time.Time `gorm:"type:date;not null"`

	WorkingHours      decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	HourlyRate        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	BasicSalary       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OvertimePay       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HolidayPay        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
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

	Status          string `gorm:"type:varchar(12);not null;index"`
	RejectionReason string `gorm:"type:text"`
	GeneratedAt     time.Time
	GeneratedBy     string `gorm:"size:64"`
	ApprovedBy      string `gorm:"size:64"`
	ApprovedAt      *time.Time
	DistributedAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Payslip) TableName() string { return "payslips" }

// Number formats PS{YYYYMM}-{employee:04d}-{seq:06d} from the period start.
func Number(periodStart time.Time, employeeID, seq int64) string {
	return fmt.Sprintf("PS%04d%02d-%04d-%06d", periodStart.Year(), int(periodStart.Month()), employeeID, seq)
}
