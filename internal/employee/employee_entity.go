package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Employee is owned by the HR registry. This service only reads it.
type Employee struct {
	ID           int64           `gorm:"primaryKey;autoIncrement:false"`
	EmployeeCode string          `gorm:"size:32;index"`
	FirstName    string          `gorm:"size:100;not null"`
	MiddleName   string          `gorm:"size:100"`
	LastName     string          `gorm:"size:100;not null"`
	DepartmentID *int64          `gorm:"index"`
	Department   *Department     `gorm:"foreignKey:DepartmentID"`
	Position     string          `gorm:"size:100"`
	Salary       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HourlyRate   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	Active       bool            `gorm:"not null;default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Department struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:100;not null"`
}

func (Employee) TableName() string   { return "employees" }
func (Department) TableName() string { return "departments" }

func (e Employee) FullName() string {
	parts := []string{e.FirstName}
	if e.MiddleName != "" {
		parts = append(parts, e.MiddleName)
	}
	parts = append(parts, e.LastName)
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (e Employee) DepartmentName() string {
	if e.Department == nil {
		return ""
	}
	return e.Department.Name
}

// EffectiveHourlyRate prefers the explicit hourly rate and otherwise derives
// it from the monthly salary. A missing salary yields zero.
func (e Employee) EffectiveHourlyRate(hoursPerDay, daysPerMonth int) decimal.Decimal {
	if e.HourlyRate.IsPositive() {
		return e.HourlyRate.Round(4)
	}
	if !e.Salary.IsPositive() || hoursPerDay <= 0 || daysPerMonth <= 0 {
		return decimal.Zero
	}
	return e.Salary.Div(decimal.NewFromInt(int64(hoursPerDay * daysPerMonth))).Round(4)
}
