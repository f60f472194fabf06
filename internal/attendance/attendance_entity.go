package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SourceManual = "MANUAL"
	SourceImport = "IMPORT"
)

// Record is one employee's attendance for one calendar day. Clock times are
// stored as HH:MM; status, hours and remarks are derived from them on write.
type Record struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID     int64           `gorm:"column:employee_id;not null;uniqueIndex:uq_attendance_employee_date,priority:1"`
	AttendanceDate time.Time       `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date,priority:2;index"`
	ClockIn        *string         `gorm:"column:clock_in;type:varchar(5)"`
	ClockOut       *string         `gorm:"column:clock_out;type:varchar(5)"`
	Status         string          `gorm:"column:status;type:varchar(10);not null"`
	WorkingHours   decimal.Decimal `gorm:"column:working_hours;type:numeric(6,2);not null;default:0"`
	OvertimeHours  decimal.Decimal `gorm:"column:overtime_hours;type:numeric(6,2);not null;default:0"`
	HolidayHours   decimal.Decimal `gorm:"column:holiday_hours;type:numeric(6,2);not null;default:0"`
	NightHours     decimal.Decimal `gorm:"column:night_hours;type:numeric(6,2);not null;default:0"`
	Source         string          `gorm:"column:source;type:varchar(10);not null;default:MANUAL"`
	Remarks        string          `gorm:"column:remarks;type:text"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}

func (r Record) ClockInTime() *TimeOfDay  { return storedTime(r.ClockIn) }
func (r Record) ClockOutTime() *TimeOfDay { return storedTime(r.ClockOut) }

func (r *Record) SetClockTimes(in, out *TimeOfDay) {
	r.ClockIn = formatOptionalTime(in)
	r.ClockOut = formatOptionalTime(out)
}

func storedTime(s *string) *TimeOfDay {
	t, err := parseOptionalTime(s)
	if err != nil {
		return nil
	}
	return t
}

// NewRecord builds a classified record for one day.
func NewRecord(shift Shift, employeeID int64, date time.Time, in, out *TimeOfDay, source string) Record {
	r := Record{
		ID:             uuid.New(),
		EmployeeID:     employeeID,
		AttendanceDate: DateOnly(date),
		Source:         source,
		OvertimeHours:  decimal.Zero,
		HolidayHours:   decimal.Zero,
		NightHours:     decimal.Zero,
	}
	r.SetClockTimes(in, out)
	shift.Apply(&r)
	return r
}

// HoursTotals sums the hour columns over a date range.
type HoursTotals struct {
	Days     int
	Working  decimal.Decimal
	Overtime decimal.Decimal
	Holiday  decimal.Decimal
	Night    decimal.Decimal
}

func (h HoursTotals) add(r Record) HoursTotals {
	h.Days++
	h.Working = h.Working.Add(r.WorkingHours)
	h.Overtime = h.Overtime.Add(r.OvertimeHours)
	h.Holiday = h.Holiday.Add(r.HolidayHours)
	h.Night = h.Night.Add(r.NightHours)
	return h
}
