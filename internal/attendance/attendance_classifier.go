package attendance

import (
	"fmt"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/config"

	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
)

// Shift is the working window clock times are classified against.
type Shift struct {
	Start          TimeOfDay
	End            TimeOfDay
	LunchThreshold decimal.Decimal // hours worked above which lunch is deducted
	LunchBreak     decimal.Decimal
}

// DefaultShift is 08:00-17:00 with a one hour lunch once more than four hours are worked.
func DefaultShift() Shift {
	return Shift{
		Start:          NewTimeOfDay(8, 0),
		End:            NewTimeOfDay(17, 0),
		LunchThreshold: decimal.NewFromInt(4),
		LunchBreak:     decimal.NewFromInt(1),
	}
}

func NewShift(cfg config.AttendanceConfig) (Shift, error) {
	s := DefaultShift()
	if cfg.ShiftStart != "" {
		t, err := ParseTimeOfDay(cfg.ShiftStart)
		if err != nil {
			return Shift{}, fmt.Errorf("attendance.shift_start: %w", err)
		}
		s.Start = t
	}
	if cfg.ShiftEnd != "" {
		t, err := ParseTimeOfDay(cfg.ShiftEnd)
		if err != nil {
			return Shift{}, fmt.Errorf("attendance.shift_end: %w", err)
		}
		s.End = t
	}
	if s.End <= s.Start {
		return Shift{}, attendanceerrors.ErrInvalidShift
	}
	if cfg.LunchThresholdHours.IsPositive() {
		s.LunchThreshold = cfg.LunchThresholdHours
	}
	if cfg.LunchBreakHours.IsPositive() {
		s.LunchBreak = cfg.LunchBreakHours
	}
	return s, nil
}

type Classification struct {
	Status       string
	WorkingHours decimal.Decimal
	Remarks      string
}

var minutesPerHour = decimal.NewFromInt(60)

// Classify derives status and billable hours for one day's clock times.
// Hours are counted inside the shift window only.
func (s Shift) Classify(in, out *TimeOfDay) Classification {
	if in == nil {
		return Classification{Status: StatusAbsent, WorkingHours: decimal.Zero}
	}

	c := Classification{Status: StatusPresent, WorkingHours: decimal.Zero}
	if *in > s.Start {
		c.Status = StatusLate
		c.Remarks = fmt.Sprintf("Late clock-in at %s", in.String())
	}

	if out == nil {
		return c
	}

	start := max(*in, s.Start)
	end := min(*out, s.End)
	if end <= start {
		return c
	}

	hours := decimal.NewFromInt(int64(end - start)).Div(minutesPerHour)
	if hours.GreaterThan(s.LunchThreshold) {
		hours = hours.Sub(s.LunchBreak)
	}
	c.WorkingHours = hours.Round(2)
	return c
}

// Classify applies the default shift.
func Classify(in, out *TimeOfDay) Classification {
	return DefaultShift().Classify(in, out)
}

// Apply reclassifies r from its stored clock times.
func (s Shift) Apply(r *Record) {
	c := s.Classify(r.ClockInTime(), r.ClockOutTime())
	r.Status = c.Status
	r.WorkingHours = c.WorkingHours
	r.Remarks = c.Remarks
}
