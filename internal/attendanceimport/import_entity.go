package attendanceimport

import (
	"time"

	"go-payroll/internal/attendance"
)

// Period is the reporting range announced by an "Attendance date:" row.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) SingleDay() bool {
	return p.Start.Equal(p.End)
}

// Candidate is one parsed employee-day waiting to be persisted.
type Candidate struct {
	Line          int                  `json:"line"`
	RawEmployeeID string               `json:"raw_employee_id"`
	EmployeeID    int64                `json:"employee_id"`
	Name          string               `json:"name"`
	Department    string               `json:"department,omitempty"`
	Date          time.Time            `json:"date"`
	ClockIn       attendance.TimeOfDay `json:"clock_in"`
	ClockOut      attendance.TimeOfDay `json:"clock_out"`
	Matched       bool                 `json:"matched"`
}

type ParseResult struct {
	Period       *Period     `json:"period,omitempty"`
	Candidates   []Candidate `json:"candidates"`
	TotalRows    int         `json:"total_rows"`
	BlankRows    int         `json:"blank_rows"`
	BannerRows   int         `json:"banner_rows"`
	SkippedRows  int         `json:"skipped_rows"`
	InvalidTimes int         `json:"invalid_times"`
}

// Preview is what Confirm persists. It is stored in Redis until it expires.
type Preview struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	FileName  string      `json:"file_name"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
	Result    ParseResult `json:"result"`
}

type PreviewResult struct {
	PreviewID   string      `json:"preview_id"`
	FileName    string      `json:"file_name"`
	ExpiresAt   time.Time   `json:"expires_at"`
	Period      *Period     `json:"period,omitempty"`
	Matched     int         `json:"matched"`
	Unmatched   int         `json:"unmatched"`
	SkippedRows int         `json:"skipped_rows"`
	Candidates  []Candidate `json:"candidates"`
}

type ImportOutcome struct {
	Inserted            int         `json:"inserted"`
	Duplicates          int         `json:"duplicates"`
	Unmatched           int         `json:"unmatched"`
	Failed              int         `json:"failed"`
	SkippedRows         int         `json:"skipped_rows"`
	UnmatchedCandidates []Candidate `json:"unmatched_candidates"`
}

type PreviewRequest struct {
	FileName string   `json:"file_name"`
	Rows     []string `json:"rows" binding:"required,min=1"`
}
