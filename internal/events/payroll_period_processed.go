package events

import "time"

const (
	PayrollPeriodProcessedTopic = "payroll.period.processed.v1"
	PayrollPeriodProcessedType  = "payroll.period_processed"
)

type PayrollPeriodProcessedEvent struct {
	EventType   string    `json:"event_type"`
	PeriodID    string    `json:"period_id"`
	Processed   int       `json:"processed"`
	Absent      int       `json:"absent"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	ProcessedBy string    `json:"processed_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
