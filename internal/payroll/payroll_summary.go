package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/money"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	GroupNone       = ""
	GroupDepartment = "department"
)

// Totals is a plain grouping over payroll records.
type Totals struct {
	Employees       int
	Processed       int
	Absent          int
	Paid            int
	GrossPay        decimal.Decimal
	Allowances      decimal.Decimal
	SocialInsurance decimal.Decimal
	HealthInsurance decimal.Decimal
	HousingFund     decimal.Decimal
	TaxWithheld     decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

func (t Totals) add(r Record) Totals {
	t.Employees++
	switch r.Status {
	case StatusProcessed:
		t.Processed++
	case StatusAbsent:
		t.Absent++
	case StatusPaid:
		t.Paid++
	}
	t.GrossPay = t.GrossPay.Add(r.GrossPay)
	t.Allowances = t.Allowances.Add(r.Allowances)
	t.SocialInsurance = t.SocialInsurance.Add(r.SocialInsurance)
	t.HealthInsurance = t.HealthInsurance.Add(r.HealthInsurance)
	t.HousingFund = t.HousingFund.Add(r.HousingFund)
	t.TaxWithheld = t.TaxWithheld.Add(r.TaxWithheld)
	t.OtherDeductions = t.OtherDeductions.Add(r.OtherDeductions)
	t.TotalDeductions = t.TotalDeductions.Add(r.TotalDeductions)
	t.NetPay = t.NetPay.Add(r.NetPay)
	return t
}

func (t Totals) response() TotalsResponse {
	return TotalsResponse{
		Employees:       t.Employees,
		Processed:       t.Processed,
		Absent:          t.Absent,
		Paid:            t.Paid,
		GrossPay:        fixed(money.Round(t.GrossPay)),
		Allowances:      fixed(money.Round(t.Allowances)),
		SocialInsurance: fixed(money.Round(t.SocialInsurance)),
		HealthInsurance: fixed(money.Round(t.HealthInsurance)),
		HousingFund:     fixed(money.Round(t.HousingFund)),
		TaxWithheld:     fixed(money.Round(t.TaxWithheld)),
		OtherDeductions: fixed(money.Round(t.OtherDeductions)),
		TotalDeductions: fixed(money.Round(t.TotalDeductions)),
		NetPay:          fixed(money.Round(t.NetPay)),
	}
}

// Summarize totals records for a period, optionally grouped by the
// department each employee belongs to. Employees missing from the registry
// fall into an unnamed group.
func Summarize(period Period, records []Record, employees map[int64]employee.Employee, group string) SummaryResponse {
	var all Totals
	type bucket struct {
		id     *int64
		name   string
		totals Totals
	}
	buckets := map[string]*bucket{}

	for _, r := range records {
		all = all.add(r)
		if group != GroupDepartment {
			continue
		}
		emp := employees[r.EmployeeID]
		key := "none"
		if emp.DepartmentID != nil {
			key = fmt.Sprintf("%d", *emp.DepartmentID)
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{id: emp.DepartmentID, name: emp.DepartmentName()}
			buckets[key] = b
		}
		b.totals = b.totals.add(r)
	}

	resp := SummaryResponse{
		PeriodID:   period.ID.String(),
		PeriodName: period.Name,
		StartDate:  formatDate(period.StartDate),
		EndDate:    formatDate(period.EndDate),
		Totals:     all.response(),
	}
	if group == GroupDepartment {
		resp.Departments = make([]DepartmentSummaryResponse, 0, len(buckets))
		for _, b := range buckets {
			resp.Departments = append(resp.Departments, DepartmentSummaryResponse{
				DepartmentID:   b.id,
				Department:     b.name,
				TotalsResponse: b.totals.response(),
			})
		}
		sort.Slice(resp.Departments, func(i, j int) bool {
			return resp.Departments[i].Department < resp.Departments[j].Department
		})
	}
	return resp
}

//go:generate mockgen -source=payroll_summary.go -destination=mock/payroll_summary_mock.go -package=mock
type SummaryCache interface {
	Get(ctx context.Context, periodID, group string) (*SummaryResponse, error)
	Set(ctx context.Context, periodID, group string, s SummaryResponse) error
	Invalidate(ctx context.Context, periodID string) error
}

type redisSummaryCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSummaryCache(rdb redis.Cmdable, ttl time.Duration) SummaryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisSummaryCache{rdb: rdb, ttl: ttl}
}

func summaryKey(periodID, group string) string {
	if group == GroupNone {
		group = "all"
	}
	return "payroll:summary:" + periodID + ":" + group
}

// Get returns nil without error on a cache miss.
func (c *redisSummaryCache) Get(ctx context.Context, periodID, group string) (*SummaryResponse, error) {
	raw, err := c.rdb.Get(ctx, summaryKey(periodID, group)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s SummaryResponse
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, periodID, group string, s SummaryResponse) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, summaryKey(periodID, group), payload, c.ttl).Err()
}

func (c *redisSummaryCache) Invalidate(ctx context.Context, periodID string) error {
	return c.rdb.Del(ctx, summaryKey(periodID, GroupNone), summaryKey(periodID, GroupDepartment)).Err()
}
