package attendanceimport

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-payroll/internal/attendance"
)

const (
	markerPeriod     = "Attendance date:"
	markerUserID     = "User ID:"
	markerName       = "Name:"
	markerDepartment = "Department:"

	// longest date range a single marker may expand to
	maxRangeDays = 62
)

var DefaultBannerMarkers = []string{
	"Attendance Record Report",
	"Attendance Report",
	"Tabling date:",
}

var (
	periodPattern    = regexp.MustCompile(`Attendance date:\s*(\d{4}-\d{2}-\d{2})\s*~\s*(\d{4}-\d{2}-\d{2})`)
	timePattern      = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)
	timeTokenPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	dayPattern       = regexp.MustCompile(`^(\d{1,2})(?:~(\d{1,2}))?$`)
	datePattern      = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:~(\d{4}-\d{2}-\d{2}))?$`)
	tildeSpaces      = regexp.MustCompile(`\s*~\s*`)
)

type ParseOptions struct {
	BannerMarkers []string
}

type state int

const (
	stateSeeking state = iota
	stateInEmployeeContext
	stateInDay
)

type eventKind int

const (
	eventBlankLine eventKind = iota
	eventBannerFound
	eventPeriodFound
	eventEmployeeFound
	eventDayFound
	eventTimesFound
	eventUnrecognized
)

type dayMarker struct {
	first, last string // day-of-month or YYYY-MM-DD; last is empty for a single day
	isDate      bool
}

type employeeMarker struct {
	rawID      string
	id         int64
	name       string
	department string
}

type event struct {
	kind     eventKind
	period   Period
	employee employeeMarker
	day      dayMarker
	times    []attendance.TimeOfDay
}

type pendingDay struct {
	line  int
	dates []time.Time
	times []attendance.TimeOfDay
}

type parser struct {
	banners  []string
	state    state
	period   *Period
	employee *employeeMarker
	day      *pendingDay
	result   ParseResult
}

// Parse scans a biometric export top to bottom. Rows that match no marker,
// or that arrive out of context, are counted and skipped.
func Parse(rows []string, opts ParseOptions) ParseResult {
	banners := opts.BannerMarkers
	if len(banners) == 0 {
		banners = DefaultBannerMarkers
	}

	p := &parser{banners: banners, state: stateSeeking}
	p.result.Candidates = []Candidate{}
	for i, row := range rows {
		p.result.TotalRows++
		p.handle(i+1, p.classify(row))
	}
	p.flushDay()
	return p.result
}

func (p *parser) classify(row string) event {
	trimmed := strings.TrimSpace(row)
	if trimmed == "" {
		return event{kind: eventBlankLine}
	}

	if strings.Contains(trimmed, markerPeriod) {
		m := periodPattern.FindStringSubmatch(trimmed)
		if m == nil {
			return event{kind: eventUnrecognized}
		}
		start, err1 := attendance.ParseDate(m[1])
		end, err2 := attendance.ParseDate(m[2])
		if err1 != nil || err2 != nil || end.Before(start) {
			return event{kind: eventUnrecognized}
		}
		return event{kind: eventPeriodFound, period: Period{Start: start, End: end}}
	}

	if strings.Contains(trimmed, markerUserID) && strings.Contains(trimmed, markerName) {
		return event{kind: eventEmployeeFound, employee: extractEmployee(trimmed)}
	}

	for _, b := range p.banners {
		if b != "" && strings.Contains(trimmed, b) {
			return event{kind: eventBannerFound}
		}
	}

	fields := strings.Fields(tildeSpaces.ReplaceAllString(trimmed, "~"))
	if marker, ok := matchDay(fields[0]); ok && allTimeTokens(fields[1:]) {
		return event{kind: eventDayFound, day: marker, times: p.parseTimes(strings.Join(fields[1:], " "))}
	}

	if timePattern.MatchString(trimmed) {
		return event{kind: eventTimesFound, times: p.parseTimes(trimmed)}
	}
	return event{kind: eventUnrecognized}
}

func (p *parser) parseTimes(s string) []attendance.TimeOfDay {
	var out []attendance.TimeOfDay
	for _, tok := range timePattern.FindAllString(s, -1) {
		t, err := attendance.ParseTimeOfDay(tok)
		if err != nil {
			p.result.InvalidTimes++
			continue
		}
		out = append(out, t)
	}
	return out
}

func (p *parser) handle(line int, ev event) {
	switch ev.kind {
	case eventBlankLine:
		p.result.BlankRows++

	case eventBannerFound:
		p.result.BannerRows++

	case eventUnrecognized:
		p.result.SkippedRows++

	case eventPeriodFound:
		p.flushDay()
		period := ev.period
		p.period = &period
		p.result.Period = &period
		if p.employee != nil {
			p.state = stateInEmployeeContext
		}

	case eventEmployeeFound:
		p.flushDay()
		emp := ev.employee
		p.employee = &emp
		p.state = stateInEmployeeContext

	case eventDayFound:
		if p.state == stateSeeking {
			p.result.SkippedRows++
			return
		}
		p.flushDay()
		dates := p.resolveDay(ev.day)
		if len(dates) == 0 {
			p.result.SkippedRows++
			p.state = stateInEmployeeContext
			return
		}
		p.day = &pendingDay{line: line, dates: dates, times: ev.times}
		p.state = stateInDay

	case eventTimesFound:
		if len(ev.times) == 0 {
			p.result.SkippedRows++
			return
		}
		switch p.state {
		case stateInDay:
			p.day.times = append(p.day.times, ev.times...)
		case stateInEmployeeContext:
			// without a day marker only a single-day report pins the date
			if p.period == nil || !p.period.SingleDay() {
				p.result.SkippedRows++
				return
			}
			p.day = &pendingDay{line: line, dates: []time.Time{p.period.Start}, times: ev.times}
			p.state = stateInDay
		default:
			p.result.SkippedRows++
		}
	}
}

// flushDay emits one candidate per date of the pending day: first token
// in, last token out.
func (p *parser) flushDay() {
	day := p.day
	p.day = nil
	if p.state == stateInDay {
		p.state = stateInEmployeeContext
	}
	if day == nil || p.employee == nil || len(day.times) == 0 {
		return
	}

	in := day.times[0]
	out := day.times[len(day.times)-1]
	for _, d := range day.dates {
		p.result.Candidates = append(p.result.Candidates, Candidate{
			Line:          day.line,
			RawEmployeeID: p.employee.rawID,
			EmployeeID:    p.employee.id,
			Name:          p.employee.name,
			Department:    p.employee.department,
			Date:          d,
			ClockIn:       in,
			ClockOut:      out,
		})
	}
}

func (p *parser) resolveDay(m dayMarker) []time.Time {
	if m.isDate {
		start, err := attendance.ParseDate(m.first)
		if err != nil {
			return nil
		}
		end := start
		if m.last != "" {
			if end, err = attendance.ParseDate(m.last); err != nil {
				return nil
			}
		}
		return expand(start, end)
	}

	if p.period == nil {
		return nil
	}
	first, _ := strconv.Atoi(m.first)
	start, ok := p.dayInPeriod(first, p.period.Start)
	if !ok {
		return nil
	}
	if m.last == "" {
		return []time.Time{start}
	}
	last, _ := strconv.Atoi(m.last)
	end, ok := p.dayInPeriod(last, start)
	if !ok {
		return nil
	}
	return expand(start, end)
}

// dayInPeriod finds the first date on or after from, inside the reporting
// period, whose day of month is day.
func (p *parser) dayInPeriod(day int, from time.Time) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	for d := from; !d.After(p.period.End); d = d.AddDate(0, 0, 1) {
		if d.Day() == day {
			return d, true
		}
	}
	return time.Time{}, false
}

func expand(start, end time.Time) []time.Time {
	if end.Before(start) || end.Sub(start) > maxRangeDays*24*time.Hour {
		return nil
	}
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func matchDay(token string) (dayMarker, bool) {
	if m := dayPattern.FindStringSubmatch(token); m != nil {
		return dayMarker{first: m[1], last: m[2]}, true
	}
	if m := datePattern.FindStringSubmatch(token); m != nil {
		return dayMarker{first: m[1], last: m[2], isDate: true}, true
	}
	return dayMarker{}, false
}

func allTimeTokens(fields []string) bool {
	for _, f := range fields {
		if !timeTokenPattern.MatchString(f) {
			return false
		}
	}
	return true
}

// extractEmployee reads the values that follow each marker up to the next
// marker on the row.
func extractEmployee(row string) employeeMarker {
	type pos struct {
		marker string
		at     int
	}
	var found []pos
	for _, m := range []string{markerUserID, markerName, markerDepartment} {
		if i := strings.Index(row, m); i >= 0 {
			found = append(found, pos{marker: m, at: i})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at < found[j].at })

	values := make(map[string]string, len(found))
	for i, f := range found {
		end := len(row)
		if i+1 < len(found) {
			end = found[i+1].at
		}
		values[f.marker] = strings.TrimSpace(row[f.at+len(f.marker) : end])
	}

	emp := employeeMarker{
		rawID:      values[markerUserID],
		name:       values[markerName],
		department: values[markerDepartment],
	}
	if id, err := strconv.ParseInt(emp.rawID, 10, 64); err == nil && id > 0 {
		emp.id = id
	}
	return emp
}
