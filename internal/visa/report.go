package visa

import (
	"math"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/money"
)

// SalaryChange classifies the salary movement across a transition.
type SalaryChange string

const (
	SalaryIncrease  SalaryChange = config.SalaryIncrease
	SalaryDecrease  SalaryChange = config.SalaryDecrease
	SalaryUnchanged SalaryChange = config.SalaryUnchanged
	SalaryUnknown   SalaryChange = config.SalaryUnknown
)

// CompareSalaries returns SalaryUnknown when either side has no salary.
func CompareSalaries(from Period, to Period) SalaryChange {
	switch {
	case !from.HasSalary || !to.HasSalary:
		return SalaryUnknown
	case to.Salary > from.Salary:
		return SalaryIncrease
	case to.Salary < from.Salary:
		return SalaryDecrease
	default:
		return SalaryUnchanged
	}
}

// Transition is the hand-over between two successive periods.
type Transition struct {
	From   Period
	To     Period
	Date   time.Time // first day of To
	Change SalaryChange
}

// Delta returns the salary difference, zero when unknown.
func (t Transition) Delta() money.Money {
	if t.Change == SalaryUnknown {
		return 0
	}
	return t.To.Salary - t.From.Salary
}

// Transitions lists successive period pairs in start order.
func (c *Classifier) Transitions() []Transition {
	if len(c.periods) < 2 {
		return nil
	}

	out := make([]Transition, 0, len(c.periods)-1)
	for i := 1; i < len(c.periods); i++ {
		from, to := c.periods[i-1], c.periods[i]
		out = append(out, Transition{
			From:   from,
			To:     to,
			Date:   to.Start,
			Change: CompareSalaries(from, to),
		})
	}
	return out
}

// Range is an inclusive span of dates.
type Range struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive length of the range.
func (r Range) Days() int {
	return day.SpanDays(r.Start, r.End)
}

// Coverage summarizes how much of the window the periods cover.
type Coverage struct {
	WindowStart     time.Time
	WindowEnd       time.Time
	TotalDays       int
	CoveredDays     int
	UncoveredDays   int
	Percentage      float64 // rounded to one decimal
	PeriodCount     int
	UncoveredRanges []Range
}

// Complete reports whether every day of the window is covered.
func (c Coverage) Complete() bool {
	return c.UncoveredDays == 0
}

// CoverageReport walks the window once and collects uncovered sub-ranges.
// It is a diagnostic; an incomplete coverage is not an error.
func (c *Classifier) CoverageReport() Coverage {
	total := day.SpanDays(c.windowStart, c.windowEnd)
	covered := len(c.byDate)

	r := Coverage{
		WindowStart:   c.windowStart,
		WindowEnd:     c.windowEnd,
		TotalDays:     total,
		CoveredDays:   covered,
		UncoveredDays: total - covered,
		PeriodCount:   len(c.periods),
	}
	if total > 0 {
		r.Percentage = math.Round(float64(covered)/float64(total)*1000) / 10
	}

	var open *Range
	for d := c.windowStart; !d.After(c.windowEnd); d = d.AddDate(0, 0, 1) {
		if _, ok := c.byDate[d]; !ok {
			if open == nil {
				open = &Range{Start: d}
			}
			continue
		}
		if open != nil {
			open.End = day.AddDays(d, -1)
			r.UncoveredRanges = append(r.UncoveredRanges, *open)
			open = nil
		}
	}
	if open != nil {
		open.End = c.windowEnd
		r.UncoveredRanges = append(r.UncoveredRanges, *open)
	}
	return r
}
