// Package visa maps visa sponsorship periods onto calendar dates and enforces
// that they tile the timeline window without gaps or overlaps.
package visa

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/money"
)

var (
	ErrOverlap       = errors.New(config.ErrPeriodOverlap)
	ErrGap           = errors.New(config.ErrPeriodGap)
	ErrDuplicateDate = errors.New(config.ErrDuplicateVisaDate)

	// Reported by Validate.
	ErrBeforeEntry     = errors.New(config.ErrPeriodBeforeEntry)
	ErrEntryNotCovered = errors.New(config.ErrEntryNotCovered)
)

// Period is one visa sponsorship period. End is inclusive.
type Period struct {
	ID        string
	Label     string
	Start     time.Time
	End       time.Time
	Salary    money.Money
	HasSalary bool
}

// DurationDays returns the inclusive length of the period.
func (p Period) DurationDays() int {
	return day.SpanDays(p.Start, p.End)
}

// Info builds the day annotation for date, which must lie inside the period.
func (p Period) Info(date time.Time) day.VisaInfo {
	return day.VisaInfo{
		PeriodID:     p.ID,
		Label:        p.Label,
		Start:        p.Start,
		End:          p.End,
		Salary:       p.Salary,
		HasSalary:    p.HasSalary,
		DaysInPeriod: p.DurationDays(),
		DayNumber:    day.DaysBetween(p.Start, date) + 1,
	}
}

// Summary describes a date from the visa point of view. Info is nil when the
// date is not covered.
type Summary struct {
	Covered bool
	Info    *day.VisaInfo
}

// Classifier answers coverage queries for dates inside the window.
type Classifier struct {
	periods     []Period // sorted by start
	byDate      map[time.Time]int
	windowStart time.Time
	windowEnd   time.Time
}

// NewClassifier sorts periods by start date and checks each adjacent pair for
// overlap, then for a gap intersecting [windowStart, windowEnd]. Only dates
// inside the window are mapped.
func NewClassifier(periods []Period, windowStart, windowEnd time.Time) (*Classifier, error) {
	c := &Classifier{
		periods:     make([]Period, len(periods)),
		byDate:      make(map[time.Time]int),
		windowStart: day.Normalize(windowStart),
		windowEnd:   day.Normalize(windowEnd),
	}
	copy(c.periods, periods)
	for i := range c.periods {
		c.periods[i].Start = day.Normalize(c.periods[i].Start)
		c.periods[i].End = day.Normalize(c.periods[i].End)
	}
	slices.SortStableFunc(c.periods, func(a, b Period) int {
		return a.Start.Compare(b.Start)
	})

	for i, p := range c.periods {
		if i > 0 {
			prev := c.periods[i-1]
			if !p.Start.After(prev.End) {
				return nil, fmt.Errorf("%w: %q starts %s but %q ends %s",
					ErrOverlap, p.ID, p.Start.Format(config.DateFormatInput),
					prev.ID, prev.End.Format(config.DateFormatInput))
			}
			expected := day.AddDays(prev.End, 1)
			if p.Start.After(expected) && !prev.End.Before(c.windowStart) && !p.Start.After(c.windowEnd) {
				return nil, fmt.Errorf("%w: %q ends %s but %q starts %s",
					ErrGap, prev.ID, prev.End.Format(config.DateFormatInput),
					p.ID, p.Start.Format(config.DateFormatInput))
			}
		}

		for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
			if d.Before(c.windowStart) || d.After(c.windowEnd) {
				continue
			}
			if prev, ok := c.byDate[d]; ok {
				return nil, fmt.Errorf("%w: %s claimed by %q and %q",
					ErrDuplicateDate, d.Format(config.DateFormatInput), c.periods[prev].ID, p.ID)
			}
			c.byDate[d] = i
		}
	}
	return c, nil
}

// Period returns the period covering date, if any.
func (c *Classifier) Period(date time.Time) (Period, bool) {
	i, ok := c.byDate[day.Normalize(date)]
	if !ok {
		return Period{}, false
	}
	return c.periods[i], true
}

// IsCovered reports whether date falls inside a visa period.
func (c *Classifier) IsCovered(date time.Time) bool {
	_, ok := c.byDate[day.Normalize(date)]
	return ok
}

// Label returns the label of the covering period.
func (c *Classifier) Label(date time.Time) (string, bool) {
	p, ok := c.Period(date)
	return p.Label, ok
}

// ID returns the id of the covering period.
func (c *Classifier) ID(date time.Time) (string, bool) {
	p, ok := c.Period(date)
	return p.ID, ok
}

// Salary returns the salary of the covering period. The second result is false
// when the date is uncovered or the period carries no salary.
func (c *Classifier) Salary(date time.Time) (money.Money, bool) {
	p, ok := c.Period(date)
	if !ok || !p.HasSalary {
		return 0, false
	}
	return p.Salary, true
}

// Summary returns the visa view of date, including its position in the period.
func (c *Classifier) Summary(date time.Time) Summary {
	p, ok := c.Period(date)
	if !ok {
		return Summary{}
	}
	info := p.Info(day.Normalize(date))
	return Summary{Covered: true, Info: &info}
}

// Periods returns all periods sorted by start date.
func (c *Classifier) Periods() []Period {
	return slices.Clone(c.periods)
}

// PeriodsInRange returns the periods intersecting [start, end].
func (c *Classifier) PeriodsInRange(start, end time.Time) []Period {
	start, end = day.Normalize(start), day.Normalize(end)

	var out []Period
	for _, p := range c.periods {
		if day.Overlaps(p.Start, p.End, start, end) {
			out = append(out, p)
		}
	}
	return out
}

// CurrentPeriod returns the period covering ref.
func (c *Classifier) CurrentPeriod(ref time.Time) (Period, bool) {
	return c.Period(ref)
}

// Validate reports periods ending before first entry and an uncovered first
// entry date. All problems are joined.
func (c *Classifier) Validate(firstEntry time.Time) error {
	entry := day.Normalize(firstEntry)

	var errs []error
	for _, p := range c.periods {
		if p.End.Before(entry) {
			errs = append(errs, fmt.Errorf("%w: period %q ends %s",
				ErrBeforeEntry, p.ID, p.End.Format(config.DateFormatInput)))
		}
	}
	if !c.IsCovered(entry) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrEntryNotCovered, entry.Format(config.DateFormatInput)))
	}
	return errors.Join(errs...)
}
