package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
)

func countDays(days []day.Day) day.Counts {
	var c day.Counts
	for _, d := range days {
		c.Add(d.Classification)
	}
	return c
}

// CountsTotal counts classifications across the whole window.
func (t *Timeline) CountsTotal() day.Counts { return countDays(t.days) }

// CountsForMonth counts classifications inside a month. Out-of-range months
// yield zero counts.
func (t *Timeline) CountsForMonth(year int, month time.Month) day.Counts {
	return countDays(t.DaysInMonth(year, month))
}

// CountsForYear counts classifications inside a year.
func (t *Timeline) CountsForYear(year int) day.Counts {
	return countDays(t.DaysInYear(year))
}

// CountsForRange counts classifications inside [start, end].
func (t *Timeline) CountsForRange(start, end time.Time) day.Counts {
	return countDays(t.DaysInRange(start, end))
}

// Progress is the classification progress attached to a debug summary.
type Progress struct {
	ClassifiedDays       int
	UnknownDays          int
	ClassifiedPercentage float64
	UnknownPercentage    float64
}

// Summary describes the classification state of a span of the timeline.
type Summary struct {
	Start       time.Time
	End         time.Time
	TotalDays   int
	Description string
	Counts      day.Counts
	Progress    *Progress // set only when requested
}

// Summary covers the whole window.
func (t *Timeline) Summary(withProgress bool) Summary {
	s := Summary{
		Start:       t.start,
		End:         t.end,
		TotalDays:   t.TotalDays(),
		Description: fmt.Sprintf(config.FormatRangeFull, t.start.Year(), t.end.Year()),
		Counts:      t.CountsTotal(),
	}
	if withProgress {
		s.Progress = newProgress(s.Counts)
	}
	return s
}

// RangeSummary covers [start, end]. TotalDays only counts days inside the window.
func (t *Timeline) RangeSummary(start, end time.Time, withProgress bool) Summary {
	start, end = day.Normalize(start), day.Normalize(end)
	counts := t.CountsForRange(start, end)

	s := Summary{
		Start:     start,
		End:       end,
		TotalDays: counts.Total(),
		Description: fmt.Sprintf(config.FormatRangeDates,
			start.Format(config.DateFormatInput), end.Format(config.DateFormatInput)),
		Counts: counts,
	}
	if withProgress {
		s.Progress = newProgress(counts)
	}
	return s
}

func newProgress(c day.Counts) *Progress {
	total := c.Total()
	p := &Progress{
		ClassifiedDays: total - c.Unknown,
		UnknownDays:    c.Unknown,
	}
	if total > 0 {
		unknown := float64(c.Unknown) / float64(total) * 100
		p.UnknownPercentage = math.Round(unknown*10) / 10
		p.ClassifiedPercentage = math.Round((100-unknown)*10) / 10
	}
	return p
}
