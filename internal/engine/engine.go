// Package engine computes residency statistics on top of a classified timeline:
// the exact leap-year-aware day requirement and progress for the in-UK and
// total scenarios.
//
// "Today" comes from an injected Clock. A completion date is projected only
// for as-of dates that are not after today, so tests pin the clock instead of
// depending on the wall time.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/timeline"
)

var (
	// ErrZeroRequirement is returned instead of dividing by a zero requirement.
	ErrZeroRequirement = errors.New(config.ErrZeroRequirement)

	ErrInvalidMonth    = errors.New(config.ErrInvalidMonth)
	ErrUnknownScenario = errors.New(config.ErrUnknownScenario)
)

// Engine is a read-only view over a timeline. It does not validate: whatever
// the timeline and the classifiers enforced is what it reports on.
type Engine struct {
	tl       *timeline.Timeline
	cfg      config.Residency
	clock    Clock
	required int
}

// New computes the requirement once. A nil clock falls back to RealClock.
func New(tl *timeline.Timeline, clock Clock) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	cfg := tl.Config()
	return &Engine{
		tl:       tl,
		cfg:      cfg,
		clock:    clock,
		required: RequiredDays(cfg.FirstEntry(), cfg.ObjectiveYears),
	}
}

// RequiredDays walks years anniversaries forward from firstEntry and sums the
// exact length of each year. A Feb 29 entry uses Feb 28 in non-leap years.
func RequiredDays(firstEntry time.Time, years int) int {
	entry := day.Normalize(firstEntry)

	total := 0
	for i := 0; i < years; i++ {
		from := day.Anniversary(entry, i)
		if i == 0 {
			from = entry
		}
		to := day.Anniversary(entry, i+1)
		total += day.DaysBetween(from, to)
	}
	return total
}

// Required returns the exact number of qualifying days needed.
func (e *Engine) Required() int { return e.required }

// RequirementInfo describes how the requirement was derived.
// TargetCompletion is the objective anniversary of first entry;
// PlanningCompletion adds the processing buffer on top of it.
type RequirementInfo struct {
	ObjectiveYears        int
	ProcessingBufferYears int
	FirstEntry            time.Time
	DaysRequired          int
	AverageDaysPerYear    float64
	Method                string
	TargetCompletion      time.Time
	PlanningCompletion    time.Time
}

// RequirementInfo returns the requirement details. The average is zero when
// no objective is configured.
func (e *Engine) RequirementInfo() RequirementInfo {
	entry := e.cfg.FirstEntry()
	info := RequirementInfo{
		ObjectiveYears:        e.cfg.ObjectiveYears,
		ProcessingBufferYears: e.cfg.ProcessingBufferYears,
		FirstEntry:            entry,
		DaysRequired:          e.required,
		Method:                config.RequirementMethod,
		TargetCompletion:      day.Anniversary(entry, e.cfg.ObjectiveYears),
		PlanningCompletion:    day.Anniversary(entry, e.cfg.ObjectiveYears+e.cfg.ProcessingBufferYears),
	}
	if e.cfg.ObjectiveYears > 0 {
		info.AverageDaysPerYear = float64(e.required) / float64(e.cfg.ObjectiveYears)
	}
	return info
}

// Counts splits days into mutually exclusive buckets relative to first entry.
// TotalDays is always InUKDays + ShortTripDays. UncoveredResidenceDays are
// days in the UK without visa coverage; they count in neither scenario.
type Counts struct {
	InUKDays               int
	ShortTripDays          int
	TotalDays              int
	LongTripDays           int
	PreEntryDays           int
	UncoveredResidenceDays int
}

func (e *Engine) count(days []day.Day) Counts {
	entry := e.cfg.FirstEntry()

	var c Counts
	for i := range days {
		d := &days[i]
		switch {
		case d.CountsAsInUK(entry):
			c.InUKDays++
		case d.CountsAsUncovered(entry):
			c.UncoveredResidenceDays++
		case d.CountsAsShortTrip(entry):
			c.ShortTripDays++
		case d.CountsAsLongTrip(entry):
			c.LongTripDays++
		case d.Date.Before(entry):
			c.PreEntryDays++
		}
	}
	c.TotalDays = c.InUKDays + c.ShortTripDays
	return c
}

// CountsTotal counts the whole window.
func (e *Engine) CountsTotal() Counts {
	start, end := e.tl.Range()
	return e.count(e.tl.DaysInRange(start, end))
}

// CountsForMonth counts one month; out-of-range months are all zero.
func (e *Engine) CountsForMonth(year int, month time.Month) Counts {
	return e.count(e.tl.DaysInMonth(year, month))
}

// CountsForYear counts one year.
func (e *Engine) CountsForYear(year int) Counts {
	return e.count(e.tl.DaysInYear(year))
}

// CountsForRange counts [start, end].
func (e *Engine) CountsForRange(start, end time.Time) Counts {
	return e.count(e.tl.DaysInRange(start, end))
}

// DaysSinceEntry counts asOf and first entry inclusively; zero before entry.
func (e *Engine) DaysSinceEntry(asOf time.Time) int {
	return max(0, day.DaysBetween(e.cfg.FirstEntry(), asOf)+1)
}

func checkMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	return nil
}
