package main

import (
	"fmt"
	"io"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/engine"
	"github.com/tartampluch/go-ilr/internal/money"
	"github.com/tartampluch/go-ilr/internal/visa"
)

func date(t time.Time) string {
	return t.Format(config.DateFormatInput)
}

// writeStats prints the requirement, the counts and both scenarios.
func writeStats(w io.Writer, e *engine.Engine, s engine.Statistics) {
	info := e.RequirementInfo()
	fmt.Fprintf(w, config.OutRequirement, info.DaysRequired, info.ObjectiveYears, info.AverageDaysPerYear, info.Method)
	fmt.Fprintf(w, config.OutCompletion, date(info.TargetCompletion), date(info.PlanningCompletion), info.ProcessingBufferYears)
	fmt.Fprintf(w, config.OutAsOf, date(s.AsOf), date(s.FirstEntry))
	writeCounts(w, s.Counts)

	sum := engine.ProgressSummary(s)
	fmt.Fprintln(w, sum.DaysSinceEntry)
	fmt.Fprintf(w, config.OutScenario, config.ScenarioLabelUK, sum.InUKProgress, sum.InUKRemaining, sum.InUKTarget)
	fmt.Fprintf(w, config.OutScenario, config.ScenarioLabelTotal, sum.TotalProgress, sum.TotalRemaining, sum.TotalTarget)
}

// writePeriod prints the counts for one month or year followed by the
// cumulative statistics at its end.
func writePeriod(w io.Writer, e *engine.Engine, label string, start, end time.Time, counts engine.Counts, s engine.Statistics) {
	fmt.Fprintf(w, config.OutPeriod, label, date(start), date(end))
	writeCounts(w, counts)
	fmt.Fprintln(w)
	writeStats(w, e, s)
}

func writeCounts(w io.Writer, c engine.Counts) {
	fmt.Fprintf(w, config.OutCounts, c.InUKDays, c.ShortTripDays, c.LongTripDays, c.PreEntryDays, c.UncoveredResidenceDays)
}

func writeDay(w io.Writer, d day.Day) {
	fmt.Fprintf(w, config.OutDay, date(d.Date), d.Date.Weekday(), d.Classification)
	if t := d.Trip; t != nil {
		fmt.Fprintf(w, config.OutDayTrip, t.ID, t.Type, t.LengthDays, date(t.Departure), date(t.Return))
	}
	if v := d.Visa; v != nil {
		fmt.Fprintf(w, config.OutDayVisa, v.PeriodID, v.Label, v.DayNumber, v.DaysInPeriod)
	}
}

func writeCoverage(w io.Writer, c visa.Coverage) {
	fmt.Fprintf(w, config.OutCoverage, c.CoveredDays, c.TotalDays, c.Percentage, c.PeriodCount)
	for _, r := range c.UncoveredRanges {
		fmt.Fprintf(w, config.OutUncovered, date(r.Start), date(r.End), r.Days())
	}
}

func writeTransitions(w io.Writer, ts []visa.Transition) {
	for _, t := range ts {
		fmt.Fprintf(w, config.OutTransition, date(t.Date), t.From.Label, t.To.Label, t.Change)
		if t.Change != visa.SalaryUnknown && t.Change != visa.SalaryUnchanged {
			fmt.Fprintf(w, config.OutSalaryDelta, signed(t.Delta()))
		}
		fmt.Fprintln(w)
	}
}

// signed prefixes the amount with its sign.
func signed(m money.Money) string {
	if m < 0 {
		return "-" + (-m).String()
	}
	return "+" + m.String()
}
