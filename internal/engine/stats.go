package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Progress tracks one scenario against the requirement.
type Progress struct {
	Completed  int
	Required   int
	Remaining  int
	Percentage float64 // capped at 100
	Complete   bool

	// Target is asOf + Remaining days, assuming uninterrupted qualifying
	// residence and ignoring known future trips. Zero when complete or when
	// asOf is in the future.
	Target time.Time
}

// HasTarget reports whether a completion date was projected.
func (p Progress) HasTarget() bool { return !p.Target.IsZero() }

// DaysOverRequirement is negative while the requirement is not met.
func (p Progress) DaysOverRequirement() int { return p.Completed - p.Required }

func (e *Engine) progress(completed int, asOf time.Time) (Progress, error) {
	if e.required == 0 {
		return Progress{}, ErrZeroRequirement
	}

	p := Progress{
		Completed:  completed,
		Required:   e.required,
		Remaining:  max(0, e.required-completed),
		Percentage: min(config.MaxPercentage, float64(completed)/float64(e.required)*100),
		Complete:   completed >= e.required,
	}

	if !p.Complete && !asOf.After(today(e.clock)) {
		p.Target = day.AddDays(asOf, p.Remaining)
	}
	return p, nil
}

// Statistics is a snapshot for an as-of date.
type Statistics struct {
	Counts

	InUK  Progress // UK residence days only
	Total Progress // UK residence plus short trips

	AsOf           time.Time
	FirstEntry     time.Time
	DaysSinceEntry int
}

// Scenario returns the progress for config.ScenarioInUK or config.ScenarioTotal.
func (s Statistics) Scenario(name string) (Progress, error) {
	switch name {
	case config.ScenarioInUK:
		return s.InUK, nil
	case config.ScenarioTotal:
		return s.Total, nil
	default:
		return Progress{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
}

// GlobalStatistics counts from first entry up to asOf, or the whole window
// when asOf is on or after its last day.
func (e *Engine) GlobalStatistics(asOf time.Time) (Statistics, error) {
	asOf = day.Normalize(asOf)
	entry := e.cfg.FirstEntry()

	var counts Counts
	if _, end := e.tl.Range(); !asOf.Before(end) {
		counts = e.CountsTotal()
	} else {
		counts = e.CountsForRange(entry, asOf)
	}

	inUK, err := e.progress(counts.InUKDays, asOf)
	if err != nil {
		return Statistics{}, err
	}
	total, err := e.progress(counts.TotalDays, asOf)
	if err != nil {
		return Statistics{}, err
	}

	return Statistics{
		Counts:         counts,
		InUK:           inUK,
		Total:          total,
		AsOf:           asOf,
		FirstEntry:     entry,
		DaysSinceEntry: e.DaysSinceEntry(asOf),
	}, nil
}

// MonthlyStatistics is the cumulative snapshot at the last day of the month.
func (e *Engine) MonthlyStatistics(year int, month time.Month) (Statistics, error) {
	if err := checkMonth(month); err != nil {
		return Statistics{}, err
	}
	_, last := day.MonthBounds(year, month)
	return e.GlobalStatistics(last)
}

// YearlyStatistics is the cumulative snapshot at December 31st.
func (e *Engine) YearlyStatistics(year int) (Statistics, error) {
	_, last := day.YearBounds(year)
	return e.GlobalStatistics(last)
}

// Summary holds display strings for a Statistics snapshot.
type Summary struct {
	InUKProgress   string
	TotalProgress  string
	DaysSinceEntry string
	InUKRemaining  string
	TotalRemaining string
	InUKTarget     string
	TotalTarget    string
}

// ProgressSummary renders s with grouped thousands ("1,234 / 1,827 days (67.5%)").
func ProgressSummary(s Statistics) Summary {
	p := message.NewPrinter(language.BritishEnglish)

	progress := func(pr Progress) string {
		return p.Sprintf(config.FormatProgress, pr.Completed, pr.Required, pr.Percentage)
	}
	remaining := func(pr Progress, done string) string {
		if pr.Complete {
			return done
		}
		return p.Sprintf(config.FormatDaysLeft, pr.Remaining)
	}
	target := func(pr Progress) string {
		if !pr.HasTarget() {
			return config.TextNotAvailable
		}
		return pr.Target.Format(config.DateFormatInput)
	}

	return Summary{
		InUKProgress:   progress(s.InUK),
		TotalProgress:  progress(s.Total),
		DaysSinceEntry: p.Sprintf(config.FormatSinceEntry, s.DaysSinceEntry),
		InUKRemaining:  remaining(s.InUK, config.TextInUKComplete),
		TotalRemaining: remaining(s.Total, config.TextTotalComplete),
		InUKTarget:     target(s.InUK),
		TotalTarget:    target(s.Total),
	}
}
