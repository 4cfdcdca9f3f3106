// Package timeline owns the classified day-by-day calendar over the residency
// window. Days are classified once at construction by consulting the trip and
// visa classifiers and can be adjusted afterwards through explicit updates.
package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/trips"
	"github.com/tartampluch/go-ilr/internal/visa"
)

var (
	// ErrInvalidConfig wraps every configuration shape error.
	ErrInvalidConfig = config.ErrInvalid

	ErrMissingClassifier = errors.New(config.ErrMissingClassifier)
	ErrUnclassifiedDays  = errors.New(config.ErrUnclassifiedDays)
)

// TripLookup is the trip view the timeline classifies against.
// *trips.Classifier implements it.
type TripLookup interface {
	IsShortTripDay(date time.Time) bool
	IsLongTripDay(date time.Time) bool
	Summary(date time.Time) trips.Summary
}

// VisaLookup is the coverage view the timeline classifies against.
// *visa.Classifier implements it.
type VisaLookup interface {
	IsCovered(date time.Time) bool
	Summary(date time.Time) visa.Summary
}

// Timeline holds one day per date of [StartYear-01-01, EndYear-12-31].
// It assumes a single writer.
type Timeline struct {
	cfg        config.Residency
	start      time.Time
	end        time.Time
	firstEntry time.Time
	days       []day.Day // days[i] is start + i days
}

// New generates and classifies every day of the window.
func New(cfg config.Residency, tripLookup TripLookup, visaLookup VisaLookup) (*Timeline, error) {
	if tripLookup == nil || visaLookup == nil {
		return nil, ErrMissingClassifier
	}

	t, err := NewUnclassified(cfg)
	if err != nil {
		return nil, err
	}

	for i := range t.days {
		d := &t.days[i]
		d.Classification = t.classify(d.Date, tripLookup, visaLookup)

		if ts := tripLookup.Summary(d.Date); ts.IsTripDay {
			d.Trip = ts.Info
		}
		if vs := visaLookup.Summary(d.Date); vs.Covered {
			d.Visa = vs.Info
		}
	}
	return t, nil
}

// NewUnclassified generates the window with every day UNKNOWN. It is meant for
// hosts that drive classification through updates and AutoClassify.
func NewUnclassified(cfg config.Residency) (*Timeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Timeline{
		cfg:        cfg,
		start:      cfg.WindowStart(),
		end:        cfg.WindowEnd(),
		firstEntry: cfg.FirstEntry(),
	}
	t.days = make([]day.Day, day.SpanDays(t.start, t.end))
	for i := range t.days {
		t.days[i] = *day.New(day.AddDays(t.start, i))
	}
	return t, nil
}

func (t *Timeline) classify(date time.Time, tl TripLookup, vl VisaLookup) day.Classification {
	switch {
	case date.Before(t.firstEntry):
		return day.PreEntry
	case tl.IsShortTripDay(date):
		return day.ShortTrip
	case tl.IsLongTripDay(date):
		return day.LongTrip
	case vl.IsCovered(date):
		return day.UKResidence
	default:
		return day.NoVisaCoverage
	}
}

func (t *Timeline) index(date time.Time) (int, bool) {
	i := day.DaysBetween(t.start, date)
	return i, i >= 0 && i < len(t.days)
}

// Config returns the settings the timeline was built from.
func (t *Timeline) Config() config.Residency { return t.cfg }

// FirstEntry returns the first entry date.
func (t *Timeline) FirstEntry() time.Time { return t.firstEntry }

// Range returns the first and last date of the window.
func (t *Timeline) Range() (time.Time, time.Time) { return t.start, t.end }

// TotalDays returns the number of days in the window.
func (t *Timeline) TotalDays() int { return len(t.days) }

// InRange reports whether date lies inside the window.
func (t *Timeline) InRange(date time.Time) bool {
	_, ok := t.index(date)
	return ok
}

// Day returns a copy of the day at date.
func (t *Timeline) Day(date time.Time) (day.Day, bool) {
	i, ok := t.index(date)
	if !ok {
		return day.Day{}, false
	}
	return t.days[i], true
}

// DaysInRange returns the days of [start, end] that lie inside the window.
func (t *Timeline) DaysInRange(start, end time.Time) []day.Day {
	lo, _ := t.index(start)
	hi, _ := t.index(end)
	lo = max(lo, 0)
	hi = min(hi, len(t.days)-1)
	if lo > hi {
		return nil
	}
	out := make([]day.Day, hi-lo+1)
	copy(out, t.days[lo:hi+1])
	return out
}

// DaysInMonth returns the days of the month, or nil when out of range.
func (t *Timeline) DaysInMonth(year int, month time.Month) []day.Day {
	if month < time.January || month > time.December {
		return nil
	}
	first, last := day.MonthBounds(year, month)
	return t.DaysInRange(first, last)
}

// DaysInYear returns the days of the year, or nil when out of range.
func (t *Timeline) DaysInYear(year int) []day.Day {
	first, last := day.YearBounds(year)
	return t.DaysInRange(first, last)
}

// DaysByClassification returns every day with classification c, in date order.
func (t *Timeline) DaysByClassification(c day.Classification) []day.Day {
	var out []day.Day
	for _, d := range t.days {
		if d.Classification == c {
			out = append(out, d)
		}
	}
	return out
}

// UpdateDay sets the classification of date. Non-nil annotations replace the
// existing ones. It returns false when date is outside the window or c is not
// a declared classification.
func (t *Timeline) UpdateDay(date time.Time, c day.Classification, tripInfo *day.TripInfo, visaInfo *day.VisaInfo) bool {
	if !c.Valid() {
		return false
	}
	i, ok := t.index(date)
	if !ok {
		return false
	}

	d := &t.days[i]
	d.Classification = c
	if tripInfo != nil {
		d.Trip = tripInfo
	}
	if visaInfo != nil {
		d.Visa = visaInfo
	}
	return true
}

// UpdateRange applies UpdateDay across [start, end] and returns how many days
// were updated.
func (t *Timeline) UpdateRange(start, end time.Time, c day.Classification, tripInfo *day.TripInfo, visaInfo *day.VisaInfo) int {
	n := 0
	for d := day.Normalize(start); !d.After(day.Normalize(end)); d = d.AddDate(0, 0, 1) {
		if t.UpdateDay(d, c, tripInfo, visaInfo) {
			n++
		}
	}
	return n
}

// ClassifyPreEntry marks UNKNOWN days before first entry as PRE_ENTRY and
// returns how many changed.
func (t *Timeline) ClassifyPreEntry() int {
	n := 0
	for i := range t.days {
		d := &t.days[i]
		if d.Date.Before(t.firstEntry) && d.Classification == day.Unknown {
			d.Classification = day.PreEntry
			n++
		}
	}
	return n
}

// AutoResult reports what AutoClassify changed.
type AutoResult struct {
	PreEntry    int
	UKResidence int
}

// Total returns the number of days AutoClassify changed.
func (r AutoResult) Total() int { return r.PreEntry + r.UKResidence }

// AutoClassify is the fallback used when no classifiers drove construction:
// remaining UNKNOWN days become PRE_ENTRY before first entry and UK_RESIDENCE
// from first entry on.
func (t *Timeline) AutoClassify() AutoResult {
	res := AutoResult{PreEntry: t.ClassifyPreEntry()}
	for i := range t.days {
		d := &t.days[i]
		if !d.Date.Before(t.firstEntry) && d.Classification == day.Unknown {
			d.Classification = day.UKResidence
			res.UKResidence++
		}
	}
	return res
}

// ValidateNoUnknown fails when any day is still UNKNOWN. Hosts must call it
// before trusting the timeline.
func (t *Timeline) ValidateNoUnknown() error {
	unknown := t.DaysByClassification(day.Unknown)
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d days, first %s", ErrUnclassifiedDays,
		len(unknown), unknown[0].Date.Format(config.DateFormatInput))
}
