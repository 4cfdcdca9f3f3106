// Package day defines the calendar day, the indivisible unit of the residency
// timeline, together with its classification and annotations.
package day

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/money"
)

// Classification is the closed set of day kinds.
type Classification string

const (
	PreEntry       Classification = "pre_entry"
	UKResidence    Classification = "uk_residence"
	ShortTrip      Classification = "short_trip"
	LongTrip       Classification = "long_trip"
	NoVisaCoverage Classification = "no_visa_coverage"
	Unknown        Classification = "unknown"
)

// Classifications lists every classification in display order.
var Classifications = []Classification{PreEntry, UKResidence, ShortTrip, LongTrip, NoVisaCoverage, Unknown}

// Valid reports whether c is one of the declared classifications.
func (c Classification) Valid() bool {
	switch c {
	case PreEntry, UKResidence, ShortTrip, LongTrip, NoVisaCoverage, Unknown:
		return true
	}
	return false
}

// TripInfo annotates a day that belongs to a trip.
type TripInfo struct {
	ID          string
	Type        string // config.TripTypeShort or config.TripTypeLong
	Departure   time.Time
	Return      time.Time
	LengthDays  int
	FromAirport string
	ToAirport   string
}

// Short reports whether the trip is under the long-trip threshold.
func (t TripInfo) Short() bool {
	return t.Type == config.TripTypeShort
}

// VisaInfo annotates a day covered by a visa period.
type VisaInfo struct {
	PeriodID     string
	Label        string
	Start        time.Time
	End          time.Time
	Salary       money.Money
	HasSalary    bool
	DaysInPeriod int
	DayNumber    int // 1-based position of the day inside the period
}

// Day is one date of the timeline.
type Day struct {
	Date           time.Time
	Classification Classification
	Trip           *TripInfo
	Visa           *VisaInfo
}

// New returns an unclassified day.
func New(date time.Time) *Day {
	return &Day{Date: Normalize(date), Classification: Unknown}
}

func (d *Day) Year() int { return d.Date.Year() }

func (d *Day) Month() time.Month { return d.Date.Month() }

func (d *Day) DayOfMonth() int { return d.Date.Day() }

func (d *Day) Weekday() time.Weekday { return d.Date.Weekday() }

// IsWeekend reports whether the day is a Saturday or Sunday.
func (d *Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// CountsAsInUK reports whether the day is a covered UK residence day on or
// after firstEntry. Days without visa coverage never count.
func (d *Day) CountsAsInUK(firstEntry time.Time) bool {
	return !d.Date.Before(Normalize(firstEntry)) && d.Classification == UKResidence
}

// CountsAsUncovered reports whether the day was spent in the UK without visa
// coverage on or after firstEntry. It is a diagnostic outside both scenarios.
func (d *Day) CountsAsUncovered(firstEntry time.Time) bool {
	return !d.Date.Before(Normalize(firstEntry)) && d.Classification == NoVisaCoverage
}

// CountsAsShortTrip reports whether the day is a short-trip day on or after firstEntry.
func (d *Day) CountsAsShortTrip(firstEntry time.Time) bool {
	return !d.Date.Before(Normalize(firstEntry)) && d.Classification == ShortTrip
}

// CountsAsTotal reports whether the day counts in the total scenario
// (residence plus short trips).
func (d *Day) CountsAsTotal(firstEntry time.Time) bool {
	return d.CountsAsInUK(firstEntry) || d.CountsAsShortTrip(firstEntry)
}

// CountsAsLongTrip reports whether the day is a long-trip day on or after firstEntry.
// Long-trip days are tracked but never count.
func (d *Day) CountsAsLongTrip(firstEntry time.Time) bool {
	return !d.Date.Before(Normalize(firstEntry)) && d.Classification == LongTrip
}

func (d *Day) String() string {
	return fmt.Sprintf("Day(%s, %s)", d.Date.Format(config.DateFormatInput), d.Classification)
}
