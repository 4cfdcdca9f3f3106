// Package trips maps trips onto calendar dates and answers short/long-trip queries.
package trips

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
)

var (
	// ErrOverlap is returned when two trips claim the same date.
	ErrOverlap = errors.New(config.ErrTripOverlap)

	// ErrBeforeEntry is reported by Validate for trips departing before first entry.
	ErrBeforeEntry = errors.New(config.ErrTripBeforeEntry)
)

// Trip is a validated absence from the UK. Return is inclusive.
type Trip struct {
	ID          string
	Departure   time.Time
	Return      time.Time
	LengthDays  int
	IsShort     bool
	FromAirport string
	ToAirport   string
}

// NewTrip derives the inclusive length and the short-trip flag from the dates.
func NewTrip(id string, departure, ret time.Time, from, to string) Trip {
	length := day.SpanDays(departure, ret)
	return Trip{
		ID:          id,
		Departure:   day.Normalize(departure),
		Return:      day.Normalize(ret),
		LengthDays:  length,
		IsShort:     length < config.ShortTripMaxDays,
		FromAirport: from,
		ToAirport:   to,
	}
}

// Type returns config.TripTypeShort or config.TripTypeLong.
func (t Trip) Type() string {
	if t.IsShort {
		return config.TripTypeShort
	}
	return config.TripTypeLong
}

// Info converts the trip into the annotation attached to calendar days.
func (t Trip) Info() day.TripInfo {
	return day.TripInfo{
		ID:          t.ID,
		Type:        t.Type(),
		Departure:   t.Departure,
		Return:      t.Return,
		LengthDays:  t.LengthDays,
		FromAirport: t.FromAirport,
		ToAirport:   t.ToAirport,
	}
}

// Summary describes a date from the trip point of view. When IsTripDay is false,
// Classification is day.UKResidence and Info is nil.
type Summary struct {
	Classification day.Classification
	IsTripDay      bool
	Info           *day.TripInfo
}

// Classifier answers trip queries in constant time after construction.
type Classifier struct {
	trips  []Trip
	byDate map[time.Time]int // date -> index into trips
}

// NewClassifier maps every date of every trip. A date claimed by two trips is a
// data error and fails construction, naming both trips.
func NewClassifier(trips []Trip) (*Classifier, error) {
	c := &Classifier{
		trips:  make([]Trip, len(trips)),
		byDate: make(map[time.Time]int),
	}
	copy(c.trips, trips)

	for i := range c.trips {
		c.trips[i].Departure = day.Normalize(c.trips[i].Departure)
		c.trips[i].Return = day.Normalize(c.trips[i].Return)

		t := c.trips[i]
		for d := t.Departure; !d.After(t.Return); d = d.AddDate(0, 0, 1) {
			if prev, ok := c.byDate[d]; ok {
				return nil, fmt.Errorf("%w: %s claimed by %q and %q",
					ErrOverlap, d.Format(config.DateFormatInput), c.trips[prev].ID, t.ID)
			}
			c.byDate[d] = i
		}
	}
	return c, nil
}

// Trip returns the trip covering date, if any.
func (c *Classifier) Trip(date time.Time) (Trip, bool) {
	i, ok := c.byDate[day.Normalize(date)]
	if !ok {
		return Trip{}, false
	}
	return c.trips[i], true
}

// IsTripDay reports whether date falls inside any trip.
func (c *Classifier) IsTripDay(date time.Time) bool {
	_, ok := c.Trip(date)
	return ok
}

// IsShortTripDay reports whether date belongs to a trip shorter than 14 days.
func (c *Classifier) IsShortTripDay(date time.Time) bool {
	t, ok := c.Trip(date)
	return ok && t.IsShort
}

// IsLongTripDay reports whether date belongs to a trip of 14 days or more.
func (c *Classifier) IsLongTripDay(date time.Time) bool {
	t, ok := c.Trip(date)
	return ok && !t.IsShort
}

// Summary returns the full trip view of date.
func (c *Classifier) Summary(date time.Time) Summary {
	t, ok := c.Trip(date)
	if !ok {
		return Summary{Classification: day.UKResidence}
	}

	info := t.Info()
	class := day.LongTrip
	if t.IsShort {
		class = day.ShortTrip
	}
	return Summary{Classification: class, IsTripDay: true, Info: &info}
}

// Trips returns all trips in input order.
func (c *Classifier) Trips() []Trip {
	out := make([]Trip, len(c.trips))
	copy(out, c.trips)
	return out
}

// TripsInRange returns the trips intersecting [start, end].
func (c *Classifier) TripsInRange(start, end time.Time) []Trip {
	start, end = day.Normalize(start), day.Normalize(end)

	var out []Trip
	for _, t := range c.trips {
		if day.Overlaps(t.Departure, t.Return, start, end) {
			out = append(out, t)
		}
	}
	return out
}

// Validate re-checks business rules that the loader is expected to enforce.
// All problems are joined into one error.
func (c *Classifier) Validate(firstEntry time.Time) error {
	entry := day.Normalize(firstEntry)

	var errs []error
	for _, t := range c.trips {
		if t.Departure.Before(entry) {
			errs = append(errs, fmt.Errorf("%w: trip %q departs %s",
				ErrBeforeEntry, t.ID, t.Departure.Format(config.DateFormatInput)))
		}
	}
	return errors.Join(errs...)
}
