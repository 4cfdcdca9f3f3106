// Package export renders trips, visa periods and projected completion dates as
// an iCalendar feed.
package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/engine"
	"github.com/tartampluch/go-ilr/internal/trips"
	"github.com/tartampluch/go-ilr/internal/visa"
)

// Input is the data rendered into the calendar. Stats is optional; without it
// no target events are emitted.
type Input struct {
	Trips   []trips.Trip
	Periods []visa.Period
	Stats   *engine.Statistics
}

// Generator builds ICS documents.
type Generator struct {
	Clock engine.Clock // stamps DTSTAMP
}

// Generate returns the encoded calendar and the number of events in it.
// An empty input yields a minimal valid VCALENDAR.
func (g *Generator) Generate(ctx context.Context, in Input) ([]byte, int, error) {
	start := time.Now()

	clock := g.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(clock.Now().UTC())

	var events []*ical.Event
	for _, t := range in.Trips {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		events = append(events, tripEvent(t))
	}
	for _, p := range in.Periods {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		events = append(events, visaEvent(p))
	}
	if in.Stats != nil {
		events = append(events, targetEvents(*in.Stats)...)
	}

	if len(events) == 0 {
		return []byte(config.StubVCalendar), 0, nil
	}

	for _, e := range events {
		e.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, e.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompExport,
		config.LogKeyEvents, len(events),
		config.LogKeySizeBytes, buf.Len(),
	)
	slog.Debug(config.MsgExportDone,
		config.LogKeyComponent, config.CompExport,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), len(events), nil
}

// UID derives a stable identifier so that clients update events in place
// across refreshes.
func UID(kind, key string, date time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, kind, key, date.Format(config.DateFormatISO))
	hash := sha256.Sum256([]byte(config.UIDSalt + input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

// allDay creates an event covering [first, last]; DTEND is exclusive.
func allDay(uid, summary, category string, first, last time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropCategories, category)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDate(first)
	event.Props.Set(dtStart)

	dtEnd := ical.NewProp(config.PropDTEnd)
	dtEnd.SetDate(day.AddDays(last, 1))
	event.Props.Set(dtEnd)

	return event
}

func tripEvent(t trips.Trip) *ical.Event {
	summary := fmt.Sprintf(config.FormatTripSummary, t.Type(), t.ID, t.LengthDays)
	e := allDay(UID(config.CategoryTrip, t.ID, t.Departure), summary, config.CategoryTrip, t.Departure, t.Return)
	if t.FromAirport != "" || t.ToAirport != "" {
		e.Props.SetText(config.PropDescription, fmt.Sprintf(config.FormatTripRoute, t.FromAirport, t.ToAirport))
	}
	return e
}

func visaEvent(p visa.Period) *ical.Event {
	summary := fmt.Sprintf(config.FormatVisaSummary, p.Label)
	e := allDay(UID(config.CategoryVisa, p.ID, p.Start), summary, config.CategoryVisa, p.Start, p.End)
	if p.HasSalary {
		e.Props.SetText(config.PropDescription, fmt.Sprintf(config.FormatVisaSalary, p.Salary))
	}
	return e
}

func targetEvents(s engine.Statistics) []*ical.Event {
	var out []*ical.Event
	for _, sc := range []struct {
		name string
		p    engine.Progress
	}{
		{config.ScenarioInUK, s.InUK},
		{config.ScenarioTotal, s.Total},
	} {
		if !sc.p.HasTarget() {
			continue
		}
		summary := fmt.Sprintf(config.FormatTargetSummary, sc.name)
		out = append(out, allDay(UID(config.CategoryTarget, sc.name, sc.p.Target), summary,
			config.CategoryTarget, sc.p.Target, sc.p.Target))
	}
	return out
}
