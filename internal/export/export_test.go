package export_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/engine"
	"github.com/tartampluch/go-ilr/internal/export"
	"github.com/tartampluch/go-ilr/internal/money"
	"github.com/tartampluch/go-ilr/internal/trips"
	"github.com/tartampluch/go-ilr/internal/visa"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func sampleInput() export.Input {
	return export.Input{
		Trips: []trips.Trip{
			trips.NewTrip("T1", day.Date(2023, 6, 10), day.Date(2023, 6, 20), "LHR", "CDG"),
			trips.NewTrip("T2", day.Date(2023, 8, 1), day.Date(2023, 8, 20), "", ""),
		},
		Periods: []visa.Period{{
			ID:        "V1",
			Label:     "Skilled Worker",
			Start:     day.Date(2023, 1, 1),
			End:       day.Date(2024, 12, 31),
			Salary:    money.FromPounds(32400, 0),
			HasSalary: true,
		}},
		Stats: &engine.Statistics{
			InUK:  engine.Progress{Target: day.Date(2028, 7, 1)},
			Total: engine.Progress{Complete: true},
		},
	}
}

func decodeEvents(t *testing.T, data []byte) map[string]ical.Event {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	bySummary := make(map[string]ical.Event)
	for _, e := range cal.Events() {
		summary, err := e.Props.Text(config.PropSummary)
		require.NoError(t, err)
		bySummary[summary] = e
	}
	return bySummary
}

func TestGenerate_Events(t *testing.T) {
	g := &export.Generator{Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}}

	data, n, err := g.Generate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 4, n, "two trips, one visa period, one target")

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "X-WR-CALNAME:"+config.ICalCalName)
	assert.Contains(t, ics, "DTSTAMP:20250101T120000Z")

	events := decodeEvents(t, data)
	require.Len(t, events, 4)

	short, ok := events["short trip T1 (11 days)"]
	require.True(t, ok)
	assert.Equal(t, "20230610", short.Props.Get(config.PropDTStart).Value)
	assert.Equal(t, "20230621", short.Props.Get(config.PropDTEnd).Value, "DTEND is exclusive")
	route, err := short.Props.Text(config.PropDescription)
	require.NoError(t, err)
	assert.Equal(t, "LHR → CDG", route)

	long, ok := events["long trip T2 (20 days)"]
	require.True(t, ok)
	assert.Nil(t, long.Props.Get(config.PropDescription), "no route, no description")

	visaEvent, ok := events["Visa: Skilled Worker"]
	require.True(t, ok)
	salary, err := visaEvent.Props.Text(config.PropDescription)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(salary, "Gross salary £"))

	target, ok := events["Projected completion (in_uk scenario)"]
	require.True(t, ok)
	assert.Equal(t, "20280701", target.Props.Get(config.PropDTStart).Value)
	_, ok = events["Projected completion (total scenario)"]
	assert.False(t, ok, "complete scenarios have no target")
}

func TestGenerate_EmptyReturnsStub(t *testing.T) {
	g := &export.Generator{Clock: MockClock{CurrentTime: time.Now()}}

	data, n, err := g.Generate(context.Background(), export.Input{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, config.StubVCalendar, string(data))
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := (&export.Generator{}).Generate(ctx, sampleInput())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUID_Deterministic(t *testing.T) {
	a := export.UID(config.CategoryTrip, "T1", day.Date(2023, 6, 10))
	b := export.UID(config.CategoryTrip, "T1", day.Date(2023, 6, 10))
	c := export.UID(config.CategoryTrip, "T1", day.Date(2023, 6, 11))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasSuffix(a, "@"+config.ICalDomain))
	assert.Len(t, strings.TrimSuffix(a, "@"+config.ICalDomain), config.UIDHashLength*2)
}
