package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/engine"
	"github.com/tartampluch/go-ilr/internal/export"
	"github.com/tartampluch/go-ilr/internal/money"
	"github.com/tartampluch/go-ilr/internal/timeline"
)

type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

var testNow = time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

func writeDataDir(t *testing.T, cfg string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		config.ConfigFileName: cfg,
		config.TripsFileName: `[
  {"id": "T1", "departure_date": "10-06-2023", "return_date": "20-06-2023", "from_airport": "LHR", "to_airport": "CDG"},
  {"id": "T2", "departure_date": "01-08-2023", "return_date": "20-08-2023"}
]`,
		config.VisaFileName: `[
  {"id": "V1", "label": "Skilled Worker", "start_date": "01-01-2023", "end_date": "31-12-2023", "gross_salary": "£32,400.00"},
  {"id": "V2", "label": "Skilled Worker (renewed)", "start_date": "01-01-2024", "end_date": "31-12-2024", "gross_salary": "£40,200.00"}
]`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

const residencyJSON = `{"start_year": 2023, "end_year": 2024, "first_entry_date": "01-06-2023", "objective_years": 5}`

// run executes the CLI against a fresh data directory and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newCLIAppWith(&env{out: &out, clock: MockClock{CurrentTime: testNow}, registry: &timeline.Registry{}})
	dir := writeDataDir(t, residencyJSON)
	err := app.RunContext(context.Background(), append([]string{"go-ilr", "--data", dir}, args...))
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	out, err := run(t, "--as-of", "31-12-2024", config.CmdStats)
	require.NoError(t, err)

	assert.Contains(t, out, "Requirement: 1827 days over 5 years")
	assert.Contains(t, out, "Target completion 01-06-2028, planning completion 01-06-2029 (1-year processing buffer)")
	assert.Contains(t, out, "As of 31-12-2024 (first entry 01-06-2023)")
	assert.Contains(t, out, "UK residence 549, short trips 11, long trips 20, pre-entry 151, uncovered residence 0")
	assert.Contains(t, out, "549 / 1,827 days")
	assert.Contains(t, out, "560 / 1,827 days")
	assert.Contains(t, out, "1,278 days remaining")
	assert.Contains(t, out, "580 days since first entry")
}

func TestStatsCommand_DefaultsToClock(t *testing.T) {
	out, err := run(t, config.CmdStats)
	require.NoError(t, err)
	assert.Contains(t, out, "As of 15-01-2025")
}

func TestMonthAndYearCommands(t *testing.T) {
	out, err := run(t, config.CmdMonth, "--year", "2023", "--month", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "June 2023 (01-06-2023 to 30-06-2023)")
	assert.Contains(t, out, "UK residence 19, short trips 11, long trips 0, pre-entry 0")

	out, err = run(t, config.CmdYear, "--year", "2023")
	require.NoError(t, err)
	assert.Contains(t, out, "2023 (01-01-2023 to 31-12-2023)")
	assert.Contains(t, out, "pre-entry 151")

	_, err = run(t, config.CmdMonth, "--year", "2023", "--month", "13")
	assert.ErrorIs(t, err, engine.ErrInvalidMonth)
}

func TestDayCommand(t *testing.T) {
	out, err := run(t, config.CmdDay, "--date", "15-06-2023")
	require.NoError(t, err)
	assert.Contains(t, out, "15-06-2023 Thursday: short_trip")
	assert.Contains(t, out, "trip T1 (short, 11 days, 10-06-2023 to 20-06-2023)")

	_, err = run(t, config.CmdDay, "--date", "01-01-2030")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside 01-01-2023 to 31-12-2024")

	_, err = run(t, config.CmdDay, "--date", "2023-06-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrArgument)
}

func TestCoverageAndTransitionsCommands(t *testing.T) {
	out, err := run(t, config.CmdCoverage)
	require.NoError(t, err)
	assert.Contains(t, out, "Coverage 731 / 731 days (100.0%), 2 periods")

	out, err = run(t, config.CmdTransitions)
	require.NoError(t, err)
	assert.Equal(t, "01-01-2024: Skilled Worker -> Skilled Worker (renewed), salary increase (+£7,800.00)\n", out)
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ilr.ics")

	out, err := run(t, "--as-of", "31-12-2024", config.CmdExport, "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 6 events to "+path)

	ics, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(ics), "BEGIN:VCALENDAR")
	assert.Contains(t, string(ics), "DTSTAMP:20250115T080000Z")

	out, err = run(t, "--as-of", "31-12-2024", config.CmdExport)
	require.NoError(t, err)
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestInvalidAsOf(t *testing.T) {
	_, err := run(t, "--as-of", "tomorrow", config.CmdStats)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--as-of")
}

func TestLoadResidency_SharesTimeline(t *testing.T) {
	reg := &timeline.Registry{}
	clock := MockClock{CurrentTime: testNow}

	first, err := loadResidency(writeDataDir(t, residencyJSON), reg, clock)
	require.NoError(t, err)
	second, err := loadResidency(writeDataDir(t, residencyJSON), reg, clock)
	require.NoError(t, err)
	assert.Same(t, first.timeline, second.timeline)

	wider := `{"start_year": 2023, "end_year": 2025, "first_entry_date": "01-06-2023", "objective_years": 5}`
	_, err = loadResidency(writeDataDir(t, wider), reg, clock)
	assert.ErrorIs(t, err, timeline.ErrRangeConflict)

	reg.Reset()
	_, err = loadResidency(writeDataDir(t, wider), reg, clock)
	assert.NoError(t, err)
}

func TestFeeds(t *testing.T) {
	r, err := loadResidency(writeDataDir(t, residencyJSON), &timeline.Registry{}, MockClock{CurrentTime: testNow})
	require.NoError(t, err)

	ics, summary, err := r.feeds(context.Background(), &export.Generator{Clock: MockClock{CurrentTime: testNow}}, testNow)
	require.NoError(t, err)
	assert.Contains(t, string(ics), "Projected completion")
	assert.Contains(t, string(summary), config.ScenarioLabelUK)
	assert.Contains(t, string(summary), "As of 15-01-2025")
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+£7,800.00", signed(money.FromPounds(7800, 0)))
	assert.Equal(t, "-£1,200.50", signed(-money.FromPounds(1200, 50)))
}
