// Package storage reads the JSON data directory (config.json, trips.json,
// visaPeriods.json), performs the per-record structural checks and hands
// typed records to the residency core.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/day"
	"github.com/tartampluch/go-ilr/internal/money"
	"github.com/tartampluch/go-ilr/internal/trips"
	"github.com/tartampluch/go-ilr/internal/visa"
)

var (
	ErrMissingField  = errors.New(config.ErrMissingField)
	ErrInvalidDate   = errors.New(config.ErrInvalidDate)
	ErrInvalidRecord = errors.New(config.ErrInvalidRecord)
	ErrNotArray      = errors.New(config.ErrNotArray)
)

// residencyFile mirrors config.json. Pointers tell a missing key from zero.
type residencyFile struct {
	StartYear             *int   `json:"start_year"`
	EndYear               *int   `json:"end_year"`
	FirstEntryDate        string `json:"first_entry_date"`
	ObjectiveYears        *int   `json:"objective_years"`
	ProcessingBufferYears *int   `json:"processing_buffer_years"`
}

type tripRecord struct {
	ID            string `json:"id"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	FromAirport   string `json:"from_airport"`
	ToAirport     string `json:"to_airport"`
}

type visaRecord struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	GrossSalary string `json:"gross_salary"`
}

// Data is everything loaded from a data directory.
type Data struct {
	Residency config.Residency
	Trips     []trips.Trip
	Periods   []visa.Period
}

// Loader reads files from a single data directory.
type Loader struct {
	Dir string
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// LoadAll reads and validates the three data files.
func (l *Loader) LoadAll() (Data, error) {
	cfg, err := l.LoadResidency()
	if err != nil {
		return Data{}, err
	}
	tr, err := l.LoadTrips(cfg)
	if err != nil {
		return Data{}, err
	}
	periods, err := l.LoadVisaPeriods(cfg)
	if err != nil {
		return Data{}, err
	}

	slog.Info(config.MsgDataLoaded,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyDataDir, l.Dir,
		config.LogKeyTrips, len(tr),
		config.LogKeyPeriods, len(periods),
	)
	return Data{Residency: cfg, Trips: tr, Periods: periods}, nil
}

// LoadResidency reads config.json. Missing keys keep their defaults; a missing
// file is an error since first_entry_date has no default.
func (l *Loader) LoadResidency() (config.Residency, error) {
	path := filepath.Join(l.Dir, config.ConfigFileName)

	var raw residencyFile
	if err := readJSON(path, &raw); err != nil {
		return config.Residency{}, err
	}

	cfg := config.DefaultResidency()
	if raw.StartYear != nil {
		cfg.StartYear = *raw.StartYear
	}
	if raw.EndYear != nil {
		cfg.EndYear = *raw.EndYear
	}
	if raw.ObjectiveYears != nil {
		cfg.ObjectiveYears = *raw.ObjectiveYears
	}
	if raw.ProcessingBufferYears != nil {
		cfg.ProcessingBufferYears = *raw.ProcessingBufferYears
	}
	if raw.FirstEntryDate != "" {
		entry, err := parseDate(raw.FirstEntryDate)
		if err != nil {
			return config.Residency{}, fmt.Errorf("%s: first_entry_date: %w", path, err)
		}
		cfg.FirstEntryDate = entry
	}

	if err := cfg.Validate(); err != nil {
		return config.Residency{}, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug(config.MsgConfigLoaded,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, path,
		config.LogKeyStart, cfg.StartYear,
		config.LogKeyEnd, cfg.EndYear,
	)
	return cfg, nil
}

// LoadTrips reads trips.json and checks every record against cfg.
func (l *Loader) LoadTrips(cfg config.Residency) ([]trips.Trip, error) {
	var records []tripRecord
	if err := readArray(filepath.Join(l.Dir, config.TripsFileName), &records); err != nil {
		return nil, err
	}

	out := make([]trips.Trip, 0, len(records))
	for i, r := range records {
		t, err := r.validate(cfg.FirstEntry())
		if err != nil {
			return nil, fmt.Errorf("%w: trip at index %d: %w", ErrInvalidRecord, i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// LoadVisaPeriods reads visaPeriods.json and checks every record against cfg.
func (l *Loader) LoadVisaPeriods(cfg config.Residency) ([]visa.Period, error) {
	var records []visaRecord
	if err := readArray(filepath.Join(l.Dir, config.VisaFileName), &records); err != nil {
		return nil, err
	}

	out := make([]visa.Period, 0, len(records))
	for i, r := range records {
		p, err := r.validate(cfg.WindowStart(), cfg.WindowEnd())
		if err != nil {
			return nil, fmt.Errorf("%w: visa period at index %d: %w", ErrInvalidRecord, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r tripRecord) validate(firstEntry time.Time) (trips.Trip, error) {
	if err := required(map[string]string{
		"id":             r.ID,
		"departure_date": r.DepartureDate,
		"return_date":    r.ReturnDate,
	}); err != nil {
		return trips.Trip{}, err
	}

	dep, err := parseDate(r.DepartureDate)
	if err != nil {
		return trips.Trip{}, fmt.Errorf("trip %q departure_date: %w", r.ID, err)
	}
	ret, err := parseDate(r.ReturnDate)
	if err != nil {
		return trips.Trip{}, fmt.Errorf("trip %q return_date: %w", r.ID, err)
	}

	if ret.Before(dep) {
		return trips.Trip{}, fmt.Errorf("trip %q: return_date must be >= departure_date", r.ID)
	}
	if dep.Before(firstEntry) {
		return trips.Trip{}, fmt.Errorf("trip %q: %w (%s < %s)", r.ID, trips.ErrBeforeEntry,
			r.DepartureDate, firstEntry.Format(config.DateFormatInput))
	}
	return trips.NewTrip(r.ID, dep, ret, r.FromAirport, r.ToAirport), nil
}

func (r visaRecord) validate(windowStart, windowEnd time.Time) (visa.Period, error) {
	if err := required(map[string]string{
		"id":         r.ID,
		"label":      r.Label,
		"start_date": r.StartDate,
		"end_date":   r.EndDate,
	}); err != nil {
		return visa.Period{}, err
	}

	start, err := parseDate(r.StartDate)
	if err != nil {
		return visa.Period{}, fmt.Errorf("visa period %q start_date: %w", r.ID, err)
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return visa.Period{}, fmt.Errorf("visa period %q end_date: %w", r.ID, err)
	}

	switch {
	case end.Before(start):
		return visa.Period{}, fmt.Errorf("visa period %q: end_date must be >= start_date", r.ID)
	case start.Before(windowStart):
		return visa.Period{}, fmt.Errorf("visa period %q: start_date %s is before timeline start %s",
			r.ID, r.StartDate, windowStart.Format(config.DateFormatInput))
	case end.After(windowEnd):
		return visa.Period{}, fmt.Errorf("visa period %q: end_date %s is beyond timeline end %s",
			r.ID, r.EndDate, windowEnd.Format(config.DateFormatInput))
	}

	p := visa.Period{ID: r.ID, Label: r.Label, Start: start, End: end}
	if strings.TrimSpace(r.GrossSalary) != "" {
		salary, err := money.Parse(r.GrossSalary)
		if err != nil {
			return visa.Period{}, fmt.Errorf("visa period %q: %w", r.ID, err)
		}
		p.Salary, p.HasSalary = salary, true
	}
	return p, nil
}

// required lists every empty field, sorted by name.
func required(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(config.DateFormatInput, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return day.Normalize(t), nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrReadFile, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %s: %w", config.ErrDecodeJSON, path, err)
	}
	return nil
}

// readArray decodes a file that must hold a JSON array.
func readArray(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrReadFile, err)
	}
	if trimmed := strings.TrimSpace(string(data)); !strings.HasPrefix(trimmed, "[") {
		return fmt.Errorf("%w: %s", ErrNotArray, path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %s: %w", config.ErrDecodeJSON, path, err)
	}
	return nil
}
