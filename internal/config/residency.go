package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned (wrapped) when Residency fails shape validation.
var ErrInvalid = errors.New(ErrInvalidConfig)

// Residency holds the scalar settings the residency core consumes.
// FirstEntryDate is a civil date; only its year, month and day are meaningful.
type Residency struct {
	StartYear             int
	EndYear               int
	FirstEntryDate        time.Time
	ObjectiveYears        int
	ProcessingBufferYears int
}

// DefaultResidency mirrors the defaults used when config.json omits a field.
func DefaultResidency() Residency {
	return Residency{
		StartYear:             DefaultStartYear,
		EndYear:               DefaultEndYear,
		ObjectiveYears:        DefaultObjectiveYears,
		ProcessingBufferYears: DefaultProcessingBufferYears,
	}
}

// Validate checks that the settings expose everything the timeline needs.
func (r Residency) Validate() error {
	switch {
	case r.StartYear == 0:
		return fmt.Errorf("%w: %s", ErrInvalid, ErrStartYearMissing)
	case r.EndYear == 0:
		return fmt.Errorf("%w: %s", ErrInvalid, ErrEndYearMissing)
	case r.EndYear < r.StartYear:
		return fmt.Errorf("%w: %s (%d < %d)", ErrInvalid, ErrEndBeforeStart, r.EndYear, r.StartYear)
	case r.FirstEntryDate.IsZero():
		return fmt.Errorf("%w: %s", ErrInvalid, ErrFirstEntryMissing)
	case r.ObjectiveYears < 0:
		return fmt.Errorf("%w: %s", ErrInvalid, ErrObjectiveNegative)
	case r.ProcessingBufferYears < 0:
		return fmt.Errorf("%w: %s", ErrInvalid, ErrBufferNegative)
	}

	entry := r.FirstEntry()
	if entry.Before(r.WindowStart()) || entry.After(r.WindowEnd()) {
		return fmt.Errorf("%w: %s (%s)", ErrInvalid, ErrFirstEntryOutside, entry.Format(DateFormatISO))
	}
	return nil
}

// FirstEntry returns the first entry date at UTC midnight.
func (r Residency) FirstEntry() time.Time {
	y, m, d := r.FirstEntryDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WindowStart is January 1st of StartYear.
func (r Residency) WindowStart() time.Time {
	return time.Date(r.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// WindowEnd is December 31st of EndYear.
func (r Residency) WindowEnd() time.Time {
	return time.Date(r.EndYear, time.December, 31, 0, 0, 0, 0, time.UTC)
}
