package storage

import (
	"fmt"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/trips"
	"github.com/tartampluch/go-ilr/internal/visa"
)

// DataSummary describes the loaded records in a few lines.
func DataSummary(tr []trips.Trip, periods []visa.Period) string {
	short, days := 0, 0
	for _, t := range tr {
		if t.IsShort {
			short++
		}
		days += t.LengthDays
	}

	s := fmt.Sprintf(config.FormatDataSummary, len(tr), short, len(tr)-short, days, len(periods))
	if len(tr) == 0 {
		return s + fmt.Sprintf(config.FormatDataRange, config.TextNotAvailable, config.TextNotAvailable)
	}

	first, last := tr[0].Departure, tr[0].Return
	for _, t := range tr[1:] {
		if t.Departure.Before(first) {
			first = t.Departure
		}
		if t.Return.After(last) {
			last = t.Return
		}
	}
	return s + fmt.Sprintf(config.FormatDataRange,
		first.Format(config.DateFormatInput), last.Format(config.DateFormatInput))
}
