// Package money holds salary amounts as integer pence so that comparisons never
// depend on re-parsing formatted strings.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tartampluch/go-ilr/internal/config"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalid is returned when a salary string cannot be parsed.
var ErrInvalid = errors.New(config.ErrInvalidSalary)

// maxPounds keeps pounds*100 + 99 inside int64.
const maxPounds = (math.MaxInt64 - 99) / config.PencePerPound

// Money is an amount of pounds sterling expressed in pence.
type Money int64

// FromPounds builds an amount from whole pounds and pence.
func FromPounds(pounds int64, pence int64) Money {
	return Money(pounds*config.PencePerPound + pence)
}

// Parse reads amounts such as "£32,400.00", "32400" or "£40,200.5".
// At most two decimal places are accepted.
func Parse(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, config.CurrencySymbol)
	raw = strings.ReplaceAll(raw, config.CurrencyThousands, "")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	whole, frac, hasFrac := strings.Cut(raw, config.CurrencyDecimalSep)
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	pounds, err := strconv.ParseUint(whole, 10, 63)
	if err != nil || pounds > maxPounds {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	var pence uint64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		if pence, err = strconv.ParseUint(frac, 10, 8); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
	}

	return FromPounds(int64(pounds), int64(pence)), nil
}

// Pounds returns the amount as a float, for display only.
func (m Money) Pounds() float64 {
	return float64(m) / config.PencePerPound
}

// String formats the amount as "£32,400.00".
func (m Money) String() string {
	p := message.NewPrinter(language.BritishEnglish)
	return config.CurrencySymbol + p.Sprintf("%.2f", m.Pounds())
}
