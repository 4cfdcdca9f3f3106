package engine

import (
	"time"

	"github.com/tartampluch/go-ilr/internal/day"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// today is the civil date of c.Now().
func today(c Clock) time.Time {
	return day.Normalize(c.Now())
}
