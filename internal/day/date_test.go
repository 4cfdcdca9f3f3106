package day

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLeap(t *testing.T) {
	assert.True(t, IsLeap(2000))
	assert.True(t, IsLeap(2024))
	assert.False(t, IsLeap(1900))
	assert.False(t, IsLeap(2023))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(Date(2024, 1, 1), Date(2024, 1, 1)))
	assert.Equal(t, 366, DaysBetween(Date(2024, 1, 1), Date(2025, 1, 1)))
	assert.Equal(t, -1, DaysBetween(Date(2024, 1, 2), Date(2024, 1, 1)))
	assert.Equal(t, 11, SpanDays(Date(2023, 6, 10), Date(2023, 6, 20)))

	// Different clock times and locations on the same calendar dates.
	paris := time.FixedZone("CET", 3600)
	assert.Equal(t, 1, DaysBetween(time.Date(2024, 3, 30, 23, 0, 0, 0, paris), time.Date(2024, 3, 31, 1, 0, 0, 0, time.UTC)))
}

func TestMonthAndYearBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February)
	assert.Equal(t, Date(2024, 2, 1), first)
	assert.Equal(t, Date(2024, 2, 29), last)

	first, last = MonthBounds(2023, time.December)
	assert.Equal(t, Date(2023, 12, 1), first)
	assert.Equal(t, Date(2023, 12, 31), last)

	start, end := YearBounds(2023)
	assert.Equal(t, 365, SpanDays(start, end))
}

func TestAnniversary_LeapDay(t *testing.T) {
	leap := Date(2020, 2, 29)

	assert.Equal(t, Date(2021, 2, 28), Anniversary(leap, 1), "non-leap target falls back to Feb 28")
	assert.Equal(t, Date(2024, 2, 29), Anniversary(leap, 4), "leap target keeps Feb 29")
	assert.Equal(t, Date(2025, 3, 1), Anniversary(Date(2020, 3, 1), 5))
}

func TestOverlaps(t *testing.T) {
	a1, a2 := Date(2023, 6, 1), Date(2023, 6, 10)

	assert.True(t, Overlaps(a1, a2, Date(2023, 6, 10), Date(2023, 6, 20)), "shared end date")
	assert.True(t, Overlaps(a1, a2, Date(2023, 5, 1), Date(2023, 7, 1)), "containment")
	assert.False(t, Overlaps(a1, a2, Date(2023, 6, 11), Date(2023, 6, 20)))
	assert.Equal(t, Date(2023, 6, 11), AddDays(a2, 1))
}
