package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(t time.Time) *Resolver {
	return &Resolver{Now: func() time.Time { return t }}
}

func TestDayOf_FixedOffset(t *testing.T) {
	// 02:30 UTC is still the previous evening in UTC-3.
	instant := time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, Day{2024, time.March, 9}, DayOf(instant))

	// 03:00 UTC is exactly midnight UTC-3.
	assert.Equal(t, Day{2024, time.March, 10}, DayOf(time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)))
}

func TestDayOf_DeviceZoneIrrelevant(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	// Same instant expressed for a device in UTC+9 resolves the same day.
	instant := time.Date(2024, 3, 10, 11, 30, 0, 0, tokyo)
	assert.Equal(t, Day{2024, time.March, 9}, DayOf(instant))
}

func TestResolver_NoCachingAcrossRollover(t *testing.T) {
	now := time.Date(2024, 3, 10, 2, 59, 59, 0, time.UTC)
	r := &Resolver{Now: func() time.Time { return now }}

	assert.Equal(t, Day{2024, time.March, 9}, r.Today())
	now = now.Add(2 * time.Second)
	assert.Equal(t, Day{2024, time.March, 10}, r.Today(), "resolver must recompute on every call")
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, Day{2024, time.March, 9}, d)
	assert.Equal(t, "2024-03-09", d.String())

	_, err = ParseDay("03/09/2024")
	assert.Error(t, err)
}

func TestWeekBoundsFor(t *testing.T) {
	// March 9 2024 is a Saturday; its week runs Sunday March 3 through
	// Saturday March 9.
	b := WeekBoundsFor(Day{2024, time.March, 9})

	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, Zone), b.Start)
	assert.Equal(t, time.Date(2024, 3, 9, 23, 59, 59, int(999*time.Millisecond), Zone), b.End)
	assert.Equal(t, time.Sunday, b.Start.Weekday())
	assert.Equal(t, time.Saturday, b.End.Weekday())
}

func TestWeekBoundsFor_SundayIsOwnStart(t *testing.T) {
	b := WeekBoundsFor(Day{2024, time.March, 3})
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, Zone), b.Start)
}

func TestWeekBounds_ContainsInclusive(t *testing.T) {
	b := WeekBoundsFor(Day{2024, time.March, 9})

	assert.True(t, b.Contains(b.Start))
	assert.True(t, b.Contains(b.End))
	assert.False(t, b.Contains(b.Start.Add(-time.Millisecond)))
	assert.False(t, b.Contains(b.End.Add(time.Millisecond)))
}

func TestWeekdayOf_PolicyZoneBucketing(t *testing.T) {
	// 2024-03-10T02:30:00Z is late evening of Saturday March 9 in UTC-3.
	// Bucketing by the raw UTC timestamp would (wrongly) land on Sunday.
	instant := time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Saturday, WeekdayOf(instant))
}

func TestResolver_ThisWeek(t *testing.T) {
	r := fixed(time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC))
	b := r.ThisWeek()
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, Zone), b.Start)
}
