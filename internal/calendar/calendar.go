// Package calendar resolves calendar days and week bounds under the app-wide
// timezone policy. All day semantics are pinned to a fixed UTC-3 offset with
// no daylight-saving adjustment, so every user sees the same devotional and
// reading plan on the same real-world day regardless of device timezone.
package calendar

import (
	"fmt"
	"time"
)

// Zone is the fixed-offset policy zone. Never replaced by a location with
// DST rules; rollover happens at midnight UTC-3 everywhere.
var Zone = time.FixedZone("UTC-3", -3*60*60)

// Day is a pure (year, month, day) triple with no time component. It is the
// equality key against ContentUnit.AssignedDate.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf converts an instant into the policy day containing it.
func DayOf(t time.Time) Day {
	y, m, d := t.In(Zone).Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation("2006-01-02", s, Zone)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// String renders the day as YYYY-MM-DD, the storage format for assigned dates.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Start returns midnight of the day in the policy zone.
func (d Day) Start() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, Zone)
}

// Weekday returns the weekday of the day under the policy zone.
func (d Day) Weekday() time.Weekday {
	return d.Start().Weekday()
}

// WeekdayOf re-evaluates an instant's weekday in the policy zone. Stored
// timestamps must pass through here before weekly bucketing; using the raw
// timestamp's zone shifts completions near midnight into the wrong day.
func WeekdayOf(t time.Time) time.Weekday {
	return t.In(Zone).Weekday()
}

// WeekBounds is the inclusive Sunday-to-Saturday span containing a day,
// from 00:00:00.000 Sunday to 23:59:59.999 Saturday in the policy zone.
type WeekBounds struct {
	Start time.Time
	End   time.Time
}

// WeekBoundsFor computes the week span containing d.
func WeekBoundsFor(d Day) WeekBounds {
	start := d.Start().AddDate(0, 0, -int(d.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return WeekBounds{Start: start, End: end}
}

// Contains reports whether an instant falls within the span, inclusive of
// both endpoints.
func (b WeekBounds) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}

// Resolver computes "today" from a clock. Nothing is cached across calls, so
// a long-lived session observes day rollover (and clock adjustments) on the
// next call.
type Resolver struct {
	Now func() time.Time
}

func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

// Today resolves the current policy day from the current instant.
func (r *Resolver) Today() Day {
	return DayOf(r.Now())
}

// ThisWeek resolves the week bounds containing today.
func (r *Resolver) ThisWeek() WeekBounds {
	return WeekBoundsFor(r.Today())
}
