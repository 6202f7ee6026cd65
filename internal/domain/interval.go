package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

// Interval is a half-open range of nights [CheckIn, CheckOut).
// Both ends are UTC midnights.
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Day truncates t to its calendar day in UTC. The calendar date of t in its
// own location is kept, so 2024-05-01T23:30+06:00 stays 2024-05-01.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, s)
	}
	return t, nil
}

// NewInterval normalises both ends to day granularity and rejects stays of
// zero or negative nights.
func NewInterval(checkIn, checkOut time.Time) (Interval, error) {
	iv := Interval{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if !iv.CheckOut.After(iv.CheckIn) {
		return Interval{}, fmt.Errorf("%w: check-out %s must be after check-in %s",
			ErrInvalidInterval, iv.CheckOut.Format(DateLayout), iv.CheckIn.Format(DateLayout))
	}
	return iv, nil
}

// ParseInterval is NewInterval over two YYYY-MM-DD strings.
func ParseInterval(checkIn, checkOut string) (Interval, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return Interval{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(in, out)
}

// Overlaps reports whether a and b share at least one night.
// A check-out and a check-in on the same day do not overlap.
func Overlaps(a, b Interval) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

func (iv Interval) Overlaps(other Interval) bool {
	return Overlaps(iv, other)
}

// Contains reports whether the night starting on day falls inside iv.
func (iv Interval) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(iv.CheckIn) && d.Before(iv.CheckOut)
}

func (iv Interval) Nights() int {
	return int(iv.CheckOut.Sub(iv.CheckIn).Hours() / 24)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.CheckIn.Format(DateLayout), iv.CheckOut.Format(DateLayout))
}
