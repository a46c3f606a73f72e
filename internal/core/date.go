package core

import (
	"fmt"
	"time"
)

// Date is a naive calendar date: year, month and day with no time-of-day or
// timezone component. It wraps a time.Time pinned to midnight UTC so that the
// standard library's calendar arithmetic (AddDate, month rollover) is available
// without any risk of host-timezone drift.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month (1-12).
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the date n months after d. Month overflow resolves by
// native calendar rollover: Jan 31 + 1 month lands on Mar 2 (or Mar 3 in a
// non-leap year), matching time.Time.AddDate normalization.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.Time.AddDate(0, n, 0)}
}

// AddYears returns the date n years after d, with the same rollover rule.
func (d Date) AddYears(n int) Date {
	return Date{Time: d.Time.AddDate(n, 0, 0)}
}

// DaysUntil returns the signed number of days from d to other.
// Negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// IsZero reports whether d is the zero date (used for optional dates).
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
