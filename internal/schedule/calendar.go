// Package schedule implements the temporal core of the tracker: calendar
// arithmetic for recurrence frequencies, due-date roll-forward, and
// due-status classification.
//
// Each frequency has its own Advancer that encapsulates the step from one
// due date to the next. All functions take "today" from the caller; nothing
// in this package reads the wall clock.
package schedule

import (
	"fmt"
	"time"

	"contas/internal/core"
)

// Advancer is the strategy interface for stepping a due date to the next
// occurrence of its frequency.
type Advancer interface {
	// Next returns the due date that follows d.
	Next(d core.Date) core.Date
}

// monthStep advances by a fixed number of calendar months. Month overflow
// resolves by native rollover (Jan 31 + 1 month lands in early March).
type monthStep struct {
	months int
}

func (s monthStep) Next(d core.Date) core.Date {
	return d.AddMonths(s.months)
}

// yearStep advances by one calendar year.
type yearStep struct{}

func (yearStep) Next(d core.Date) core.Date {
	return d.AddYears(1)
}

// fifthBusinessDayStep advances to the fifth business day of the month
// following d's month.
type fifthBusinessDayStep struct{}

func (fifthBusinessDayStep) Next(d core.Date) core.Date {
	return FifthBusinessDay(d)
}

// advancers maps frequencies to their step strategies. Unrecognized tags are
// an error: there is deliberately no fallback to monthly.
var advancers = map[core.Frequency]Advancer{
	core.Monthly:          monthStep{months: 1},
	core.Bimonthly:        monthStep{months: 2},
	core.Quarterly:        monthStep{months: 3},
	core.Semiannual:       monthStep{months: 6},
	core.Annual:           yearStep{},
	core.FifthBusinessDay: fifthBusinessDayStep{},
}

// ForFrequency returns the advancer for a frequency, or ErrInvalidFrequency
// for an unrecognized tag.
func ForFrequency(freq core.Frequency) (Advancer, error) {
	adv, ok := advancers[freq]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidFrequency, freq)
	}
	return adv, nil
}

// AddInterval returns the due date one frequency step after d.
func AddInterval(d core.Date, freq core.Frequency) (core.Date, error) {
	adv, err := ForFrequency(freq)
	if err != nil {
		return core.Date{}, err
	}
	return adv.Next(d), nil
}

// FifthBusinessDay returns the fifth weekday (Mon-Fri, no holiday calendar)
// of the month immediately following d's month, counting from the 1st.
func FifthBusinessDay(d core.Date) core.Date {
	day := core.NewDate(d.Year(), d.Month()+1, 1)
	count := 0
	for {
		wd := day.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
			if count == 5 {
				return day
			}
		}
		day = day.AddDays(1)
	}
}
