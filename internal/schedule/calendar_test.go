package schedule

import (
	"errors"
	"testing"

	"contas/internal/core"
)

func TestAddInterval(t *testing.T) {
	tests := []struct {
		name string
		date core.Date
		freq core.Frequency
		want core.Date
	}{
		{"monthly", core.NewDate(2024, 3, 10), core.Monthly, core.NewDate(2024, 4, 10)},
		{"bimonthly", core.NewDate(2024, 3, 10), core.Bimonthly, core.NewDate(2024, 5, 10)},
		{"quarterly", core.NewDate(2024, 3, 10), core.Quarterly, core.NewDate(2024, 6, 10)},
		{"semiannual", core.NewDate(2024, 3, 10), core.Semiannual, core.NewDate(2024, 9, 10)},
		{"annual", core.NewDate(2024, 3, 10), core.Annual, core.NewDate(2025, 3, 10)},
		{"monthly rollover from jan 31", core.NewDate(2024, 1, 31), core.Monthly, core.NewDate(2024, 3, 2)},
		{"monthly rollover from jan 31 non-leap", core.NewDate(2025, 1, 31), core.Monthly, core.NewDate(2025, 3, 3)},
		{"quarterly across year boundary", core.NewDate(2024, 11, 30), core.Quarterly, core.NewDate(2025, 3, 2)},
		{"annual from feb 29", core.NewDate(2024, 2, 29), core.Annual, core.NewDate(2025, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddInterval(tt.date, tt.freq)
			if err != nil {
				t.Fatalf("AddInterval() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("AddInterval(%s, %s) = %s, want %s", tt.date, tt.freq, got, tt.want)
			}
		})
	}
}

func TestAddInterval_InvalidFrequency(t *testing.T) {
	for _, freq := range []core.Frequency{"", "weekly", "month"} {
		if _, err := AddInterval(core.NewDate(2024, 3, 10), freq); !errors.Is(err, core.ErrInvalidFrequency) {
			t.Errorf("AddInterval(%q) error = %v, want ErrInvalidFrequency", freq, err)
		}
	}
}

func TestFifthBusinessDay(t *testing.T) {
	tests := []struct {
		name string
		date core.Date
		want core.Date
	}{
		{
			// Feb 1 2024 is a Thursday: 1 Thu, 2 Fri, 3-4 weekend, 5 Mon, 6 Tue, 7 Wed.
			name: "february 2024 counted from mid january",
			date: core.NewDate(2024, 1, 15),
			want: core.NewDate(2024, 2, 7),
		},
		{
			// Jun 1 2024 is a Saturday: first weekday is Mon the 3rd, fifth is Fri the 7th.
			name: "month starting on a saturday",
			date: core.NewDate(2024, 5, 20),
			want: core.NewDate(2024, 6, 7),
		},
		{
			// Sep 1 2024 is a Sunday: weekdays run Mon 2 .. Fri 6.
			name: "month starting on a sunday",
			date: core.NewDate(2024, 8, 7),
			want: core.NewDate(2024, 9, 6),
		},
		{
			// December input wraps into January of the next year.
			name: "year boundary",
			date: core.NewDate(2024, 12, 6),
			want: core.NewDate(2025, 1, 7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FifthBusinessDay(tt.date)
			if !got.Equal(tt.want) {
				t.Errorf("FifthBusinessDay(%s) = %s, want %s", tt.date, got, tt.want)
			}
		})
	}
}

func TestForFrequency(t *testing.T) {
	for _, freq := range []core.Frequency{core.Monthly, core.Bimonthly, core.Quarterly, core.Semiannual, core.Annual, core.FifthBusinessDay} {
		if _, err := ForFrequency(freq); err != nil {
			t.Errorf("ForFrequency(%s) error = %v", freq, err)
		}
	}
	if _, err := ForFrequency("daily"); !errors.Is(err, core.ErrInvalidFrequency) {
		t.Errorf("ForFrequency(daily) error = %v, want ErrInvalidFrequency", err)
	}
}
