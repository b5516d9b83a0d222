// Package calendar builds the date dimension used by the curated star schema.
//
// Week labels follow Monday-first numbering where the days of a year before
// its first Monday fall into week 00. Order numbers recycle across years, so
// every downstream surrogate key and weekly aggregate depends on these labels
// being stable.
package calendar

import (
	"fmt"
	"time"
)

// Day is one row of the date dimension.
type Day struct {
	Date     time.Time
	Year     int
	Week     string // YYYY_WW, Monday-first, week 00 before the first Monday
	Month    string // YYYY_MM
	Quarter  string // YYYY_Qn
	YearHalf string // YYYY_Hn, H1 = Q1+Q2
}

// Days generates one Day per calendar date in [start, end], inclusive.
// Returns an error when end precedes start.
func Days(start, end time.Time) ([]Day, error) {
	start = truncate(start)
	end = truncate(end)
	if end.Before(start) {
		return nil, fmt.Errorf("calendar: end %s before start %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	var days []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, NewDay(d))
	}
	return days, nil
}

// NewDay derives all dimension labels for a single date.
func NewDay(t time.Time) Day {
	t = truncate(t)
	q := quarter(t)
	half := 1
	if q > 2 {
		half = 2
	}
	return Day{
		Date:     t,
		Year:     t.Year(),
		Week:     WeekLabel(t),
		Month:    fmt.Sprintf("%d_%02d", t.Year(), int(t.Month())),
		Quarter:  fmt.Sprintf("%d_Q%d", t.Year(), q),
		YearHalf: fmt.Sprintf("%d_H%d", t.Year(), half),
	}
}

// WeekLabel returns the YYYY_WW label of a date.
// WW counts Mondays: days before the year's first Monday are week 00.
func WeekLabel(t time.Time) string {
	yday := t.YearDay() - 1              // 0-based day of year
	wday := (int(t.Weekday()) + 6) % 7   // Monday = 0 .. Sunday = 6
	week := (yday + 7 - wday) / 7
	return fmt.Sprintf("%d_%02d", t.Year(), week)
}

func quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
