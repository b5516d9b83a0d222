package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Appy-Anand/obeta-project/internal/domain/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Week numbering is Monday-first: days before a year's first Monday are week 00.
func TestWeekLabel(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"mid-year wednesday", date(2011, time.June, 1), "2011_22"},
		{"sunday before first monday", date(2017, time.January, 1), "2017_00"},
		{"first monday of the year", date(2017, time.January, 2), "2017_01"},
		{"leap year mid-july", date(2020, time.July, 15), "2020_28"},
		{"end of year", date(2011, time.December, 31), "2011_52"},
		{"monday start of week 01", date(2018, time.January, 1), "2018_01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, calendar.WeekLabel(tc.in))
		})
	}
}

func TestNewDay_Labels(t *testing.T) {
	d := calendar.NewDay(date(2015, time.August, 9))

	assert.Equal(t, 2015, d.Year)
	assert.Equal(t, "2015_08", d.Month)
	assert.Equal(t, "2015_Q3", d.Quarter)
	assert.Equal(t, "2015_H2", d.YearHalf)
}

func TestNewDay_HalfBoundaries(t *testing.T) {
	assert.Equal(t, "2019_H1", calendar.NewDay(date(2019, time.June, 30)).YearHalf)
	assert.Equal(t, "2019_H2", calendar.NewDay(date(2019, time.July, 1)).YearHalf)
	assert.Equal(t, "2019_Q2", calendar.NewDay(date(2019, time.June, 30)).Quarter)
	assert.Equal(t, "2019_Q3", calendar.NewDay(date(2019, time.July, 1)).Quarter)
}

func TestDays_InclusiveRange(t *testing.T) {
	days, err := calendar.Days(date(2011, time.June, 1), date(2011, time.June, 3))
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, date(2011, time.June, 1), days[0].Date)
	assert.Equal(t, date(2011, time.June, 3), days[2].Date)
}

func TestDays_SingleDay(t *testing.T) {
	days, err := calendar.Days(date(2020, time.July, 15), date(2020, time.July, 15))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2020_28", days[0].Week)
}

func TestDays_EndBeforeStart(t *testing.T) {
	_, err := calendar.Days(date(2020, time.July, 15), date(2011, time.June, 1))
	assert.Error(t, err)
}
