package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveDateRangeToday(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)

	rng := ResolveDateRange(PeriodToday, "", "", now)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, now, rng.To)
}

func TestResolveDateRangeWeek(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	rng := ResolveDateRange(PeriodWeek, "", "", now)

	assert.Equal(t, time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, now, rng.To)
}

func TestResolveDateRangeMonth(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	rng := ResolveDateRange(PeriodMonth, "", "", now)

	// AddDate normalizes Feb 31 forward rather than failing.
	assert.Equal(t, now.AddDate(0, -1, 0), rng.From)
	assert.Equal(t, now, rng.To)
}

func TestResolveDateRangeCustom(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rng := ResolveDateRange(PeriodCustom, "2024-01-01", "2024-01-01", now)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, time.Date(2024, 1, 1, 23, 59, 59, 999000000, time.UTC), rng.To)
}

func TestResolveDateRangeCustomSpansDays(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rng := ResolveDateRange(PeriodCustom, "2024-02-28", "2024-03-01", now)

	assert.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999000000, time.UTC), rng.To)
}

func TestResolveDateRangeFallsBackToMonth(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	wantFrom := now.AddDate(0, -1, 0)

	cases := []struct {
		name      string
		period    string
		startDate string
		endDate   string
	}{
		{name: "unrecognized period", period: "fortnight"},
		{name: "empty period", period: ""},
		{name: "custom without dates", period: PeriodCustom},
		{name: "custom missing end", period: PeriodCustom, startDate: "2024-01-01"},
		{name: "custom malformed start", period: PeriodCustom, startDate: "01/01/2024", endDate: "2024-01-31"},
		{name: "custom malformed end", period: PeriodCustom, startDate: "2024-01-01", endDate: "not-a-date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := ResolveDateRange(tc.period, tc.startDate, tc.endDate, now)
			assert.Equal(t, wantFrom, rng.From)
			assert.Equal(t, now, rng.To)
		})
	}
}
