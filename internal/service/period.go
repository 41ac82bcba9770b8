package service

import "time"

// Named reporting periods accepted on the analytics endpoints.
const (
	PeriodToday  = "today"
	PeriodWeek   = "week"
	PeriodMonth  = "month"
	PeriodCustom = "custom"
)

const dateLayout = "2006-01-02"

// DateRange is a resolved reporting interval. From and To are inclusive;
// report queries compare bucket day stamps against both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ResolveDateRange turns a named period (or explicit custom dates) into a
// concrete interval. Anything unrecognized, including a custom period with
// missing or malformed dates, falls back to the last calendar month.
func ResolveDateRange(period, startDate, endDate string, now time.Time) DateRange {
	switch period {
	case PeriodToday:
		return DateRange{From: midnight(now), To: now}
	case PeriodWeek:
		return DateRange{From: now.AddDate(0, 0, -7), To: now}
	case PeriodMonth:
		return DateRange{From: now.AddDate(0, -1, 0), To: now}
	case PeriodCustom:
		if rng, ok := resolveCustom(startDate, endDate, now.Location()); ok {
			return rng
		}
	}
	return DateRange{From: now.AddDate(0, -1, 0), To: now}
}

func resolveCustom(startDate, endDate string, loc *time.Location) (DateRange, bool) {
	if startDate == "" || endDate == "" {
		return DateRange{}, false
	}
	start, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return DateRange{}, false
	}
	end, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return DateRange{}, false
	}
	// [start 00:00:00, end 23:59:59.999]
	return DateRange{
		From: start,
		To:   end.Add(24*time.Hour - time.Millisecond),
	}, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
