package report

import "time"

type Period string

const (
	PeriodThisWeek  Period = "this_week"
	PeriodThisMonth Period = "this_month"
	PeriodLastMonth Period = "last_month"
	PeriodCustom    Period = "custom"
)

var ValidPeriods = []string{string(PeriodThisWeek), string(PeriodThisMonth), string(PeriodLastMonth), string(PeriodCustom)}

// DateRange bounds are inclusive. End is the last millisecond of the final day.
type DateRange struct {
	Period Period
	Start  time.Time
	End    time.Time
}

// ResolvePeriod turns a period name into a date range in now's location.
// Weeks start on Monday. Unknown periods resolve to the current month.
// Custom ranges use customStart and customEnd as whole days.
func ResolvePeriod(period Period, now time.Time, customStart, customEnd time.Time) DateRange {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch period {
	case PeriodThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return DateRange{Period: period, Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case PeriodLastMonth:
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start := firstOfThisMonth.AddDate(0, -1, 0)
		return DateRange{Period: period, Start: start, End: endOfDay(firstOfThisMonth.AddDate(0, 0, -1))}
	case PeriodCustom:
		start := time.Date(customStart.Year(), customStart.Month(), customStart.Day(), 0, 0, 0, 0, loc)
		end := time.Date(customEnd.Year(), customEnd.Month(), customEnd.Day(), 0, 0, 0, 0, loc)
		return DateRange{Period: period, Start: start, End: endOfDay(end)}
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return DateRange{Period: PeriodThisMonth, Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
	}
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Millisecond)
}
