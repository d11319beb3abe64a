package mail

import "time"

// QuarterRange returns the UTC bounds of the calendar quarter containing now:
// the first day of the quarter at 00:00:00 through the last day at 23:59:59.
func QuarterRange(now time.Time) (start, end time.Time) {
	year := now.Year()
	quarter := (int(now.Month()) - 1) / 3

	startMonth := time.Month(quarter*3 + 1)
	endMonth := startMonth + 2

	start = time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the following month normalizes to the last day of endMonth,
	// which handles 30/31-day months and leap-year February.
	end = time.Date(year, endMonth+1, 0, 23, 59, 59, 0, time.UTC)
	return start, end
}
