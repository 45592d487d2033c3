package timeslot

import (
	"iter"
	"time"

	"skillforge/internal/model"
)

// Candidates walks from start to end in steps of intervalMinutes and
// yields the half-open candidate ranges [t, t+interval). A window where
// end <= start yields nothing; that is not an error, the day simply has
// no room. intervalMinutes must be positive.
func Candidates(start, end, intervalMinutes int) []Range {
	if intervalMinutes <= 0 {
		return nil
	}
	var out []Range
	for t := start; t < end; t += intervalMinutes {
		out = append(out, Range{Start: t, End: t + intervalMinutes})
	}
	return out
}

// Anchors returns the lazy sequence of anchor dates for a recurrence
// rule, starting at from and never passing to. RecurrenceNone yields a
// single anchor. Monthly recurrence keeps the day-of-month of the first
// anchor and clamps to the last day of months that are too short, so
// Jan 31 advances to Feb 28 and then to Mar 31.
func Anchors(from, to time.Time, rule model.Recurrence) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		day := from.Day()
		cur := from
		for !cur.After(to) {
			if !yield(cur) {
				return
			}
			switch rule {
			case model.RecurrenceDaily:
				cur = cur.AddDate(0, 0, 1)
			case model.RecurrenceWeekly:
				cur = cur.AddDate(0, 0, 7)
			case model.RecurrenceMonthly:
				cur = nextMonthAnchor(cur, day)
			default:
				return
			}
		}
	}
}

// nextMonthAnchor moves to the same day-of-month in the following
// month, clamped to that month's length.
func nextMonthAnchor(cur time.Time, day int) time.Time {
	year, month, _ := cur.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	d := day
	if last := daysInMonth(month, year); d > last {
		d = last
	}
	return time.Date(year, month, d, 0, 0, 0, 0, cur.Location())
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
