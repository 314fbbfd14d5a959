package services

import "time"

// The daily cycle runs on UTC calendar days.

func utcDayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func utcDayBounds(t time.Time) (start, end time.Time) {
	start = utcDayStart(t)
	return start, start.Add(24 * time.Hour)
}

func sameUTCDay(a, b time.Time) bool {
	return utcDayStart(a).Equal(utcDayStart(b))
}
