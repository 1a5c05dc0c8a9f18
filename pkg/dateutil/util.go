package dateutil

import "time"

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsYesterday reports whether prev falls on the calendar day immediately
// before now. The comparison is calendar-based, not 24h-exact.
func IsYesterday(prev, now time.Time) bool {
	return IsSameDay(prev, StartOfDay(now).AddDate(0, 0, -1))
}
