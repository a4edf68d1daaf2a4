// Package countdown provides time-until-target math and display formatting,
// shared by the schedule engine and free-standing countdown displays.
package countdown

import (
	"fmt"
	"time"
)

// Format renders a remaining duration as HH:MM:SS when it is an hour or
// more, else MM:SS. The caller is responsible for clamping negative values;
// Format is a pure formatter and does not re-clamp.
func Format(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Compute returns the signed time from now until target and whether the
// target is already in the past. Callers render past targets as an
// "expired N days ago" message rather than a countdown.
func Compute(now, target time.Time) (time.Duration, bool) {
	remaining := target.Sub(now)
	return remaining, remaining < 0
}

// DaysPast returns how many whole days ago target was, relative to now.
// Only meaningful when Compute reported the target as past.
func DaysPast(now, target time.Time) int {
	if !target.Before(now) {
		return 0
	}
	return int(now.Sub(target).Hours() / 24)
}
