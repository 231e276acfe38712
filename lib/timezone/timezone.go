package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Singapore")
	if err != nil {
		panic(err)
	}
}

// grant closing dates are published in Singapore time, so all
// calendar arithmetic (Year()/Month()/Day()) is done in that zone.
func Now() time.Time {
	return time.Now().In(Location)
}

// StartOfDay returns midnight of the day t falls on, in Location.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// DaysUntil counts the calendar days from `now` to `then`, rounding
// partial days up. A `then` earlier on the same day (or before) gives
// a result <= 0.
func DaysUntil(now, then time.Time) int {
	diff := then.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
