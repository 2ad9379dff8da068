package utils

import "time"

// DateLayout is the YYYY-MM-DD form used by every date query parameter.
const DateLayout = "2006-01-02"

// FromUTCToTimezone converts utcTime to timezone, leaving it unchanged when
// the zone is unknown.
func FromUTCToTimezone(utcTime time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return utcTime
	}
	return utcTime.In(loc)
}

// DateParam formats t as a date query parameter; the zero time yields "".
func DateParam(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Today returns today's date parameter in UTC, matching how the clinic
// front end derives "today" for the schedule view.
func Today(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(DateLayout)
}
