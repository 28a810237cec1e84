// Package tz pins the application's display time zone.
//
// Timestamps are persisted in UTC, but every user-facing rule (future-date
// rejection, day/month bucketing on the stats page) is evaluated against
// Japan time. A fixed offset is used instead of a tzdata lookup so behavior
// does not depend on the host's zone database.
package tz

import "time"

// JST is UTC+9. Japan has no daylight saving time.
var JST = time.FixedZone("JST", 9*60*60)

// Now returns the current moment in JST.
func Now() time.Time {
	return time.Now().In(JST)
}
