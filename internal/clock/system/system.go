// Package system provides the wall clock that stamps refreshed laws.
package system

import "time"

// Clock implements law.Clock. Stored updated_at values only compare
// correctly across restarts when every writer uses the same zone, so
// readings are always normalized to UTC.
type Clock struct{}

// New returns the service wall clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
