// Package clock provides an abstraction for time operations to improve testability.
// Code that stamps verdicts or state files takes a Clock instead of calling
// time.Now() directly.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time, normalized to UTC.
type RealClock struct{}

// Now returns the current UTC time.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock that always returns the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
)
