package clock

import "time"

// Clock abstracts the wall clock so rest deadlines and request timestamps can
// be controlled in tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time in UTC. Every timestamp the system stores or
// compares, rest expirations included, is UTC.
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
