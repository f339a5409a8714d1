package mocks

import (
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/clock"
)

// MockClock is a Clock frozen at a settable instant. Tests advance it past a
// rest deadline instead of sleeping.
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock frozen at the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set moves the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
