package mocks

import (
	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/random"
)

// MockRandom replays canned values so tests can pin down generated share
// codes and match ids. Each method pops from its own queue and falls back to
// a zero value once the queue is drained.
type MockRandom struct {
	IntnResults []int
	intnIndex   int

	StringResults []string
	stringIndex   int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom with empty queues
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn pops the next queued int, or 0 when the queue is empty
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	v := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return v
}

// String pops the next queued string, or "" when the queue is empty
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	v := r.StringResults[r.stringIndex]
	r.stringIndex++
	return v
}

// QueueIntn appends values to the Intn queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueString appends values to the String queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// Reset drops both queues and rewinds their cursors
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.StringResults = nil
	r.stringIndex = 0
}
