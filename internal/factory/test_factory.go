package factory

import (
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/mocks"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/status"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage/memory"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, status.DefaultConfig(), 0, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
