package factory

import (
	"time"

	"github.com/mcoot/betgate/internal/dependencies/mocks"
	"github.com/mcoot/betgate/internal/storage"
	"github.com/mcoot/betgate/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an in-memory App with a mocked clock
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage creates an App over store with a mocked clock
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	return &TestApp{
		App:       newWithDependencies(store, mockClock),
		MockClock: mockClock,
	}
}
