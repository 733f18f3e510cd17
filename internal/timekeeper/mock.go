package timekeeper

// MockClock is a fixed clock for tests.
type MockClock struct {
	Millis int64
}

// NewMock creates a clock frozen at the given millisecond timestamp.
func NewMock(millis int64) *MockClock {
	return &MockClock{Millis: millis}
}

func (m *MockClock) NowMillis() int64 {
	return m.Millis
}
