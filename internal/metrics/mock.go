package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
type Mock struct {
	mu sync.Mutex

	ReplaysCount           int
	ValidationIssuesCount  int
	RecoveriesCount        int
	ReconcilesCount        int
	FinalizeObservations   []float64
	NotifSentCount         int
	NotifFailedCount       int
	StartupTimeObservation float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncReplays() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaysCount++
}

func (m *Mock) IncValidationIssues(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationIssuesCount += count
}

func (m *Mock) IncRecoveries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecoveriesCount++
}

func (m *Mock) IncReconciles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReconcilesCount++
}

func (m *Mock) ObserveFinalizeDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FinalizeObservations = append(m.FinalizeObservations, duration)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifSentCount++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifFailedCount++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimeObservation = duration
}
