package notifier

import "sync"

// Mock is a mock implementation of the Notifier interface for testing.
type Mock struct {
	mu sync.Mutex

	SendMatchSummaryFunc   func(summary MatchSummary, dryRun bool) error
	SendRecoveryNoticeFunc func(matchID string, salvagedEvents int, dryRun bool) error

	SendMatchSummaryCalls []struct {
		Summary MatchSummary
		DryRun  bool
	}
	SendRecoveryNoticeCalls []struct {
		MatchID        string
		SalvagedEvents int
		DryRun         bool
	}
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendMatchSummary(summary MatchSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchSummaryCalls = append(m.SendMatchSummaryCalls, struct {
		Summary MatchSummary
		DryRun  bool
	}{summary, dryRun})
	if m.SendMatchSummaryFunc != nil {
		return m.SendMatchSummaryFunc(summary, dryRun)
	}
	return nil
}

func (m *Mock) SendRecoveryNotice(matchID string, salvagedEvents int, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRecoveryNoticeCalls = append(m.SendRecoveryNoticeCalls, struct {
		MatchID        string
		SalvagedEvents int
		DryRun         bool
	}{matchID, salvagedEvents, dryRun})
	if m.SendRecoveryNoticeFunc != nil {
		return m.SendRecoveryNoticeFunc(matchID, salvagedEvents, dryRun)
	}
	return nil
}
