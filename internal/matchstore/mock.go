package matchstore

import (
	"sync"

	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/planner"
	"github.com/mauv0809/touchline/internal/validator"
)

// MockStore is a mock implementation of the MatchStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertLogFunc        func(matchID, teamID, opponent string, events []matchlog.Event) error
	GetLogFunc           func(matchID string) ([]matchlog.Event, error)
	GetMatchFunc         func(matchID string) (*MatchRecord, error)
	GetMatchesFunc       func(teamID string) ([]MatchRecord, error)
	MarkFinalizedFunc    func(matchID string) error
	SaveRecordedTimeFunc func(matchID string, recorded map[string]validator.RecordedSeconds) error
	GetRecordedTimeFunc  func(matchID string) (map[string]validator.RecordedSeconds, error)
	SavePlanProgressFunc func(progress planner.PlanProgress) error
	GetPlanProgressFunc  func(teamID string) (*planner.PlanProgress, error)
	GetBlobFunc          func(key string) (string, bool)
	SetBlobFunc          func(key, value string) error
	ClearFunc            func()
	ClearMatchFunc       func(matchID string)

	// Call records
	UpsertLogCalls []struct {
		MatchID  string
		TeamID   string
		Opponent string
		Events   []matchlog.Event
	}
	MarkFinalizedCalls    []string
	SaveRecordedTimeCalls []struct {
		MatchID  string
		Recorded map[string]validator.RecordedSeconds
	}
	SavePlanProgressCalls []planner.PlanProgress
	SetBlobCalls          []struct {
		Key   string
		Value string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertLog(matchID, teamID, opponent string, events []matchlog.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertLogCalls = append(m.UpsertLogCalls, struct {
		MatchID  string
		TeamID   string
		Opponent string
		Events   []matchlog.Event
	}{matchID, teamID, opponent, events})
	if m.UpsertLogFunc != nil {
		return m.UpsertLogFunc(matchID, teamID, opponent, events)
	}
	return nil
}

func (m *MockStore) GetLog(matchID string) ([]matchlog.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetLogFunc != nil {
		return m.GetLogFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) GetMatch(matchID string) (*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) GetMatches(teamID string) ([]MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesFunc != nil {
		return m.GetMatchesFunc(teamID)
	}
	return nil, nil
}

func (m *MockStore) MarkFinalized(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkFinalizedCalls = append(m.MarkFinalizedCalls, matchID)
	if m.MarkFinalizedFunc != nil {
		return m.MarkFinalizedFunc(matchID)
	}
	return nil
}

func (m *MockStore) SaveRecordedTime(matchID string, recorded map[string]validator.RecordedSeconds) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveRecordedTimeCalls = append(m.SaveRecordedTimeCalls, struct {
		MatchID  string
		Recorded map[string]validator.RecordedSeconds
	}{matchID, recorded})
	if m.SaveRecordedTimeFunc != nil {
		return m.SaveRecordedTimeFunc(matchID, recorded)
	}
	return nil
}

func (m *MockStore) GetRecordedTime(matchID string) (map[string]validator.RecordedSeconds, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRecordedTimeFunc != nil {
		return m.GetRecordedTimeFunc(matchID)
	}
	return map[string]validator.RecordedSeconds{}, nil
}

func (m *MockStore) SavePlanProgress(progress planner.PlanProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavePlanProgressCalls = append(m.SavePlanProgressCalls, progress)
	if m.SavePlanProgressFunc != nil {
		return m.SavePlanProgressFunc(progress)
	}
	return nil
}

func (m *MockStore) GetPlanProgress(teamID string) (*planner.PlanProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlanProgressFunc != nil {
		return m.GetPlanProgressFunc(teamID)
	}
	return nil, nil
}

func (m *MockStore) GetBlob(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetBlobFunc != nil {
		return m.GetBlobFunc(key)
	}
	return "", false
}

func (m *MockStore) SetBlob(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetBlobCalls = append(m.SetBlobCalls, struct {
		Key   string
		Value string
	}{key, value})
	if m.SetBlobFunc != nil {
		return m.SetBlobFunc(key, value)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearMatchFunc != nil {
		m.ClearMatchFunc(matchID)
	}
}
