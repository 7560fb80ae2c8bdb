// ABOUTME: Mock ObservationStore implementation for testing
// ABOUTME: Allows tests to run without SQLite and to count repository calls

package store

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory ObservationStore for testing.
type MockStore struct {
	mu           sync.RWMutex
	observations map[int]*Observation
	calls        map[string]int

	// Err, when set, is returned by every query.
	Err error
}

// NewMockStore creates a MockStore holding the given observations.
func NewMockStore(observations ...*Observation) *MockStore {
	m := &MockStore{
		observations: make(map[int]*Observation),
		calls:        make(map[string]int),
	}
	for _, o := range observations {
		obs := *o
		m.observations[obs.ID] = &obs
	}
	return m
}

// Calls returns how many times the named method has been invoked.
func (m *MockStore) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// TotalCalls returns the number of queries of any kind.
func (m *MockStore) TotalCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *MockStore) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

// GetAll returns every observation ordered by id.
func (m *MockStore) GetAll(ctx context.Context) ([]*Observation, error) {
	m.record("GetAll")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.filter(func(*Observation) bool { return true }), nil
}

// GetByID retrieves a single observation.
func (m *MockStore) GetByID(ctx context.Context, id int) (*Observation, error) {
	m.record("GetByID")
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obs, ok := m.observations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *obs
	return &cp, nil
}

// GetByTeam returns observations with an exactly matching team.
func (m *MockStore) GetByTeam(ctx context.Context, team string) ([]*Observation, error) {
	m.record("GetByTeam")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.filter(func(o *Observation) bool { return o.Team != nil && *o.Team == team }), nil
}

// GetByTarget returns observations with an exactly matching target.
func (m *MockStore) GetByTarget(ctx context.Context, target string) ([]*Observation, error) {
	m.record("GetByTarget")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.filter(func(o *Observation) bool { return o.Target != nil && *o.Target == target }), nil
}

// Count returns the number of observations.
func (m *MockStore) Count(ctx context.Context) (int, error) {
	m.record("Count")
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.observations), nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) filter(keep func(*Observation) bool) []*Observation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Observation
	for _, o := range m.observations {
		if keep(o) {
			cp := *o
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
