package form

import (
	"context"
	"errors"
	"sync"
)

type memStorage struct {
	mu     sync.Mutex
	items  map[string]string
	writes int
	getErr error
}

func newMemStorage() *memStorage {
	return &memStorage{items: make(map[string]string)}
}

func (s *memStorage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *memStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	s.writes++
	return nil
}

func (s *memStorage) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key]
}

// manualSubmitter hands out tasks the test resolves itself.
type manualSubmitter struct {
	mu    sync.Mutex
	calls []Credentials
	tasks []*Task
}

func (m *manualSubmitter) SubmitCredentials(ctx context.Context, c Credentials) *Task {
	task, _ := NewTask(ctx)
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
	return task
}

func (m *manualSubmitter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *manualSubmitter) last() (Credentials, *Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1], m.tasks[len(m.tasks)-1]
}

var errBackendDown = errors.New("backend down")

// settleRecorder collects OnSettled callbacks.
type settleRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *settleRecorder) record(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *settleRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
