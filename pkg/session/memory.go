package session

import "sync"

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	token string
	user  []byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) ClearToken() error {
	return m.SetToken("")
}

func (m *Memory) CurrentUser() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil, nil
	}
	return append([]byte(nil), m.user...), nil
}

func (m *Memory) SetCurrentUser(raw []byte) error {
	m.mu.Lock()
	m.user = append([]byte(nil), raw...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) ClearCurrentUser() error {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
