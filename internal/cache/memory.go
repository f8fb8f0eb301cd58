package cache

import (
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is a process-local Cache, it backs the controller when it is
// started without redis and is used as the test double elsewhere
type Memory struct {
	entries map[string]memoryEntry
	mutex   sync.Mutex
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

func (m *Memory) isLive(entry memoryEntry) bool {
	return entry.expiresAt.IsZero() || m.now().Before(entry.expiresAt)
}

func (m *Memory) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *Memory) Set(key string, value string, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.expiry(ttl)}
	return nil
}

func (m *Memory) SetNX(key string, value string, ttl time.Duration) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if entry, ok := m.entries[key]; ok && m.isLive(entry) {
		return false, nil
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: m.expiry(ttl)}
	return true, nil
}

func (m *Memory) Get(key string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	entry, ok := m.entries[key]
	if !ok || !m.isLive(entry) {
		delete(m.entries, key)
		return "", ErrorKeyNotFound
	}
	return entry.value, nil
}

func (m *Memory) Scan(prefix string) ([]string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	keys := []string{}
	for key, entry := range m.entries {
		if strings.HasPrefix(key, prefix) && m.isLive(entry) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *Memory) Del(key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.entries, key)
	return nil
}
