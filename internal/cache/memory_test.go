package cache

import (
	"errors"
	"sort"
	"testing"
	"time"
)

func TestMemoryExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	if err := m.Set("a", "1", time.Minute); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if value, err := m.Get("a"); err != nil || value != "1" {
		t.Fatalf("expected value 1, got %q (%v)", value, err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := m.Get("a"); !errors.Is(err, ErrorKeyNotFound) {
		t.Fatalf("expected expired key to be not found, got %v", err)
	}
}

func TestMemorySetNX(t *testing.T) {
	m := NewMemory()
	isSet, _ := m.SetNX("lock", "a", time.Minute)
	if !isSet {
		t.Fatalf("expected first SetNX to succeed")
	}
	isSet, _ = m.SetNX("lock", "b", time.Minute)
	if isSet {
		t.Fatalf("expected second SetNX to fail")
	}
	if err := m.Del("lock"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	isSet, _ = m.SetNX("lock", "c", time.Minute)
	if !isSet {
		t.Fatalf("expected SetNX after Del to succeed")
	}
}

func TestMemoryScan(t *testing.T) {
	m := NewMemory()
	m.Set("session:u1:a", "x", 0)
	m.Set("session:u1:b", "x", 0)
	m.Set("session:u2:a", "x", 0)
	keys, _ := m.Scan("session:u1:")
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "session:u1:a" || keys[1] != "session:u1:b" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
