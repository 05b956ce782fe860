package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used in tests and when no bucket is
// configured.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Put(_ context.Context, data []byte, _ string) (string, error) {
	ref := uuid.NewString()
	m.mu.Lock()
	m.objects[ref] = append([]byte(nil), data...)
	m.mu.Unlock()
	return ref, nil
}

func (m *Memory) URL(_ context.Context, ref string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[ref]; !ok {
		return "", ErrNotFound
	}
	return "memory://" + ref, nil
}

func (m *Memory) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	delete(m.objects, ref)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
