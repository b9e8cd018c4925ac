package storage

import (
	"context"
	"sync"
	"time"

	"github.com/cardapio-project/cardapio/pkg/common"
)

type memoryObject struct {
	data    []byte
	created time.Time
}

type memory struct {
	now func() time.Time

	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemory keeps artifacts in process memory. Used by tests and local runs
// where nothing needs to survive a restart.
func NewMemory() JobStore {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{now: now, objects: map[string]memoryObject{}}
}

func (m *memory) Put(ctx context.Context, jobID string, kind Kind, data []byte) error {
	if err := validateJobID(jobID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[kind.Key(jobID)] = memoryObject{data: append([]byte(nil), data...), created: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, jobID string, kind Kind) ([]byte, error) {
	if err := validateJobID(jobID); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	object, ok := m.objects[kind.Key(jobID)]
	if !ok {
		return nil, common.NotFound(kind.Suffix + " not found for job " + jobID)
	}
	return append([]byte(nil), object.data...), nil
}

func (m *memory) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for key, object := range m.objects {
		if object.created.Before(olderThan) {
			delete(m.objects, key)
			deleted++
		}
	}
	return deleted, nil
}
