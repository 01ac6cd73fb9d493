package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store. It backs tests and the default
// STORE_BACKEND=memory configuration.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte

	cbMu      sync.Mutex
	callbacks map[int]ChangeFunc
	nextCB    int
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string][]byte),
		callbacks:   make(map[int]ChangeFunc),
	}
}

func (m *Memory) Get(_ context.Context, collection, id string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return nil, false, nil
	}
	data, ok := col[id]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, collection, id string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	col, ok := m.collections[collection]
	if !ok {
		col = make(map[string][]byte)
		m.collections[collection] = col
	}
	col[id] = stored
	m.mu.Unlock()

	m.notify(collection, id, data)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	if col, ok := m.collections[collection]; ok {
		delete(col, id)
	}
	m.mu.Unlock()

	m.notify(collection, id, nil)
	return nil
}

func (m *Memory) Keys(_ context.Context, collection string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col := m.collections[collection]
	keys := make([]string, 0, len(col))
	for k := range col {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *Memory) OnChange(fn ChangeFunc) func() {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()

	id := m.nextCB
	m.nextCB++
	m.callbacks[id] = fn
	return func() {
		m.cbMu.Lock()
		defer m.cbMu.Unlock()
		delete(m.callbacks, id)
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) notify(collection, id string, data []byte) {
	m.cbMu.Lock()
	fns := make([]ChangeFunc, 0, len(m.callbacks))
	for _, fn := range m.callbacks {
		fns = append(fns, fn)
	}
	m.cbMu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Printf("[STORE] onChange callback panic: %v\n", r)
				}
			}()
			fn(collection, id, data)
		}()
	}
}
