package volume

import "sync"

// MemoryStore keeps voxels in a map. Iteration order is unspecified.
type MemoryStore struct {
	mu     sync.RWMutex
	voxels map[Pos]RGBA
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{voxels: make(map[Pos]RGBA)}
}

func (m *MemoryStore) Write(p Pos, c RGBA) error {
	m.mu.Lock()
	m.voxels[p] = c
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Read(p Pos) (RGBA, bool, error) {
	m.mu.RLock()
	c, ok := m.voxels[p]
	m.mu.RUnlock()
	return c, ok, nil
}

func (m *MemoryStore) ForEach(r Region, fn func(p Pos, c RGBA) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for p, c := range m.voxels {
		if !r.Contains(p) {
			continue
		}
		if !fn(p, c) {
			break
		}
	}
	return nil
}

// Len reports the number of populated positions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	n := len(m.voxels)
	m.mu.RUnlock()
	return n
}

func (m *MemoryStore) Close() error {
	return nil
}
