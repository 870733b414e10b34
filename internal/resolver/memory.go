package resolver

import (
	"context"
	"sort"
	"sync"
)

// Entity is a row held by Memory.
type Entity struct {
	Type       Type   `yaml:"type"`
	ID         int64  `yaml:"id"`
	Label      string `yaml:"label"`
	SearchName string `yaml:"search_name,omitempty"`
	Deprecated bool   `yaml:"deprecated,omitempty"`
}

type grantKey struct {
	t     Type
	id    int64
	perm  Permission
	actor int64
}

// Memory is an in-memory Resolver. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu       sync.RWMutex
	entities map[Type]map[int64]Entity
	grants   map[grantKey]bool
}

var _ Resolver = (*Memory)(nil)

// NewMemory creates an empty resolver.
func NewMemory() *Memory {
	return &Memory{
		entities: make(map[Type]map[int64]Entity),
		grants:   make(map[grantKey]bool),
	}
}

// Put adds or replaces an entity.
func (m *Memory) Put(e Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.entities[e.Type]
	if !ok {
		byID = make(map[int64]Entity)
		m.entities[e.Type] = byID
	}
	byID[e.ID] = e
}

// Grant gives actor perm on an entity.
func (m *Memory) Grant(t Type, id int64, perm Permission, actor int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[grantKey{t, id, perm, actor}] = true
}

func (m *Memory) ResolveByID(_ context.Context, t Type, id int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.entities[t][id]; !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

func (m *Memory) ResolveByString(_ context.Context, t Type, text string) ([]Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Candidate
	for _, e := range m.entities[t] {
		if Matches(text, e.Label, e.SearchName) {
			out = append(out, Candidate{ID: e.ID, Label: e.Label, SearchName: e.SearchName, Deprecated: e.Deprecated})
		}
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CheckPermission(_ context.Context, t Type, id int64, perm Permission, actor int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grants[grantKey{t, id, perm, actor}], nil
}
