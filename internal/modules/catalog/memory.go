package catalog

import (
	"context"
	"sort"
	"sync"
)

type memoryProducts struct {
	mu    sync.RWMutex
	items map[string]*Product
	seq   map[string]int
	next  int
}

// NewMemoryProductRepository returns a process-local ProductRepository, used
// by the memory driver and in tests.
func NewMemoryProductRepository() ProductRepository {
	return &memoryProducts{items: map[string]*Product{}, seq: map[string]int{}}
}

func (m *memoryProducts) List(_ context.Context) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p.clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	return out, nil
}

func (m *memoryProducts) GetByID(_ context.Context, id string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.items[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p.clone(), nil
}

func (m *memoryProducts) GetByIDs(_ context.Context, ids []string) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.items[id]; ok {
			out = append(out, p.clone())
		}
	}
	return out, nil
}

func (m *memoryProducts) Create(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(p)
	return nil
}

func (m *memoryProducts) CreateMany(_ context.Context, ps []*Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range ps {
		m.put(p)
	}
	return nil
}

func (m *memoryProducts) put(p *Product) {
	m.next++
	m.items[p.ID] = p.clone()
	m.seq[p.ID] = m.next
}

func (m *memoryProducts) Update(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[p.ID]; !ok {
		return ErrProductNotFound
	}
	m.items[p.ID] = p.clone()
	return nil
}

func (m *memoryProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrProductNotFound
	}
	delete(m.items, id)
	delete(m.seq, id)
	return nil
}

func (m *memoryProducts) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = map[string]*Product{}
	m.seq = map[string]int{}
	return nil
}

func (m *memoryProducts) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.items)), nil
}

type memoryCombos struct {
	mu    sync.RWMutex
	items map[string]*Combo
}

// NewMemoryComboRepository returns a process-local ComboRepository.
func NewMemoryComboRepository() ComboRepository {
	return &memoryCombos{items: map[string]*Combo{}}
}

func (m *memoryCombos) List(_ context.Context) ([]*Combo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Combo, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c.clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryCombos) GetByID(_ context.Context, id string) (*Combo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.items[id]
	if !ok {
		return nil, ErrComboNotFound
	}
	return c.clone(), nil
}

func (m *memoryCombos) Create(_ context.Context, c *Combo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c.clone()
	return nil
}

func (m *memoryCombos) Update(_ context.Context, c *Combo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[c.ID]; !ok {
		return ErrComboNotFound
	}
	m.items[c.ID] = c.clone()
	return nil
}

func (m *memoryCombos) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrComboNotFound
	}
	delete(m.items, id)
	return nil
}
