package database

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryDatabase keeps perfumes in process memory. It evaluates filters with the
// same predicates the query service composes, so it doubles as a test fake.
type MemoryDatabase struct {
	mu       sync.RWMutex
	perfumes map[int64]*Perfume
	nextID   int64
	now      func() time.Time
}

func NewMemoryDatabase() DatabaseService {
	return &MemoryDatabase{
		perfumes: make(map[int64]*Perfume),
		nextID:   1,
		now:      time.Now,
	}
}

func (m *MemoryDatabase) CreateDatabase(context.Context) error { return nil }

func (m *MemoryDatabase) DoesDatabaseExist(context.Context) bool { return true }

func (m *MemoryDatabase) Close() error { return nil }

func (m *MemoryDatabase) CreatePerfume(_ context.Context, fields PerfumeFields, imagePath *string) (*Perfume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	p := &Perfume{
		ID:        m.nextID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyFields(p, fields)
	if imagePath != nil {
		path := *imagePath
		p.ImagePath = &path
	}
	m.perfumes[p.ID] = p
	m.nextID++
	return p.clone(), nil
}

func (m *MemoryDatabase) GetPerfume(_ context.Context, id int64) (*Perfume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.perfumes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (m *MemoryDatabase) UpdatePerfume(_ context.Context, id int64, fields PerfumeFields, imagePath *string) (*Perfume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.perfumes[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyFields(p, fields)
	if imagePath != nil {
		path := *imagePath
		p.ImagePath = &path
	}
	p.UpdatedAt = m.now().UTC()
	return p.clone(), nil
}

func (m *MemoryDatabase) DeletePerfume(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.perfumes[id]; !ok {
		return ErrNotFound
	}
	delete(m.perfumes, id)
	return nil
}

func (m *MemoryDatabase) ListPerfumes(_ context.Context, filter Filter, limit, offset int) ([]*Perfume, error) {
	matched := m.matching(filter)
	if offset >= len(matched) {
		return []*Perfume{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (m *MemoryDatabase) CountPerfumes(_ context.Context, filter Filter) (int, error) {
	return len(m.matching(filter)), nil
}

func (m *MemoryDatabase) DistinctCategories(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range m.perfumes {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// matching returns copies of all perfumes accepted by the filter, newest first.
func (m *MemoryDatabase) matching(filter Filter) []*Perfume {
	m.mu.RLock()
	defer m.mu.RUnlock()

	predicate := filter.Predicate()
	var result []*Perfume
	for _, p := range m.perfumes {
		if predicate(p) {
			result = append(result, p.clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func applyFields(p *Perfume, fields PerfumeFields) {
	p.Name = fields.Name
	p.Brand = fields.Brand
	p.Description = fields.Description
	p.Price = normalizePrice(fields.Price)
	p.Category = fields.Category
	p.SubCategory = nil
	if fields.SubCategory != nil {
		sub := *fields.SubCategory
		p.SubCategory = &sub
	}
}
