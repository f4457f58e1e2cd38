package repo

import (
	"sort"
	"sync"

	"printpost-backend/internal/domain"
)

// MemoryOrderRepo keeps processed-session records in memory. It satisfies the
// same interface as the postgres repo; dedup survives only for the process
// lifetime, so it is for development and tests.
type MemoryOrderRepo struct {
	mu sync.RWMutex
	m  map[string]*domain.OrderRecord
}

func NewMemoryOrderRepo() *MemoryOrderRepo {
	return &MemoryOrderRepo{m: make(map[string]*domain.OrderRecord)}
}

// MarkProcessed stores the record and reports whether this session was seen
// for the first time.
func (r *MemoryOrderRepo) MarkProcessed(rec *domain.OrderRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[rec.SessionID]; ok {
		return false, nil
	}
	cp := *rec
	r.m[rec.SessionID] = &cp
	return true, nil
}

func (r *MemoryOrderRepo) Get(sessionID string) (*domain.OrderRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.m[sessionID]
	if !ok {
		return nil, false
	}
	cp := *rec
	return &cp, true
}

func (r *MemoryOrderRepo) List(page, pageSize int) ([]domain.OrderRecord, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.OrderRecord, 0, len(r.m))
	for _, rec := range r.m {
		all = append(all, *rec)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total
}
