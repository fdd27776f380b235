package franchise

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu         sync.Mutex
	franchises map[string]Franchise
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{franchises: make(map[string]Franchise)}
}

func (r *InMemoryRepository) Create(_ context.Context, f *Franchise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	f.CreatedAt = time.Now()
	r.franchises[f.ID] = *f
	return nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]Franchise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Franchise, 0, len(r.franchises))
	for _, f := range r.franchises {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (*Franchise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.franchises[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}
