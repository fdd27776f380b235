package menu

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu    sync.Mutex
	items []MenuItem
	now   func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: time.Now}
}

func (r *InMemoryRepository) Create(_ context.Context, items []MenuItem) ([]MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.CreatedAt = r.now()
		it.UpdatedAt = it.CreatedAt
		out = append(out, it)
	}
	r.items = append(r.items, out...)
	return out, nil
}

func (r *InMemoryRepository) List(_ context.Context, date string) ([]MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []MenuItem{}
	for _, it := range r.items {
		if date == "" || it.Date == date {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Update(_ context.Context, id string, item MenuItem) (*MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		item.ID = id
		item.CreatedAt = r.items[i].CreatedAt
		item.UpdatedAt = r.now()
		r.items[i] = item
		return &item, nil
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) DeleteByDate(_ context.Context, date string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	var n int64
	for _, it := range r.items {
		if it.Date == date {
			n++
			continue
		}
		kept = append(kept, it)
	}
	r.items = kept
	return n, nil
}
