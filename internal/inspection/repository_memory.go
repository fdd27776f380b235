package inspection

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository backs service and handler tests.
type InMemoryRepository struct {
	mu          sync.Mutex
	inspections []Inspection // insertion order
	items       []ChecklistItem
	clock       time.Time

	// FailOn, when set, is consulted before each CreateSector.
	FailOn func(NewSector) error
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{clock: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
}

// tick gives every record a distinct, increasing creation time.
func (r *InMemoryRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *InMemoryRepository) CreateSector(_ context.Context, in NewSector) (*Inspection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailOn != nil {
		if err := r.FailOn(in); err != nil {
			return nil, err
		}
	}

	rec := in.Inspection
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = r.tick()
	r.inspections = append(r.inspections, rec)

	for _, it := range in.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.InspectionID = rec.ID
		it.CreatedAt = rec.CreatedAt
		it.Photos = slices.Clone(it.Photos)
		if it.Photos == nil {
			it.Photos = []string{}
		}
		r.items = append(r.items, it)
	}
	return &rec, nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (*Inspection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, in := range r.inspections {
		if in.ID == id {
			return &in, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) ListByFranchiseDate(_ context.Context, franchiseID, date string) ([]Inspection, error) {
	return r.filter(func(in Inspection) bool {
		return in.FranchiseID == franchiseID && in.Date == date
	}), nil
}

func (r *InMemoryRepository) List(_ context.Context, f ListFilter) ([]Inspection, error) {
	return r.filter(func(in Inspection) bool {
		if f.FranchiseID != "" && in.FranchiseID != f.FranchiseID {
			return false
		}
		if f.From != "" && in.Date < f.From {
			return false
		}
		if f.To != "" && in.Date > f.To {
			return false
		}
		return true
	}), nil
}

// filter returns matches newest first.
func (r *InMemoryRepository) filter(keep func(Inspection) bool) []Inspection {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Inspection{}
	for i := len(r.inspections) - 1; i >= 0; i-- {
		if keep(r.inspections[i]) {
			out = append(out, r.inspections[i])
		}
	}
	return out
}

func (r *InMemoryRepository) ListItems(_ context.Context, inspectionIDs []string) ([]ChecklistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []ChecklistItem{}
	for _, it := range r.items {
		if slices.Contains(inspectionIDs, it.InspectionID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Update(_ context.Context, in Inspection) (*Inspection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.inspections {
		if r.inspections[i].ID != in.ID {
			continue
		}
		in.FranchiseID = r.inspections[i].FranchiseID
		in.CreatedAt = r.inspections[i].CreatedAt
		r.inspections[i] = in
		return &in, nil
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	n, _ := r.DeleteMany(ctx, []string{id})
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InMemoryRepository) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	r.inspections = slices.DeleteFunc(r.inspections, func(in Inspection) bool {
		if slices.Contains(ids, in.ID) {
			n++
			return true
		}
		return false
	})
	r.items = slices.DeleteFunc(r.items, func(it ChecklistItem) bool {
		return slices.Contains(ids, it.InspectionID)
	})
	return n, nil
}

// AddRecord seeds a raw record, bypassing scoring.
func (r *InMemoryRepository) AddRecord(in Inspection, items ...ChecklistItem) Inspection {
	created, _ := r.CreateSector(context.Background(), NewSector{Inspection: in, Items: items})
	return *created
}
