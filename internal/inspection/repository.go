package inspection

import "context"

// Repository defines all database operations for inspections
type Repository interface {
	// CreateSector stores the inspection, its items and their photos in one
	// transaction.
	CreateSector(ctx context.Context, in NewSector) (*Inspection, error)

	Get(ctx context.Context, id string) (*Inspection, error)

	// ListByFranchiseDate returns every sector record of one visit,
	// newest first.
	ListByFranchiseDate(ctx context.Context, franchiseID, date string) ([]Inspection, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, f ListFilter) ([]Inspection, error)

	// ListItems returns the items of the given inspections with their
	// photos, in insertion order per inspection.
	ListItems(ctx context.Context, inspectionIDs []string) ([]ChecklistItem, error)

	Update(ctx context.Context, in Inspection) (*Inspection, error)

	// Delete removes the inspection with its items and photos.
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
