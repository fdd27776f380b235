package menu

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("menu item not found")

// Repository defines all database operations for menu items
type Repository interface {
	// Create inserts every item or none.
	Create(ctx context.Context, items []MenuItem) ([]MenuItem, error)

	// List returns items ordered by creation time. An empty date lists all.
	List(ctx context.Context, date string) ([]MenuItem, error)

	Update(ctx context.Context, id string, item MenuItem) (*MenuItem, error)
	Delete(ctx context.Context, id string) error
	DeleteByDate(ctx context.Context, date string) (int64, error)
}
