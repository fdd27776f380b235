package franchise

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("franchise not found")

type Repository interface {
	Create(ctx context.Context, f *Franchise) error
	List(ctx context.Context) ([]Franchise, error)
	Get(ctx context.Context, id string) (*Franchise, error)
}
