package core

import (
	"context"
	"errors"
)

var ErrFranchiseNotFound = errors.New("franchise not found")

// FranchiseReader is the read side of franchises that inspections and
// reports depend on.
type FranchiseReader interface {
	FranchiseName(ctx context.Context, id string) (string, error)
}
