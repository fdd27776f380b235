package franchise

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"franchiseops/internal/core"
)

var ErrMissingFields = errors.New("missing required fields")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// --------------------------------------------------
// Create franchise
// --------------------------------------------------
func (s *Service) Create(ctx context.Context, name, location string) (*Franchise, error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if name == "" || location == "" {
		return nil, ErrMissingFields
	}

	f := &Franchise{Name: name, Location: location}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create franchise: %w", err)
	}
	return f, nil
}

func (s *Service) List(ctx context.Context) ([]Franchise, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Franchise, error) {
	return s.repo.Get(ctx, id)
}

// FranchiseName satisfies core.FranchiseReader.
func (s *Service) FranchiseName(ctx context.Context, id string) (string, error) {
	f, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return "", core.ErrFranchiseNotFound
	}
	if err != nil {
		return "", err
	}
	return f.Name, nil
}
