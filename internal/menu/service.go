package menu

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"franchiseops/internal/storage"
)

type Service struct {
	repo     Repository
	blobs    storage.BlobStore
	analyzer Analyzer
	log      *zap.Logger
}

func NewService(repo Repository, blobs storage.BlobStore, analyzer Analyzer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, blobs: blobs, analyzer: analyzer, log: log}
}

// --------------------------------------------------
// Create (single or bulk)
// --------------------------------------------------
func (s *Service) Create(ctx context.Context, items []MenuItem) ([]MenuItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidItem)
	}

	prepared := make([]MenuItem, 0, len(items))
	for i, it := range items {
		it, err := s.prepare(ctx, it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		prepared = append(prepared, it)
	}

	created, err := s.repo.Create(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("create menu items: %w", err)
	}

	s.log.Info("menu items created", zap.Int("count", len(created)))
	return created, nil
}

func (s *Service) List(ctx context.Context, date string) ([]MenuItem, error) {
	if date != "" {
		if err := ValidateDate(date); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, date)
}

func (s *Service) Update(ctx context.Context, id string, item MenuItem) (*MenuItem, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	item, err := s.prepare(ctx, item)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, item)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteByDate(ctx context.Context, date string) (int64, error) {
	if err := ValidateDate(date); err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteByDate(ctx, date)
	if err != nil {
		return 0, err
	}
	s.log.Info("menu cleared", zap.String("date", date), zap.Int64("deleted", n))
	return n, nil
}

// UploadImage stores a data-URL image and returns its public URL.
func (s *Service) UploadImage(ctx context.Context, dataURL string) (string, error) {
	if !storage.IsDataURL(dataURL) {
		return "", fmt.Errorf("%w: image must be a data URL", ErrInvalidItem)
	}
	return s.putImage(ctx, "menu", dataURL)
}

func (s *Service) prepare(ctx context.Context, it MenuItem) (MenuItem, error) {
	it = Normalize(it)
	if err := ValidateItem(it); err != nil {
		return MenuItem{}, err
	}

	if storage.IsDataURL(it.ImageURL) {
		url, err := s.putImage(ctx, "menu/"+it.Date, it.ImageURL)
		if err != nil {
			return MenuItem{}, err
		}
		it.ImageURL = url
	}
	return it, nil
}

func (s *Service) putImage(ctx context.Context, prefix, ref string) (string, error) {
	if s.blobs == nil {
		return "", errors.New("image storage not configured")
	}
	url, err := storage.PutImageRef(ctx, s.blobs, prefix, ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotDataURL) || errors.Is(err, storage.ErrUnsupportedType) {
			return "", fmt.Errorf("%w: %v", ErrInvalidItem, err)
		}
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

// GroupByCategory lays items out in printed-menu order. Items of unknown
// categories are left out.
func GroupByCategory(items []MenuItem) []CategoryGroup {
	byCat := make(map[string][]MenuItem, len(Categories))
	for _, it := range items {
		byCat[it.Category] = append(byCat[it.Category], it)
	}

	groups := make([]CategoryGroup, 0, len(Categories))
	for _, cat := range Categories {
		if len(byCat[cat]) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: cat, Items: byCat[cat]})
	}
	return groups
}
