package inspection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"franchiseops/internal/checklist"
	"franchiseops/internal/core"
	"franchiseops/internal/metrics"
	"franchiseops/internal/storage"
)

const dateLayout = "2006-01-02"

// photo uploads in flight per sector
const uploadConcurrency = 4

type Service struct {
	repo       Repository
	catalog    checklist.Catalog
	franchises core.FranchiseReader
	blobs      storage.BlobStore
	log        *zap.Logger
}

func NewService(
	repo Repository,
	catalog checklist.Catalog,
	franchises core.FranchiseReader,
	blobs storage.BlobStore,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		catalog:    catalog,
		franchises: franchises,
		blobs:      blobs,
		log:        log,
	}
}

func (s *Service) Catalog() checklist.Catalog { return s.catalog }

// --------------------------------------------------
// Submit
// --------------------------------------------------

// Submit scores and stores every catalog sector, one transaction per
// sector, in catalog order. The first failing sector stops the run and is
// reported as a *SectorError; sectors stored before it stay stored and are
// returned alongside the error.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) ([]Inspection, error) {
	if err := s.validateSubmit(ctx, req); err != nil {
		return nil, err
	}

	responses, err := buildResponses(req.Responses)
	if err != nil {
		return nil, err
	}

	saved := make([]Inspection, 0, len(s.catalog))
	for _, sector := range s.catalog {
		rec, err := s.submitSector(ctx, req, sector, responses)
		if err != nil {
			metrics.SubmissionFailures.WithLabelValues(sector.ID).Inc()

			var sErr *SectorError
			if errors.As(err, &sErr) {
				for _, in := range saved {
					sErr.Committed = append(sErr.Committed, in.ID)
				}
			}
			s.log.Error("inspection submission aborted",
				zap.String("franchise_id", req.FranchiseID),
				zap.String("date", req.Date),
				zap.String("sector", sector.ID),
				zap.Int("committed", len(saved)),
				zap.Error(err),
			)
			return saved, err
		}

		metrics.InspectionsSubmitted.Inc()
		saved = append(saved, *rec)
	}

	s.log.Info("inspection submitted",
		zap.String("franchise_id", req.FranchiseID),
		zap.String("date", req.Date),
		zap.Int("sectors", len(saved)),
	)
	return saved, nil
}

func (s *Service) submitSector(
	ctx context.Context,
	req SubmitRequest,
	sector checklist.Sector,
	responses checklist.Responses,
) (*Inspection, error) {
	score := checklist.Score(sector, responses)

	items := make([]ChecklistItem, 0)
	for _, cat := range sector.Categories {
		for _, it := range cat.Items {
			resp := responses.Lookup(checklist.ItemKey{Sector: sector.ID, Category: cat.Title, Item: it.Name})
			items = append(items, ChecklistItem{
				Category:    cat.Title,
				ItemName:    it.Name,
				Status:      resp.Status,
				Points:      it.Points,
				Observation: resp.Observation,
				Responsible: resp.Responsible,
				Photos:      resp.Photos,
			})
		}
	}

	prefix := fmt.Sprintf("inspections/%s/%s/%s", req.FranchiseID, req.Date, sector.ID)
	if err := s.uploadPhotos(ctx, prefix, items); err != nil {
		return nil, &SectorError{Sector: sector.ID, Op: "upload photos", Err: err}
	}

	rec, err := s.repo.CreateSector(ctx, NewSector{
		Inspection: Inspection{
			FranchiseID:    req.FranchiseID,
			InspectorID:    req.InspectorID,
			Date:           req.Date,
			Sector:         sector.ID,
			TotalPoints:    score.Total,
			PointsAchieved: score.Achieved,
			Percentage:     score.Percentage,
			Rating:         score.Rating(),
		},
		Items: items,
	})
	if err != nil {
		return nil, &SectorError{Sector: sector.ID, Op: "save inspection", Err: err}
	}
	return rec, nil
}

// uploadPhotos replaces data-URL photos with their stored URLs in place.
func (s *Service) uploadPhotos(ctx context.Context, prefix string, items []ChecklistItem) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)

	for i := range items {
		src := items[i].Photos
		if len(src) == 0 {
			continue
		}
		name := items[i].ItemName
		dst := make([]string, len(src))
		items[i].Photos = dst

		for j, ref := range src {
			if !storage.IsDataURL(ref) {
				dst[j] = ref
				continue
			}
			if s.blobs == nil {
				_ = g.Wait()
				return errors.New("photo storage not configured")
			}
			j, ref := j, ref
			g.Go(func() error {
				url, err := storage.PutImageRef(gctx, s.blobs, prefix, ref)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				dst[j] = url
				return nil
			})
		}
	}
	return g.Wait()
}

func (s *Service) validateSubmit(ctx context.Context, req SubmitRequest) error {
	if req.FranchiseID == "" {
		return fmt.Errorf("%w: franchise_id is required", ErrInvalid)
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalid, req.Date)
	}
	if len(s.catalog) == 0 {
		return fmt.Errorf("%w: empty checklist catalog", ErrInvalid)
	}
	if s.franchises != nil {
		if _, err := s.franchises.FranchiseName(ctx, req.FranchiseID); err != nil {
			if errors.Is(err, core.ErrFranchiseNotFound) {
				return fmt.Errorf("%w: unknown franchise %q", ErrInvalid, req.FranchiseID)
			}
			return fmt.Errorf("look up franchise: %w", err)
		}
	}
	return nil
}

func buildResponses(in []ResponseInput) (checklist.Responses, error) {
	out := make(checklist.Responses, len(in))
	for _, r := range in {
		status, err := checklist.ParseStatus(r.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s/%s: %v", ErrInvalid, r.Sector, r.Category, r.Item, err)
		}
		photos := make([]string, 0, len(r.Photos))
		for _, p := range r.Photos {
			if p != "" {
				photos = append(photos, p)
			}
		}
		out[checklist.ItemKey{Sector: r.Sector, Category: r.Category, Item: r.Item}] = checklist.ItemResponse{
			Status:      status,
			Observation: r.Observation,
			Responsible: r.Responsible,
			Photos:      photos,
		}
	}
	return out, nil
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (s *Service) Get(ctx context.Context, id string) (*Inspection, error) {
	return s.repo.Get(ctx, id)
}

// Unified rebuilds the cross-sector report of the visit the inspection
// belongs to. It is recomputed on every call.
func (s *Service) Unified(ctx context.Context, id string) (*UnifiedReport, error) {
	in, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByFranchiseDate(ctx, in.FranchiseID, in.Date)
	if err != nil {
		return nil, fmt.Errorf("load sector records: %w", err)
	}
	kept := DedupeBySector(records)

	ids := make([]string, 0, len(kept))
	for _, r := range kept {
		ids = append(ids, r.ID)
	}
	items, err := s.repo.ListItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load checklist items: %w", err)
	}

	rep := Aggregate(kept, items)
	return &rep, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Inspection, error) {
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalid, d)
		}
	}
	return s.repo.List(ctx, f)
}

// --------------------------------------------------
// Admin edit / delete
// --------------------------------------------------

// Update replaces the patched fields. Patching the points or the
// percentage without a rating reclassifies the record; item points are
// left as they were recorded.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Inspection, error) {
	if p.empty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalid)
	}

	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *cur

	if p.Date != nil {
		if _, err := time.Parse(dateLayout, *p.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalid, *p.Date)
		}
		next.Date = *p.Date
	}
	if p.Sector != nil {
		if _, ok := s.catalog.SectorByID(*p.Sector); !ok {
			return nil, fmt.Errorf("%w: unknown sector %q", ErrInvalid, *p.Sector)
		}
		next.Sector = *p.Sector
	}
	if p.InspectorID != nil {
		next.InspectorID = *p.InspectorID
	}

	pointsPatched := p.TotalPoints != nil || p.PointsAchieved != nil
	if p.TotalPoints != nil {
		next.TotalPoints = *p.TotalPoints
	}
	if p.PointsAchieved != nil {
		next.PointsAchieved = *p.PointsAchieved
	}
	if next.TotalPoints < 0 || next.PointsAchieved < 0 || next.PointsAchieved > next.TotalPoints {
		return nil, fmt.Errorf("%w: points achieved must be between 0 and total points", ErrInvalid)
	}

	switch {
	case p.Percentage != nil:
		if math.IsNaN(*p.Percentage) || *p.Percentage < 0 || *p.Percentage > 100 {
			return nil, fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalid)
		}
		next.Percentage = *p.Percentage
	case pointsPatched:
		next.Percentage = checklist.Percentage(next.PointsAchieved, next.TotalPoints)
	}

	switch {
	case p.Rating != nil:
		r, err := checklist.ParseRating(*p.Rating)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		next.Rating = r
	case pointsPatched || p.Percentage != nil:
		next.Rating = checklist.Classify(next.Percentage)
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, err
	}

	s.log.Info("inspection updated", zap.String("id", id))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("inspection deleted", zap.String("id", id))
	return nil
}
