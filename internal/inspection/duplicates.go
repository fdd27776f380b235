package inspection

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type dupKey struct {
	franchise, date, sector string
}

// FindDuplicates lists every (franchise, date, sector) stored more than once.
// The newest record of each group is the one to keep.
func (s *Service) FindDuplicates(ctx context.Context) ([]DuplicateGroup, error) {
	records, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	return findDuplicates(records), nil
}

func findDuplicates(newestFirst []Inspection) []DuplicateGroup {
	index := map[dupKey]int{}
	var groups []DuplicateGroup

	for _, r := range newestFirst {
		k := dupKey{r.FranchiseID, r.Date, r.Sector}
		i, ok := index[k]
		if !ok {
			index[k] = len(groups)
			groups = append(groups, DuplicateGroup{
				FranchiseID: r.FranchiseID,
				Date:        r.Date,
				Sector:      r.Sector,
				KeepID:      r.ID,
			})
			continue
		}
		groups[i].RemoveIDs = append(groups[i].RemoveIDs, r.ID)
	}

	out := []DuplicateGroup{}
	for _, g := range groups {
		if len(g.RemoveIDs) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// RemoveDuplicates deletes every record FindDuplicates would drop, with
// their items and photos.
func (s *Service) RemoveDuplicates(ctx context.Context) ([]DuplicateGroup, int64, error) {
	groups, err := s.FindDuplicates(ctx)
	if err != nil {
		return nil, 0, err
	}

	var ids []string
	for _, g := range groups {
		ids = append(ids, g.RemoveIDs...)
	}
	if len(ids) == 0 {
		return groups, 0, nil
	}

	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("delete duplicates: %w", err)
	}

	s.log.Info("duplicate inspections removed",
		zap.Int("groups", len(groups)),
		zap.Int64("deleted", n),
	)
	return groups, n, nil
}
