package jobs

import (
	"context"

	"go.uber.org/zap"

	"franchiseops/internal/inspection"
)

type DuplicateRemover interface {
	RemoveDuplicates(ctx context.Context) ([]inspection.DuplicateGroup, int64, error)
}

// Dedupe removes older duplicate sector records, keeping the newest of
// each (franchise, date, sector).
func Dedupe(svc DuplicateRemover, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		groups, removed, err := svc.RemoveDuplicates(ctx)
		if err != nil {
			return err
		}
		if removed > 0 {
			log.Info("duplicate inspections removed",
				zap.Int("groups", len(groups)),
				zap.Int64("removed", removed),
			)
		}
		return nil
	}
}
