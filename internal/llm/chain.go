package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrAllCandidatesFailed wraps the joined errors of an exhausted Chain.
var ErrAllCandidatesFailed = errors.New("all candidates failed")

// Chain tries candidates in order and stops at the first success.
type Chain[T any] struct {
	Candidates []string
	// Observe, when set, is told about every attempt. err is nil on success.
	Observe func(candidate string, err error)
}

// Run returns the first successful result together with the candidate that
// produced it. On total failure every attempt's error is joined.
func (c Chain[T]) Run(ctx context.Context, call func(ctx context.Context, candidate string) (T, error)) (T, string, error) {
	var zero T
	if len(c.Candidates) == 0 {
		return zero, "", fmt.Errorf("%w: no candidates", ErrAllCandidatesFailed)
	}

	errs := make([]error, 0, len(c.Candidates))
	for _, name := range c.Candidates {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		out, err := call(ctx, name)
		if c.Observe != nil {
			c.Observe(name, err)
		}
		if err == nil {
			return out, name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}

	return zero, "", fmt.Errorf("%w: %w", ErrAllCandidatesFailed, errors.Join(errs...))
}
