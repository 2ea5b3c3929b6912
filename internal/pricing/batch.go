package pricing

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one input in a batch. Err is set, and Result
// is zero, when the input failed validation.
type BatchResult struct {
	Input  CalculationInput
	Result CalculationResult
	Err    error
}

// CalculateBatch prices every input against the same settings, running at
// most concurrency calculations at a time (unbounded when concurrency <= 0).
// Results are returned in input order. A validation failure is reported on its
// own BatchResult and does not stop the batch; the only error returned is the
// context's.
func CalculateBatch(ctx context.Context, inputs []CalculationInput, settings GlobalSettings, concurrency int) ([]BatchResult, error) {
	results := make([]BatchResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Calculate(in, settings)
			results[i] = BatchResult{Input: in, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
