package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one input of a batch.
type BatchResult struct {
	Input  Input
	Report *Report
	Err    error
}

// Batch analyses independent inputs on at most workers goroutines (one per CPU when
// workers is not positive). Results are returned in input order; one failing input
// does not stop the others. The error is non-nil only when ctx ends first.
func (e *Engine) Batch(ctx context.Context, inputs []Input, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]BatchResult, len(inputs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range inputs {
		g.Go(func() error {
			report, err := e.Analyze(ctx, inputs[i])
			results[i] = BatchResult{Input: inputs[i], Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}
