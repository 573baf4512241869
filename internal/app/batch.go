package app

import (
	"context"
	"sync"
)

// BatchItem is one document's outcome within a batch run. Exactly one
// of Result or Err is set.
type BatchItem struct {
	Path   string
	Result *Result
	Err    error
}

// ValidateBatch runs the pipeline over every path on a bounded worker
// pool. Results come back in input order; a cancelled context marks the
// unstarted items with the context error.
func (e *Engine) ValidateBatch(ctx context.Context, paths []string) []BatchItem {
	items := make([]BatchItem, len(paths))
	jobs := make(chan int)

	workers := e.cfg.Workers
	if workers > len(paths) {
		workers = len(paths)
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = e.validateOne(ctx, paths[i])
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				items[j] = BatchItem{Path: paths[j], Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return items
}

func (e *Engine) validateOne(ctx context.Context, path string) BatchItem {
	if err := ctx.Err(); err != nil {
		return BatchItem{Path: path, Err: err}
	}
	res, err := e.ValidateFile(path)
	if err != nil {
		e.log.Error().Str("path", path).Err(err).Msg("Validation failed")
		return BatchItem{Path: path, Err: err}
	}
	return BatchItem{Path: path, Result: res}
}
