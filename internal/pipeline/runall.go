package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one resource type's run.
type Result struct {
	ResourceType string
	Dir          string
	Err          error
}

// RunAll executes independent runs for each resource type, at most
// concurrency at a time. Every run completes regardless of other runs'
// failures; results come back in input order.
func (p *Pipeline) RunAll(ctx context.Context, resourceTypes []string, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(resourceTypes))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, rt := range resourceTypes {
		g.Go(func() error {
			dir, err := p.Run(ctx, rt)
			mu.Lock()
			results[i] = Result{ResourceType: rt, Dir: dir, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
