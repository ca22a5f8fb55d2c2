package render

import (
	"context"
	"sync"

	"github.com/paulmach/orb/geojson"
)

// DefaultWorkers is the worker count used when RenderYears is given zero.
const DefaultWorkers = 4

// FrameFunc builds the frame for one year.
type FrameFunc func(year int) *geojson.FeatureCollection

// RenderYears builds and renders every year in [min, max] on up to workers
// goroutines. The sink must be safe for concurrent use; the file sinks in this
// package are, since each year writes its own file. The first error by year
// order is returned after all workers finish.
func RenderYears(ctx context.Context, sink Sink, min, max, workers int, build FrameFunc) error {
	n := max - min + 1
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > n {
		workers = n
	}

	errs := make([]error, n)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					return
				}
				year := min + i
				errs[i] = sink.Render(year, build(year))
			}
		}(start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
