package runner

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

type Job func() error

// RunPool executes jobs with at most maxWorkers concurrently. Returns all errors.
// With a single worker the jobs run in order on the calling goroutine.
func RunPool(maxWorkers int, jobs []Job) []error {
	if maxWorkers <= 1 {
		var errs []error
		for _, job := range jobs {
			if err := job(); err != nil {
				errs = append(errs, err)
			}
		}
		return errs
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g := new(errgroup.Group)
	g.SetLimit(maxWorkers)
	for _, job := range jobs {
		g.Go(func() error {
			if err := job(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
