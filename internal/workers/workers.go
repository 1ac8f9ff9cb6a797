package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/logger"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the background workers enabled by cfg.
func NewWorkers(tempFiles TempSweeper, cfg config.Workers, logger *logger.Logger) *Workers {
	w := &Workers{}
	if cfg.TempSweepInterval > 0 {
		w.workers = append(w.workers, NewTempJanitor(tempFiles, cfg.TempSweepInterval, cfg.TempMaxAge, logger))
	}
	return w
}

// Run starts every worker in its own goroutine and blocks until all of them
// return after ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			worker.Run(ctx)
		})
	}
	wg.Wait()
}
