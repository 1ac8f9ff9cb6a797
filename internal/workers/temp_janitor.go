package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/logger"
)

// TempJanitor removes temp uploads left behind by requests that never
// reached their cleanup, e.g. after a crash.
type TempJanitor struct {
	files    TempSweeper
	interval time.Duration
	maxAge   time.Duration
	logger   *logger.Logger
}

func NewTempJanitor(files TempSweeper, interval, maxAge time.Duration, logger *logger.Logger) *TempJanitor {
	return &TempJanitor{
		files:    files,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger.WithComponent("temp-janitor"),
	}
}

// Run sweeps once per interval until ctx is cancelled.
func (j *TempJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *TempJanitor) sweep(ctx context.Context) {
	removed, err := j.files.Sweep(ctx, j.maxAge)
	if err != nil && !errors.Is(err, context.Canceled) {
		j.logger.Err(err).Msg("temp upload sweep failed")
		return
	}
	if removed > 0 {
		j.logger.Info().Int("removed", removed).Msg("stale temp uploads removed")
	}
}
