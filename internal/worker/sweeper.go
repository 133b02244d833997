// Package worker runs the periodic settlement loop that picks up finished
// games and tries to verify them through the configured oracle.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/avsfam/firstgoal/internal/platform/logging"
	"github.com/avsfam/firstgoal/internal/usecase"
)

// Sweeper drives SweeperService on a fixed interval. Cycles never overlap:
// a tick that fires while a pass is still running is dropped.
type Sweeper struct {
	sweeper      *usecase.SweeperService
	interval     time.Duration
	initialDelay time.Duration
	logger       *logging.Logger

	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

func NewSweeper(
	sweeper *usecase.SweeperService,
	interval time.Duration,
	initialDelay time.Duration,
	logger *logging.Logger,
) *Sweeper {
	if logger == nil {
		logger = logging.Default()
	}
	return &Sweeper{
		sweeper:      sweeper,
		interval:     interval,
		initialDelay: initialDelay,
		logger:       logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start launches the background loop. Starting twice is a no-op.
func (w *Sweeper) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("sweeper started",
		"interval", w.interval,
		"initial_delay", w.initialDelay,
	)

	go w.run(ctx)
}

// Stop signals the loop and waits for the in-flight pass to finish.
func (w *Sweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("sweeper stopped")
}

func (w *Sweeper) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Sweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	if w.initialDelay > 0 {
		delay := time.NewTimer(w.initialDelay)
		select {
		case <-ctx.Done():
			delay.Stop()
			return
		case <-w.stopCh:
			delay.Stop()
			return
		case <-delay.C:
		}
	}

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Sweeper) sweep(ctx context.Context) {
	started := time.Now()

	result, err := w.sweeper.SweepOnce(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "sweep cycle failed", "error", err)
		return
	}

	if result.Scanned == 0 {
		return
	}

	w.logger.InfoContext(ctx, "sweep cycle completed",
		"duration_ms", time.Since(started).Milliseconds(),
		"scanned", result.Scanned,
		"verified", result.Verified,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
}
