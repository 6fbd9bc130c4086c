// Package workermanager provides worker goroutine management with
// graceful restart and exponential backoff.
//
// A worker function that returns is treated as failed and is restarted
// after a backoff delay until the manager is stopped or the retry
// budget is exhausted. The stdout output uses a single managed worker
// to drain its envelope channel: a write failure (for example the
// downstream end of the pipe disappearing) ends the worker, and the
// manager retries it with backoff instead of tearing the process down.
package workermanager

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// WorkerManager manages worker goroutines with graceful restart.
type WorkerManager struct {
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	workerFunc    func(id int)
	workerCount   int
	activeWorkers int32
	mu            sync.RWMutex
}

// NewWorkerManager creates a new worker manager.
func NewWorkerManager(logger *zap.Logger, workerCount int, workerFunc func(id int)) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerManager{
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		workerFunc:  workerFunc,
		workerCount: workerCount,
	}
}

// Start starts the worker manager and spawns the initial workers.
func (wm *WorkerManager) Start() {
	wm.logger.Info("Starting worker manager", zap.Int("target_workers", wm.workerCount))

	for i := 0; i < wm.workerCount; i++ {
		wm.startWorker(i)
	}
}

// Stop stops the worker manager and waits for all workers to finish.
func (wm *WorkerManager) Stop() {
	wm.logger.Info("Stopping worker manager")
	wm.cancel()
	wm.wg.Wait()
	wm.logger.Info("Worker manager stopped")
}

// startWorker starts a single supervised worker.
func (wm *WorkerManager) startWorker(id int) {
	wm.mu.Lock()
	wm.activeWorkers++
	wm.mu.Unlock()

	wm.wg.Add(1)
	go wm.runWorker(id)
}

// runWorker runs a worker, restarting it with exponential backoff when
// it returns before the manager is stopped.
func (wm *WorkerManager) runWorker(id int) {
	defer wm.wg.Done()
	defer func() {
		wm.mu.Lock()
		wm.activeWorkers--
		wm.mu.Unlock()
	}()

	backoffPolicy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxInterval(30*time.Second),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0.1),
		backoff.WithMaxElapsedTime(5*time.Minute),
	)

	for {
		select {
		case <-wm.ctx.Done():
			wm.logger.Info("Worker exiting - context cancelled", zap.Int("worker_id", id))
			return
		default:
			wm.workerFunc(id)

			// The worker function returned, which means it failed.
			select {
			case <-wm.ctx.Done():
				wm.logger.Info("Worker exiting - context cancelled during backoff", zap.Int("worker_id", id))
				return
			default:
				delay := backoffPolicy.NextBackOff()
				if delay == backoff.Stop {
					wm.logger.Error("Worker failed permanently - max retry time exceeded", zap.Int("worker_id", id))
					return
				}

				wm.logger.Warn("Worker failed, retrying with backoff",
					zap.Int("worker_id", id),
					zap.Duration("delay", delay))

				select {
				case <-wm.ctx.Done():
					return
				case <-time.After(delay):
				}
			}
		}
	}
}

// GetActiveWorkerCount returns the current number of active workers.
func (wm *WorkerManager) GetActiveWorkerCount() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return int(wm.activeWorkers)
}
