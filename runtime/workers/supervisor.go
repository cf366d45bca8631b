package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trivia-lab/contract"
	"trivia-lab/errors"
)

// Supervisor owns a context and a cancel function, runs each worker in a
// goroutine, recovers panics and restarts crashed workers after a delay.
// A failure in one worker must never stop the supervisor itself: this is
// the process-level guarantee that no per-connection error is fatal.
type Supervisor struct {
	cancel          context.CancelFunc
	wg              *sync.WaitGroup
	log             *slog.Logger
	workers         []contract.Worker
	restartInterval time.Duration
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{
		wg:              &sync.WaitGroup{},
		log:             log,
		restartInterval: restartInterval,
	}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every registered worker under a cancellation trigger tied to
// the parent ctx and blocks until all of them have finished.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer s.cancel()

	for _, worker := range s.workers {
		s.start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

// start runs one worker under supervision. If Run panics the supervisor
// recovers, waits for the restart interval and starts the worker again. A
// worker returning nil terminated on purpose and is never restarted.
func (s *Supervisor) start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info(fmt.Sprintf("Stopping : %s", workerName))
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info(fmt.Sprintf("Worker finished : %s", workerName))
				return
			}

			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", workerName)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", workerName, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.restartInterval):
			}
		}
	}()
}

// Stop cancels all supervised workers.
func (s *Supervisor) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}
