package strategy

import (
	"context"
	"runtime"
	"sync"

	"github.com/cohort-sim/cohort-sim/sim"
)

// Workers fans tasks out across a fixed pool of goroutines and joins before
// returning. Results merge by scenario identity, never by completion order.
// The first failure cancels the remaining work through a derived context;
// cancelling the caller's context does the same.
//
// Worth it only when per-task work outweighs pool start-up and handoff. For
// small grids Sequential usually wins, which the bench table makes visible.
type Workers struct {
	count int
}

// NewWorkers returns the worker-pool strategy. count <= 0 means
// runtime.GOMAXPROCS(0).
func NewWorkers(count int) *Workers {
	if count <= 0 {
		count = runtime.GOMAXPROCS(0)
	}
	return &Workers{count: count}
}

func (w *Workers) Name() string { return "workers" }

// Count reports the pool size.
func (w *Workers) Count() int { return w.count }

func (w *Workers) Execute(ctx context.Context, tasks []sim.Task) (map[sim.Scenario]sim.Trajectory, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	// Each worker writes only the indices it pulled, so the trajectory
	// slice needs no lock.
	trajectories := make([]sim.Trajectory, len(tasks))
	indexChan := make(chan int, len(tasks))
	for i := range tasks {
		indexChan <- i
	}
	close(indexChan)

	workers := w.count
	if workers > len(tasks) {
		workers = len(tasks)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				traj, err := runTask(runCtx, tasks[idx])
				if err != nil {
					fail(err)
					return
				}
				trajectories[idx] = traj
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return collect(tasks, trajectories), nil
}
