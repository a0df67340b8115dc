// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool runs independent panel tasks (e.g. the column panels of a triangular solve) on a
// bounded number of goroutines.
package workerspool

import (
	"runtime"
	"sync"

	"github.com/gomlx/blkpack/pkg/support/xsync"
)

// Pool of workers. A nil *Pool is valid, and runs every task inline.
type Pool struct {
	// maxParallelism is a soft target on the number of goroutines running tasks.
	maxParallelism int
	mu             sync.Mutex
	cond           sync.Cond // Signaled whenever numRunning is decreased.
	numRunning     int
}

// New returns a new Pool of workers with the default parallelism (runtime.NumCPU()).
func New() *Pool {
	return NewWithParallelism(runtime.NumCPU())
}

// NewWithParallelism returns a new Pool with the given maxParallelism, see SetMaxParallelism.
func NewWithParallelism(maxParallelism int) *Pool {
	w := &Pool{maxParallelism: maxParallelism}
	w.cond = sync.Cond{L: &w.mu}
	return w
}

// IsEnabled returns whether parallelism is enabled (maxParallelism != 0).
func (w *Pool) IsEnabled() bool {
	return w != nil && w.maxParallelism != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0).
func (w *Pool) IsUnlimited() bool {
	return w != nil && w.maxParallelism < 0
}

// MaxParallelism returns the soft target on the number of running tasks.
// 0 means parallelism is disabled, and -1 that it is unlimited.
func (w *Pool) MaxParallelism() int {
	if w == nil {
		return 0
	}
	return w.maxParallelism
}

// SetMaxParallelism sets the maxParallelism.
//
// It should only be changed while no tasks are running.
func (w *Pool) SetMaxParallelism(maxParallelism int) {
	w.maxParallelism = maxParallelism
}

// lockedIsFull returns whether all workers are in use.
//
// It must be called with w.mu acquired.
func (w *Pool) lockedIsFull() bool {
	if w.maxParallelism == 0 {
		return true
	} else if w.maxParallelism < 0 {
		return false
	}
	return w.numRunning >= w.maxParallelism
}

// lockedRunTaskInGoroutine runs task and keeps tabs on w.numRunning.
//
// It must be called with w.mu acquired.
func (w *Pool) lockedRunTaskInGoroutine(task func()) {
	w.numRunning++
	go func() {
		defer func() {
			w.mu.Lock()
			w.numRunning--
			w.cond.Signal()
			w.mu.Unlock()
		}()
		task()
	}()
}

// WaitToStart waits until there is a worker available and starts task on it.
//
// If parallelism is disabled, it runs the task inline and returns when it is finished.
func (w *Pool) WaitToStart(task func()) {
	if !w.IsEnabled() {
		task()
		return
	}
	if w.IsUnlimited() {
		go task()
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.lockedIsFull() {
		w.cond.Wait()
	}
	w.lockedRunTaskInGoroutine(task)
}

// StartIfAvailable starts task in a separate goroutine if there is a worker available.
// It returns false, without running task, otherwise.
//
// It's up to the caller to synchronize the end of the task.
func (w *Pool) StartIfAvailable(task func()) bool {
	if !w.IsEnabled() {
		return false
	}
	if w.IsUnlimited() {
		go task()
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lockedIsFull() {
		return false
	}
	w.lockedRunTaskInGoroutine(task)
	return true
}

// ForEach calls task(idx) for idx in [0, numTasks), and returns when all calls have finished.
//
// Tasks are started on the available workers, and the ones that find no free worker are run inline by the
// caller, so ForEach never blocks waiting for a worker. With a nil or disabled pool every task runs
// inline, in order.
func (w *Pool) ForEach(numTasks int, task func(idx int)) {
	if !w.IsEnabled() || numTasks == 1 {
		for idx := range numTasks {
			task(idx)
		}
		return
	}
	wg := xsync.NewDynamicWaitGroup()
	for idx := range numTasks {
		wg.Add(1)
		run := func() {
			defer wg.Done()
			task(idx)
		}
		if !w.StartIfAvailable(run) {
			run()
		}
	}
	wg.Wait()
}
