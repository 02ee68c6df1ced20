// Package parallel provides the worker pool used to fan out the
// embarrassingly parallel parts of a design run: per-building shortest-path
// computations and per-pipe sizing calls. Reductions over the results stay
// single threaded at the call sites.
package parallel

import (
	"fmt"
	"sync"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
}

// NewWorkerPool creates a new worker pool with the specified number of
// workers. Non-positive counts fall back to a single worker.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
	}
	pool.start()
	return pool
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// Recover from panics in tasks to prevent worker crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Printf("Worker panic recovered: %v\n", r)
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the worker pool.
// Returns false if the pool is closed, true if the task was submitted.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// Close shuts down the worker pool and waits for in-flight tasks
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// ForEach runs fn for every index in [0, n) across the given number of
// workers and blocks until all calls return. Each index is visited exactly
// once; fn must only write to per-index state. workers <= 1 degrades to a
// plain sequential loop.
func ForEach(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	if workers > n {
		workers = n
	}

	pool := NewWorkerPool(workers)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		idx := i
		pool.Submit(func() {
			defer wg.Done()
			fn(idx)
		})
	}
	wg.Wait()
	pool.Close()
}
