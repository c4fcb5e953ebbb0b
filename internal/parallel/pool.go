// Package parallel runs tile decodes on a fixed set of worker goroutines.
//
// Each worker owns a bounded queue and steals from its siblings when its own
// queue runs dry, so one slow decode does not stall the tiles queued behind
// it. Submission never blocks: a full pool rejects work and the caller
// retries on its next refresh.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Task is a unit of work. The context is cancelled when the pool closes.
type Task func(ctx context.Context)

// WorkerPool is a pool of goroutines with per-worker queues and work
// stealing.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int

	// queues holds per-worker work queues.
	queues []chan Task

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// active counts tasks queued or executing.
	active atomic.Int64

	closeMu sync.RWMutex
}

// NewWorkerPool starts a pool with the given number of workers and a queue
// of queueSize tasks per worker. Non-positive workers means GOMAXPROCS;
// non-positive queueSize means 4 per worker with a floor of 8.
func NewWorkerPool(ctx context.Context, workers, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if queueSize <= 0 {
		queueSize = max(workers*4, 8)
	}

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan Task, workers),
		done:    make(chan struct{}),
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := range workers {
		p.queues[i] = make(chan Task, queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case task := <-own:
			p.run(task)
		default:
			if stolen := p.steal(id); stolen != nil {
				p.run(stolen)
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case task := <-own:
				p.run(task)
			}
		}
	}
}

func (p *WorkerPool) run(task Task) {
	defer p.active.Add(-1)
	task(p.ctx)
}

// drain runs whatever is left in a queue. Tasks observe a cancelled context
// and are expected to return quickly.
func (p *WorkerPool) drain(queue chan Task) {
	for {
		select {
		case task := <-queue:
			p.run(task)
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(self int) Task {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case task := <-p.queues[i]:
			return task
		default:
		}
	}
	return nil
}

// Submit queues task on the least loaded worker. It reports false when the
// pool is closed or every queue is full.
func (p *WorkerPool) Submit(task Task) bool {
	if task == nil {
		return false
	}
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if !p.running.Load() {
		return false
	}

	best := 0
	for i := 1; i < p.workers; i++ {
		if len(p.queues[i]) < len(p.queues[best]) {
			best = i
		}
	}
	p.active.Add(1)
	for i := range p.workers {
		select {
		case p.queues[(best+i)%p.workers] <- task:
			return true
		default:
		}
	}
	p.active.Add(-1)
	return false
}

// Close stops accepting work, cancels the pool context, runs what is still
// queued and waits for the workers to exit. It is safe to call repeatedly.
func (p *WorkerPool) Close() {
	p.closeMu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.closeMu.Unlock()
		return
	}
	p.cancel()
	close(p.done)
	p.closeMu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// Active returns the number of tasks queued or executing.
func (p *WorkerPool) Active() int {
	return int(p.active.Load())
}
