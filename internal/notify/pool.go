// Package notify provides the bounded fan-out pool used for push
// notifications. Broadcasts are fire-and-forget per recipient: one slow or
// dead peer must never block the caller or the other recipients.
package notify

import (
	"sync"

	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

// Pool runs notification tasks on a fixed set of workers behind a bounded
// queue.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		tasks: make(chan func(), queueSize),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

// run executes a single task, containing any panic so a bad recipient
// cannot take down a worker.
func run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("notification task panicked", map[string]any{"panic": r})
		}
	}()
	task()
}

// Submit enqueues a notification task. The caller is never blocked: if the
// queue is full, or the pool is already closed, the task runs on a fresh
// goroutine instead. The closed check holds the lock across the enqueue so
// a concurrent Close cannot catch a send to the closed channel.
func (p *Pool) Submit(task func()) {
	p.mu.Lock()
	if !p.closed {
		select {
		case p.tasks <- task:
			p.mu.Unlock()
			return
		default:
		}
	}
	p.mu.Unlock()
	go run(task)
}

// Close stops accepting tasks and waits for queued ones to finish. Later
// Submit calls still run their tasks, just without the pool.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
