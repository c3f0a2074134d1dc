package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Goofygiraffe06/authform/internal/logging"
)

// Job is a unit of work. Its context is cancelled when the job exceeds the
// pool's job timeout or when the pool closes.
type Job func(ctx context.Context)

// Pool is a bounded worker pool. Queued jobs still run after Close, with an
// already cancelled context, so anything waiting on them is released.
type Pool struct {
	name       string
	size       int
	jobTimeout time.Duration
	queue      chan Job
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	base     context.Context
	stop     context.CancelFunc
	inflight atomic.Int64
}

var (
	ErrPoolClosed = errors.New("worker pool closed")
	ErrQueueFull  = errors.New("worker pool queue full")
)

// Option configures a Pool.
type Option func(*Pool)

// WithJobTimeout bounds each job's context.
func WithJobTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.jobTimeout = d
		}
	}
}

// New starts size workers sharing a queue of queueCap jobs.
func New(name string, size, queueCap int, opts ...Option) *Pool {
	if size <= 0 {
		size = 1
	}
	if queueCap <= 0 {
		queueCap = 1
	}
	base, stop := context.WithCancel(context.Background())
	p := &Pool{
		name:       name,
		size:       size,
		jobTimeout: 30 * time.Second,
		queue:      make(chan Job, queueCap),
		base:       base,
		stop:       stop,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.start()
	return p
}

func (p *Pool) start() {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for job := range p.queue {
				p.run(id, job)
			}
		}(i)
	}
}

func (p *Pool) run(id int, job Job) {
	ctx, cancel := context.WithTimeout(p.base, p.jobTimeout)
	defer cancel()
	defer p.inflight.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorLog("workerpool '%s' worker %d recovered from panic: %v", p.name, id, r)
		}
	}()
	job(ctx)
}

// Submit enqueues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.inflight.Add(1)
	select {
	case p.queue <- job:
		return nil
	default:
		p.inflight.Add(-1)
		logging.WarnLog("workerpool '%s' queue full; rejecting job", p.name)
		return ErrQueueFull
	}
}

// InFlight counts queued plus running jobs.
func (p *Pool) InFlight() int {
	return int(p.inflight.Load())
}

// Close cancels running jobs, drains the queue and waits up to five seconds
// for the workers to exit.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.stop()
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logging.WarnLog("workerpool '%s' shutdown timed out", p.name)
	}
}
