package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Goofygiraffe06/authform/internal/config"
	"github.com/Goofygiraffe06/authform/internal/form"
	"github.com/Goofygiraffe06/authform/internal/workerpool"
)

// WorkManager keeps submissions and storage I/O on separate pools so a burst
// of slow submissions never starves remembered-email lookups.
type WorkManager struct {
	submit         *workerpool.Pool
	storage        *workerpool.Pool
	storageTimeout time.Duration
}

var ErrStorageTimeout = errors.New("local storage call timed out")

// Option configures the WorkManager.
type Option func(*options)

type options struct {
	submitWorkers  int
	storageWorkers int
	queueSize      int
	storageTimeout time.Duration
}

// WithSubmitWorkers sets the submission worker count.
func WithSubmitWorkers(n int) Option { return func(o *options) { o.submitWorkers = n } }

// WithStorageWorkers sets the storage worker count.
func WithStorageWorkers(n int) Option { return func(o *options) { o.storageWorkers = n } }

// WithQueueSize sets the queue size of each pool.
func WithQueueSize(n int) Option { return func(o *options) { o.queueSize = n } }

// WithStorageTimeout bounds each storage call.
func WithStorageTimeout(d time.Duration) Option { return func(o *options) { o.storageTimeout = d } }

// NewWorkManager constructs the manager with the given options (or defaults from config).
func NewWorkManager(opts ...Option) *WorkManager {
	o := &options{
		submitWorkers:  config.SubmitWorkerCount(),
		storageWorkers: config.StorageWorkerCount(),
		queueSize:      config.WorkerQueueSize(),
		storageTimeout: config.StorageTimeout(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &WorkManager{
		submit:         workerpool.New("submit", o.submitWorkers, o.queueSize),
		storage:        workerpool.New("storage", o.storageWorkers, o.queueSize, workerpool.WithJobTimeout(o.storageTimeout)),
		storageTimeout: o.storageTimeout,
	}
}

// Close shuts down all pools.
func (m *WorkManager) Close() {
	if m == nil {
		return
	}
	m.submit.Close()
	m.storage.Close()
}

// SubmitPool is the pool simulated submissions run on.
func (m *WorkManager) SubmitPool() *workerpool.Pool { return m.submit }

// RunStorage runs fn on the storage pool and waits for its result.
func (m *WorkManager) RunStorage(fn func(ctx context.Context) error) error {
	result := make(chan error, 1)
	err := m.storage.Submit(func(ctx context.Context) {
		result <- fn(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule storage call: %w", err)
	}

	var out error
	ok := RunWithTimeout(context.Background(), m.storageTimeout, func(ctx context.Context) {
		select {
		case out = <-result:
		case <-ctx.Done():
		}
	})
	if !ok {
		return ErrStorageTimeout
	}
	return out
}

// Storage routes every call on s through the storage pool.
func (m *WorkManager) Storage(s form.LocalStorage) form.LocalStorage {
	return &pooledStorage{m: m, inner: s}
}

type pooledStorage struct {
	m     *WorkManager
	inner form.LocalStorage
}

func (p *pooledStorage) GetItem(key string) (string, bool, error) {
	type item struct {
		value string
		ok    bool
	}
	got := make(chan item, 1)
	err := p.m.RunStorage(func(context.Context) error {
		v, ok, err := p.inner.GetItem(key)
		got <- item{value: v, ok: ok}
		return err
	})
	if err != nil {
		return "", false, err
	}
	it := <-got
	return it.value, it.ok, nil
}

func (p *pooledStorage) SetItem(key, value string) error {
	return p.m.RunStorage(func(context.Context) error {
		return p.inner.SetItem(key, value)
	})
}

// RunWithTimeout runs a function respecting a deadline and returns whether it completed.
func RunWithTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context)) bool {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	done := make(chan struct{})
	go func() { fn(ctx); close(done) }()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
