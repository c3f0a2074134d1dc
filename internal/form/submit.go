package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authform/internal/workerpool"
)

// Purpose says which page produced the credentials.
type Purpose string

const (
	PurposeLogin  Purpose = "login"
	PurposeSignup Purpose = "signup"
)

// Credentials is what a page hands to its backend on submit.
type Credentials struct {
	Purpose  Purpose
	Name     string
	Email    string
	Password string
}

// Task is the pending result of a submission. It resolves exactly once.
type Task struct {
	done   chan struct{}
	once   sync.Once
	err    error
	cancel context.CancelFunc
}

// NewTask returns a task and the context the work behind it should observe.
func NewTask(parent context.Context) (*Task, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	return &Task{done: make(chan struct{}), cancel: cancel}, ctx
}

// Resolve completes the task; later calls are ignored.
func (t *Task) Resolve(err error) {
	t.once.Do(func() {
		t.err = err
		t.cancel()
		close(t.done)
	})
}

// Done is closed once the task resolves.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err is the task's outcome; nil until it resolves and on success.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task resolves or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel asks the work to stop. The task then resolves with the
// cancellation error, unless it already resolved.
func (t *Task) Cancel() { t.cancel() }

// Submitter sends credentials to a backend.
type Submitter interface {
	SubmitCredentials(ctx context.Context, c Credentials) *Task
}

// SimulatedSubmitter stands in for a backend: every submission succeeds
// once a fixed latency has passed since SubmitCredentials was called. The
// pool only dispatches; the wait is a timer, so submissions never queue
// behind each other.
type SimulatedSubmitter struct {
	pool    *workerpool.Pool
	latency time.Duration
}

func NewSimulatedSubmitter(pool *workerpool.Pool, latency time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{pool: pool, latency: latency}
}

func (s *SimulatedSubmitter) SubmitCredentials(ctx context.Context, c Credentials) *Task {
	due := time.Now().Add(s.latency)
	task, taskCtx := NewTask(ctx)

	err := s.pool.Submit(func(jobCtx context.Context) {
		if err := jobCtx.Err(); err != nil {
			task.Resolve(fmt.Errorf("submit %s credentials: %w", c.Purpose, err))
			return
		}
		timer := time.AfterFunc(time.Until(due), func() { task.Resolve(nil) })
		// also fires after a normal resolve, which Resolve then ignores
		context.AfterFunc(taskCtx, func() {
			timer.Stop()
			task.Resolve(taskCtx.Err())
		})
	})
	if err != nil {
		task.Resolve(fmt.Errorf("submit %s credentials: %w", c.Purpose, err))
	}
	return task
}
