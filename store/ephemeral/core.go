package ephemeral

import (
	"errors"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/utils"
)

var (
	ErrTooLong   = errors.New("key too long")
	ErrStoreFull = errors.New("ephemeral store full")
)

const maxKeyLength = 255

type item[T any] struct {
	value     T
	expiresAt time.Time
}

// Store holds values for a sliding TTL: every successful Get extends the
// entry's life. Expired entries are swept periodically and handed to the
// eviction hook.
type Store[T any] struct {
	name          string
	ttl           time.Duration
	maxSize       int
	sweepInterval time.Duration
	onEvict       func(key string, value T)

	mu   sync.Mutex
	data map[string]*item[T]

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithMaxSize caps the number of live entries.
func WithMaxSize[T any](n int) Option[T] {
	return func(s *Store[T]) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// WithOnEvict runs fn for entries removed by expiry, Delete or Close.
// fn runs without the store lock held.
func WithOnEvict[T any](fn func(key string, value T)) Option[T] {
	return func(s *Store[T]) { s.onEvict = fn }
}

// WithSweepInterval overrides the one minute sweep period.
func WithSweepInterval[T any](d time.Duration) Option[T] {
	return func(s *Store[T]) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

func New[T any](name string, ttl time.Duration, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:          name,
		ttl:           ttl,
		maxSize:       1000,
		sweepInterval: time.Minute,
		data:          make(map[string]*item[T]),
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.cleanup()

	logging.DebugLog("Ephemeral store '%s' initialized (ttl=%v, max=%d)", name, ttl, s.maxSize)
	return s
}

// Set stores value under key, replacing any live entry.
func (s *Store[T]) Set(key string, value T) error {
	if len(key) > maxKeyLength {
		logging.DebugLog("Store '%s' set failed: key too long (length: %d)", s.name, len(key))
		return ErrTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists && len(s.data) >= s.maxSize {
		logging.WarnLog("Store '%s' set failed: store full (size: %d)", s.name, len(s.data))
		return ErrStoreFull
	}

	s.data[key] = &item[T]{value: value, expiresAt: time.Now().Add(s.ttl)}
	logging.DebugLog("Store '%s' set [%s] ttl=%v", s.name, utils.ShortID(key), s.ttl)
	return nil
}

// Get returns the live value under key and extends its TTL.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	it, ok := s.data[key]
	if !ok {
		return zero, false
	}
	now := time.Now()
	if now.After(it.expiresAt) {
		return zero, false
	}
	it.expiresAt = now.Add(s.ttl)
	return it.value, true
}

// Delete removes key and runs the eviction hook for it.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	it, existed := s.data[key]
	delete(s.data, key)
	s.mu.Unlock()

	if existed {
		logging.DebugLog("Store '%s' delete [%s]", s.name, utils.ShortID(key))
		s.evict(key, it.value)
	}
}

// Len counts entries, including expired ones not yet swept.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *Store[T]) evict(key string, value T) {
	if s.onEvict != nil {
		s.onEvict(key, value)
	}
}

// Sweep removes expired entries now and reports how many went.
func (s *Store[T]) Sweep() int {
	now := time.Now()
	expired := make(map[string]T)

	s.mu.Lock()
	for k, v := range s.data {
		if now.After(v.expiresAt) {
			expired[k] = v.value
			delete(s.data, k)
		}
	}
	currentSize := len(s.data)
	s.mu.Unlock()

	for k, v := range expired {
		s.evict(k, v)
	}
	if len(expired) > 0 {
		logging.InfoLog("Store '%s' cleanup: removed %d expired items (current size: %d)", s.name, len(expired), currentSize)
	}
	return len(expired)
}

func (s *Store[T]) cleanup() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close stops the sweeper and evicts every remaining entry.
func (s *Store[T]) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)

		s.mu.Lock()
		rest := s.data
		s.data = make(map[string]*item[T])
		s.mu.Unlock()

		for k, v := range rest {
			s.evict(k, v.value)
		}
	})
}
