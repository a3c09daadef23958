package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
)

// Locker hands out keyed mutexes with a bounded wait.
type Locker struct {
	mu      sync.Mutex
	timeout time.Duration
	locks   map[string]*keyedLock
}

type keyedLock struct {
	sem  *semaphore.Weighted
	refs int
}

func NewLocker(timeout time.Duration) *Locker {
	return &Locker{
		timeout: timeout,
		locks:   make(map[string]*keyedLock),
	}
}

// Lock waits at most the configured timeout; giving up is reported as apperror.ErrConflict.
func (that *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lock := that.acquire(key)

	waitCtx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	if err := lock.sem.Acquire(waitCtx, 1); err != nil {
		that.release(key)
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s is busy", apperror.ErrConflict, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			lock.sem.Release(1)
			that.release(key)
		})
	}, nil
}

func (that *Locker) acquire(key string) *keyedLock {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[key]
	if !ok {
		lock = &keyedLock{sem: semaphore.NewWeighted(1)}
		that.locks[key] = lock
	}
	lock.refs++

	return lock
}

// release forgets the key once nobody holds or waits for it.
func (that *Locker) release(key string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[key]
	if !ok {
		return
	}

	lock.refs--
	if lock.refs == 0 {
		delete(that.locks, key)
	}
}
