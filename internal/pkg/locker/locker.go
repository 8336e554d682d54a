package locker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
)

var ErrNotObtained = errors.New("lock not obtained")

// Redsync adapts a redsync pool to interfaces.Locker.
type Redsync struct {
	rs     *redsync.Redsync
	expiry time.Duration
	tries  int
}

func NewRedsync(rs *redsync.Redsync, expiry time.Duration, tries int) *Redsync {
	return &Redsync{rs: rs, expiry: expiry, tries: tries}
}

func (l *Redsync) Obtain(ctx context.Context, key string) (func() error, error) {
	mutex := l.rs.NewMutex(key, redsync.WithExpiry(l.expiry), redsync.WithTries(l.tries))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errors.Join(ErrNotObtained, err)
	}

	return func() error {
		_, err := mutex.UnlockContext(context.WithoutCancel(ctx))
		return err
	}, nil
}

// Local serializes keys inside a single process, provided when REDIS_MUTEX is unset.
type Local struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*localLock)}
}

func (l *Local) Obtain(ctx context.Context, key string) (func() error, error) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, lock)
		return nil, errors.Join(ErrNotObtained, ctx.Err())
	}

	var once sync.Once
	return func() error {
		once.Do(func() {
			<-lock.ch
			l.release(key, lock)
		})
		return nil
	}, nil
}

func (l *Local) release(key string, lock *localLock) {
	l.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}
