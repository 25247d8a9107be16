package lock

import (
	"context"
	"sync"
	"time"

	"acquisition_desk/internal/domain"
	"acquisition_desk/pkg/errcodes"
)

type localLock struct {
	ch   chan struct{}
	refs int
}

// LocalLocker is an in-process keyed mutex.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
	wait  time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		locks: make(map[string]*localLock),
		wait:  wait,
	}
}

func (l *LocalLocker) Lock(ctx context.Context, prefix string) (func(context.Context) error, error) {
	key := keyFor(prefix)

	l.mu.Lock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lk
	}
	lk.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case lk.ch <- struct{}{}:
	case <-timer.C:
		l.release(key, lk)
		return nil, domain.NewError(errcodes.LockNotObtained, "allocation lock is busy")
	case <-ctx.Done():
		l.release(key, lk)
		return nil, domain.WrapError(ctx.Err(), errcodes.LockNotObtained, "allocation lock is busy")
	}

	var once sync.Once

	return func(context.Context) error {
		once.Do(func() {
			<-lk.ch
			l.release(key, lk)
		})
		return nil
	}, nil
}

func (l *LocalLocker) release(key string, lk *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, key)
	}
}
