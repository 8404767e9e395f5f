// SPDX-License-Identifier: EPL-2.0

package oggsplice

import (
	"path/filepath"
	"sync"
)

// pathLocks hands out one mutex per file path. Entries are dropped once
// nobody holds or waits for them.
type pathLocks struct {
	locks map[string]*pathLock

	mtx *sync.Mutex
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func newPathLocks() *pathLocks {
	return &pathLocks{
		locks: make(map[string]*pathLock),
		mtx:   &sync.Mutex{},
	}
}

// Lock blocks until path is free and returns the function that releases it.
func (l *pathLocks) Lock(path string) (unlock func()) {
	key := lockKey(path)

	l.mtx.Lock()
	pl, ok := l.locks[key]
	if !ok {
		pl = &pathLock{}
		l.locks[key] = pl
	}
	pl.refs++
	l.mtx.Unlock()

	pl.mu.Lock()

	return func() {
		pl.mu.Unlock()

		l.mtx.Lock()
		defer l.mtx.Unlock()

		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, key)
		}
	}
}

func (l *pathLocks) held() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return len(l.locks)
}

func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
