// Package lock serialises schedule writes per project.
package lock

import (
	"context"
	"fmt"
	"sync"
)

// Locker grants exclusive access to one project's schedule. The returned
// unlock function must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, projectID string) (unlock func(), err error)
}

// Local is an in-process Locker. It is enough when a single chantier process
// owns the database. A project's slot lives only while someone holds or waits
// for it.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]*slot)}
}

func (l *Local) acquire(projectID string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[projectID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[projectID] = s
	}
	s.refs++
	return s
}

func (l *Local) release(projectID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s.refs--; s.refs == 0 {
		delete(l.slots, projectID)
	}
}

func (l *Local) Lock(ctx context.Context, projectID string) (func(), error) {
	s := l.acquire(projectID)
	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.release(projectID, s)
			})
		}, nil
	case <-ctx.Done():
		l.release(projectID, s)
		return nil, fmt.Errorf("locking project %s: %w", projectID, ctx.Err())
	}
}

func (l *Local) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
