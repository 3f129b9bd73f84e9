package apps

import (
	"context"
	"fmt"
	"sync"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// AcquireResult classifies what Acquire did.
type AcquireResult int

const (
	// AcquireStarted means this call physically started the application and
	// recorded a lease.
	AcquireStarted AcquireResult = iota
	// AcquireShared means another session already holds the application; the
	// count was incremented and this session must still release.
	AcquireShared
	// AcquireExternal means the application was already running outside any
	// session. No lease is recorded and shutdown must leave it alone.
	AcquireExternal
)

// ReleaseResult classifies what Release did.
type ReleaseResult int

const (
	// ReleaseStopped means this was the last hold (or there was none) and the
	// matching processes were terminated.
	ReleaseStopped ReleaseResult = iota
	// ReleaseHeld means other sessions still hold the application; nothing
	// was stopped.
	ReleaseHeld
	// ReleaseNotRunning means no matching process existed.
	ReleaseNotRunning
)

// Leases reference-counts session starts per application id. Concurrent
// sessions sharing a managed application coordinate through it: the first
// starter owns the physical start, later sessions only increment the count,
// and only the release that reaches zero terminates processes. A
// single-session run degenerates to plain start-if-not-running /
// stop-what-we-started semantics.
//
// Each application id has its own lock, held across the running check, the
// process start and the count update. Acquires and releases of the same
// application never interleave: concurrent first acquires collapse to one
// physical start, and a release cannot observe a start that has not recorded
// its hold yet.
type Leases struct {
	supervisor domain.ProcessSupervisor

	mu      sync.Mutex
	entries map[string]*lease
}

type lease struct {
	mu    sync.Mutex
	count int
}

// NewLeases creates a lease registry on top of the process supervisor.
func NewLeases(supervisor domain.ProcessSupervisor) *Leases {
	return &Leases{
		supervisor: supervisor,
		entries:    make(map[string]*lease),
	}
}

func (l *Leases) entry(appID string) *lease {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[appID]
	if !ok {
		e = &lease{}
		l.entries[appID] = e
	}
	return e
}

// Acquire ensures the application is running and records this session's
// hold. An application found running without any lease is treated as
// externally owned: no hold is recorded and shutdown must leave it alone.
func (l *Leases) Acquire(ctx context.Context, app domain.AppProfile) (AcquireResult, error) {
	e := l.entry(app.ID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.count > 0 {
		e.count++
		return AcquireShared, nil
	}

	running, err := l.supervisor.Find(ctx, app.ProcessPattern)
	if err != nil {
		return 0, fmt.Errorf("checking %s: %w", app.ID, err)
	}
	if len(running) > 0 {
		return AcquireExternal, nil
	}
	if _, err := l.supervisor.Start(ctx, app.Path, app.Args); err != nil {
		return 0, fmt.Errorf("starting %s: %w", app.ID, err)
	}
	e.count = 1
	return AcquireStarted, nil
}

// Release drops one hold on the application. When no hold remains - or none
// ever existed, as with a stop-process setup action - every matching process
// is terminated.
func (l *Leases) Release(ctx context.Context, app domain.AppProfile) (ReleaseResult, error) {
	e := l.entry(app.ID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.count > 1 {
		e.count--
		return ReleaseHeld, nil
	}
	e.count = 0

	running, err := l.supervisor.Find(ctx, app.ProcessPattern)
	if err != nil {
		return 0, fmt.Errorf("checking %s: %w", app.ID, err)
	}
	if len(running) == 0 {
		return ReleaseNotRunning, nil
	}

	var firstErr error
	for _, proc := range running {
		if _, err := l.supervisor.Stop(ctx, proc); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stopping %s (pid %d): %w", app.ID, proc.PID, err)
		}
	}
	return ReleaseStopped, firstErr
}

// Holds reports the current hold count for an application id.
func (l *Leases) Holds(appID string) int {
	e := l.entry(appID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}
