package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// Phase is the orchestrator's position in the session lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSetup
	PhaseLaunching
	PhaseMonitoring
	PhaseShuttingDown
	PhaseDone
	// PhaseInterrupted marks a session cancelled from outside while in
	// Setup, Launching, or Monitoring. Cleanup still runs.
	PhaseInterrupted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSetup:
		return "setup"
	case PhaseLaunching:
		return "launching"
	case PhaseMonitoring:
		return "monitoring"
	case PhaseShuttingDown:
		return "shutting-down"
	case PhaseDone:
		return "done"
	case PhaseInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State carries one session's mutable bookkeeping: the current phase, the
// monitored game process once found, and the stack of applications this
// session actually mutated. Only mutated applications are rolled back.
type State struct {
	startedAt time.Time

	mu      sync.Mutex
	phase   Phase
	process *domain.Process
	cleanup []domain.AppProfile

	shutdownStarted atomic.Bool
}

func newState(startedAt time.Time) *State {
	return &State{startedAt: startedAt, phase: PhaseIdle}
}

func (s *State) StartedAt() time.Time {
	return s.startedAt
}

func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *State) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// Process returns the monitored game process, if one was found.
func (s *State) Process() (domain.Process, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.process == nil {
		return domain.Process{}, false
	}
	return *s.process, true
}

func (s *State) setProcess(proc domain.Process) {
	s.mu.Lock()
	s.process = &proc
	s.mu.Unlock()
}

// enroll records that setup mutated this application, scheduling its
// shutdown verb for the rollback pass.
func (s *State) enroll(app domain.AppProfile) {
	s.mu.Lock()
	s.cleanup = append(s.cleanup, app)
	s.mu.Unlock()
}

// drainCleanup empties the cleanup stack and returns it in rollback order,
// the reverse of setup order.
func (s *State) drainCleanup() []domain.AppProfile {
	s.mu.Lock()
	apps := s.cleanup
	s.cleanup = nil
	s.mu.Unlock()

	for i, j := 0, len(apps)-1; i < j; i, j = i+1, j-1 {
		apps[i], apps[j] = apps[j], apps[i]
	}
	return apps
}

// beginShutdown claims the single rollback pass. Exactly one caller per
// session wins, whatever triggered the shutdown.
func (s *State) beginShutdown() bool {
	return s.shutdownStarted.CompareAndSwap(false, true)
}
