package procs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// Supervisor implements domain.ProcessSupervisor and domain.CommandRunner on
// top of os/exec and a per-OS process lister. Processes it started itself
// ("owned") keep their exec.Cmd around so they can be natively waited and
// reaped; everything else is adopted by PID only.
type Supervisor struct {
	list listFunc

	mu    sync.Mutex
	owned map[int]*exec.Cmd
}

type listFunc func(ctx context.Context) ([]domain.Process, error)

// NewSupervisor creates a supervisor backed by the OS process table.
func NewSupervisor() *Supervisor {
	return newSupervisorWithLister(listProcesses)
}

// newSupervisorWithLister is the seam for tests.
func newSupervisorWithLister(list listFunc) *Supervisor {
	return &Supervisor{
		list:  list,
		owned: make(map[int]*exec.Cmd),
	}
}

// Find returns the running processes whose names match the pattern.
func (s *Supervisor) Find(ctx context.Context, pattern string) ([]domain.Process, error) {
	compiled, err := Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	procs, err := s.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	var matched []domain.Process
	for _, proc := range procs {
		if compiled.Matches(proc.Name) {
			matched = append(matched, proc)
		}
	}
	return matched, nil
}

// Start launches the executable detached from the session's stdio and
// records it as owned. The returned process name is the executable basename,
// so it is discoverable through the same patterns as adopted processes.
func (s *Supervisor) Start(ctx context.Context, path string, args []string) (domain.Process, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return domain.Process{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Process{}, err
	}

	cmd := exec.Command(resolved, args...)
	cmd.Dir = filepath.Dir(resolved)

	if err := cmd.Start(); err != nil {
		return domain.Process{}, fmt.Errorf("starting %s: %w", resolved, err)
	}

	proc := domain.Process{
		PID:  cmd.Process.Pid,
		Name: executableName(resolved),
	}

	s.mu.Lock()
	s.owned[proc.PID] = cmd
	s.mu.Unlock()

	return proc, nil
}

// Stop terminates a process, reporting false when it was already gone.
// Owned processes are reaped in the background after the kill.
func (s *Supervisor) Stop(ctx context.Context, proc domain.Process) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	cmd, owned := s.owned[proc.PID]
	delete(s.owned, proc.PID)
	s.mu.Unlock()

	if owned {
		if err := cmd.Process.Kill(); err != nil {
			if errors.Is(err, os.ErrProcessDone) {
				return false, nil
			}
			return false, fmt.Errorf("killing pid %d: %w", proc.PID, err)
		}
		go func() { _ = cmd.Wait() }()
		return true, nil
	}

	osProc, err := os.FindProcess(proc.PID)
	if err != nil {
		// Windows reports missing processes here; unix never errors.
		return false, nil
	}
	if err := osProc.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return false, nil
		}
		return false, fmt.Errorf("killing pid %d: %w", proc.PID, err)
	}
	return true, nil
}

// Wait blocks until the process exits or ctx is cancelled. Only owned
// processes support the native wait; adopted processes (including elevated
// ones on the far side of a privilege boundary) report ErrWaitUnsupported
// so callers switch to interval polling. The process's exit status is
// irrelevant here: the wait tracks lifetime, not success.
func (s *Supervisor) Wait(ctx context.Context, proc domain.Process) error {
	s.mu.Lock()
	cmd, owned := s.owned[proc.PID]
	s.mu.Unlock()

	if !owned {
		return domain.ErrWaitUnsupported
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.mu.Lock()
		delete(s.owned, proc.PID)
		s.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes a one-shot control command and waits for it to finish,
// implementing domain.CommandRunner.
func (s *Supervisor) Run(ctx context.Context, path string, args []string) error {
	resolved, err := ExpandPath(path)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, resolved, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if text := strings.TrimSpace(string(output)); text != "" {
			return fmt.Errorf("running %s: %w: %s", resolved, err, text)
		}
		return fmt.Errorf("running %s: %w", resolved, err)
	}
	return nil
}

func executableName(path string) string {
	// Pattern.Matches normalizes the .exe suffix; anything else stays.
	return filepath.Base(path)
}
