package domain

import "context"

// Process is one discovered or session-started OS process.
type Process struct {
	PID  int
	Name string
}

// ProcessSupervisor abstracts process discovery and control.
type ProcessSupervisor interface {
	// Find returns the running processes whose names match the pattern.
	Find(ctx context.Context, pattern string) ([]Process, error)
	// Start launches an executable detached from the caller's stdio and
	// returns its process. The path may contain environment tokens and glob
	// segments.
	Start(ctx context.Context, path string, args []string) (Process, error)
	// Stop terminates a process, reporting false when it was already gone.
	Stop(ctx context.Context, proc Process) (bool, error)
	// Wait blocks until the process exits. Returns ErrWaitUnsupported when
	// no native wait primitive is available for it.
	Wait(ctx context.Context, proc Process) error
}

// CommandRunner executes a one-shot control command (hotkey toggles,
// wallpaper control) and waits for it to finish. Separated from
// ProcessSupervisor.Start so control invocations never become monitored
// processes.
type CommandRunner interface {
	Run(ctx context.Context, path string, args []string) error
}
