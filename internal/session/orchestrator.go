package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
	apperrors "github.com/beive60/focus-game-deck-sub005/internal/errors"
)

const (
	defaultStartGrace   = 300 * time.Second
	defaultPollInterval = 3 * time.Second
)

// Options wire the orchestrator's collaborators. StartGrace bounds how long
// the game process may take to appear; PollInterval paces both that wait and
// the exit-polling fallback.
type Options struct {
	Invoker      domain.ActionInvoker
	Launcher     domain.GameLauncher
	Supervisor   domain.ProcessSupervisor
	Apps         map[string]domain.AppProfile
	Clock        clockwork.Clock
	StartGrace   time.Duration
	PollInterval time.Duration
}

// Orchestrator runs one session as a single logical flow. Only dispatcher
// jobs execute concurrently with it, and they gate nothing downstream.
type Orchestrator struct {
	invoker      domain.ActionInvoker
	launcher     domain.GameLauncher
	supervisor   domain.ProcessSupervisor
	apps         map[string]domain.AppProfile
	clock        clockwork.Clock
	startGrace   time.Duration
	pollInterval time.Duration
}

func New(opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.StartGrace <= 0 {
		opts.StartGrace = defaultStartGrace
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Orchestrator{
		invoker:      opts.Invoker,
		launcher:     opts.Launcher,
		supervisor:   opts.Supervisor,
		apps:         opts.Apps,
		clock:        opts.Clock,
		startGrace:   opts.StartGrace,
		pollInterval: opts.PollInterval,
	}
}

// Run drives the session through Setup, Launching, and Monitoring, then
// restores the environment. The rollback pass runs exactly once whatever
// stops the session: normal game exit, the grace period expiring, a launch
// failure, a panic unwinding, or an interrupt. Cancellation of ctx is the
// interrupt path and is never reported as an error.
func (o *Orchestrator) Run(ctx context.Context, game domain.GameProfile) error {
	state := newState(o.clock.Now())
	slog.InfoContext(ctx, "Session starting", "game", game.ID, "name", game.Name, "platform", game.Platform)

	defer o.shutdown(ctx, state, game)

	state.setPhase(PhaseSetup)
	o.setup(ctx, state, game)
	if interrupted(ctx) {
		state.setPhase(PhaseInterrupted)
		return nil
	}

	state.setPhase(PhaseLaunching)
	if err := o.launcher.Launch(ctx, game); err != nil {
		if interrupted(ctx) {
			state.setPhase(PhaseInterrupted)
			return nil
		}
		return apperrors.Launch(fmt.Sprintf("launching game %s", game.ID), err).WithContext("platform", string(game.Platform))
	}

	state.setPhase(PhaseMonitoring)
	proc, found, err := o.awaitProcess(ctx, game)
	if err != nil {
		state.setPhase(PhaseInterrupted)
		return nil
	}
	if !found {
		slog.WarnContext(ctx, "Game process never appeared, shutting session down",
			"game", game.ID, "pattern", game.ProcessPattern, "grace", o.startGrace)
		return nil
	}

	state.setProcess(proc)
	slog.InfoContext(ctx, "Monitoring game process", "game", game.ID, "pid", proc.PID, "process", proc.Name)

	if err := o.awaitExit(ctx, game, proc); err != nil {
		state.setPhase(PhaseInterrupted)
		return nil
	}
	slog.InfoContext(ctx, "Game process exited", "game", game.ID, "pid", proc.PID)
	return nil
}

// setup invokes each referenced application's startup verb in declared
// order. A failing application is logged and skipped; the game must still
// launch when an optional integration breaks.
func (o *Orchestrator) setup(ctx context.Context, state *State, game domain.GameProfile) {
	for _, id := range game.Apps {
		if interrupted(ctx) {
			return
		}
		app, ok := o.apps[id]
		if !ok {
			// Load-time validation rejects unresolved references; reaching
			// this means the profile map and game disagree.
			slog.ErrorContext(ctx, "Unknown managed application reference", "app", id)
			continue
		}

		result := o.invoker.Invoke(ctx, app, app.StartupVerb)
		if !result.Success {
			slog.WarnContext(ctx, "Setup action failed, continuing", "app", app.ID, "verb", app.StartupVerb)
			continue
		}
		if app.StartupVerb.EnrollsCleanup() || !result.AlreadyInDesiredState {
			state.enroll(app)
			slog.DebugContext(ctx, "Application enrolled for rollback", "app", app.ID, "shutdown_verb", app.ShutdownVerb)
		} else {
			slog.DebugContext(ctx, "Application already in desired state", "app", app.ID, "verb", app.StartupVerb)
		}
	}
}

// shutdown runs the rollback pass: every mutated application's shutdown verb
// in reverse setup order, unconditionally, failures absorbed. The session
// context may already be cancelled, so cleanup detaches from it.
func (o *Orchestrator) shutdown(ctx context.Context, state *State, game domain.GameProfile) {
	if !state.beginShutdown() {
		return
	}
	state.setPhase(PhaseShuttingDown)
	ctx = context.WithoutCancel(ctx)

	for _, app := range state.drainCleanup() {
		slog.InfoContext(ctx, "Restoring application", "app", app.ID, "verb", app.ShutdownVerb)
		result := o.invoker.Invoke(ctx, app, app.ShutdownVerb)
		if !result.Success {
			slog.WarnContext(ctx, "Rollback action failed, continuing", "app", app.ID, "verb", app.ShutdownVerb)
		}
	}

	state.setPhase(PhaseDone)
	slog.InfoContext(ctx, "Session finished", "game", game.ID, "duration", o.clock.Since(state.StartedAt()))
}

// awaitProcess polls for a process matching the game's pattern until the
// grace period elapses. found=false is the soft-failure outcome; err is
// non-nil only for cancellation.
func (o *Orchestrator) awaitProcess(ctx context.Context, game domain.GameProfile) (domain.Process, bool, error) {
	deadline := o.clock.Now().Add(o.startGrace)
	for {
		if err := ctx.Err(); err != nil {
			return domain.Process{}, false, err
		}

		procs, err := o.supervisor.Find(ctx, game.ProcessPattern)
		if err != nil {
			slog.WarnContext(ctx, "Process lookup failed", "pattern", game.ProcessPattern, "error", err)
		} else if len(procs) > 0 {
			return procs[0], true, nil
		}

		if !o.clock.Now().Before(deadline) {
			return domain.Process{}, false, nil
		}
		if err := o.sleep(ctx); err != nil {
			return domain.Process{}, false, err
		}
	}
}

// awaitExit blocks until the game is gone: natively when the supervisor owns
// the process, otherwise by polling the pattern until nothing matches.
func (o *Orchestrator) awaitExit(ctx context.Context, game domain.GameProfile, proc domain.Process) error {
	err := o.supervisor.Wait(ctx, proc)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, domain.ErrWaitUnsupported):
		slog.DebugContext(ctx, "Native wait unavailable, polling for exit", "game", game.ID, "pid", proc.PID)
	default:
		slog.WarnContext(ctx, "Native wait failed, polling for exit", "game", game.ID, "pid", proc.PID, "error", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		procs, err := o.supervisor.Find(ctx, game.ProcessPattern)
		if err != nil {
			slog.WarnContext(ctx, "Process lookup failed", "pattern", game.ProcessPattern, "error", err)
		} else if len(procs) == 0 {
			return nil
		}

		if err := o.sleep(ctx); err != nil {
			return err
		}
	}
}

func (o *Orchestrator) sleep(ctx context.Context) error {
	timer := o.clock.NewTimer(o.pollInterval)
	defer timer.Stop()
	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func interrupted(ctx context.Context) bool {
	return ctx.Err() != nil
}
