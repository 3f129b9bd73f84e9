package apps

import (
	"context"
	"fmt"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// ReplayBuffer is the slice of the remote-control integration the verb
// handlers need. StartAsync must return immediately: the buffer-start job
// runs in the background and gates nothing downstream. Stop is synchronous
// best-effort.
type ReplayBuffer interface {
	StartAsync(ctx context.Context)
	Stop(ctx context.Context) error
}

// Handlers implements the closed verb set on top of the process supervisor,
// the command runner, the lease registry, and the optional replay-buffer
// integration.
type Handlers struct {
	leases *Leases
	runner domain.CommandRunner
	replay ReplayBuffer // nil when no OBS integration is configured
}

// NewHandlers wires the standard verb handlers. replay may be nil; the
// replay-buffer verbs then fail as integration errors and everything else
// still works.
func NewHandlers(leases *Leases, runner domain.CommandRunner, replay ReplayBuffer) *Handlers {
	return &Handlers{leases: leases, runner: runner, replay: replay}
}

// Register binds every verb of the closed set into the registry.
func (h *Handlers) Register(registry *Registry) {
	registry.Register(domain.VerbNone, h.none)
	registry.Register(domain.VerbStartProcess, h.startProcess)
	registry.Register(domain.VerbStopProcess, h.stopProcess)
	registry.Register(domain.VerbToggleHotkeys, h.toggleHotkeys)
	registry.Register(domain.VerbPauseWallpaper, h.pauseWallpaper)
	registry.Register(domain.VerbPlayWallpaper, h.playWallpaper)
	registry.Register(domain.VerbStartReplayBuffer, h.startReplayBuffer)
	registry.Register(domain.VerbStopReplayBuffer, h.stopReplayBuffer)
}

func (h *Handlers) none(context.Context, domain.AppProfile) (domain.ActionResult, error) {
	return domain.ActionResult{Success: true, AlreadyInDesiredState: true}, nil
}

func (h *Handlers) startProcess(ctx context.Context, app domain.AppProfile) (domain.ActionResult, error) {
	acquired, err := h.leases.Acquire(ctx, app)
	if err != nil {
		return domain.ActionResult{}, err
	}
	switch acquired {
	case AcquireExternal:
		// Running before we got here: report success, change nothing, and
		// keep it off the automatic stop list.
		return domain.ActionResult{Success: true, AlreadyInDesiredState: true}, nil
	default:
		return domain.ActionResult{Success: true}, nil
	}
}

func (h *Handlers) stopProcess(ctx context.Context, app domain.AppProfile) (domain.ActionResult, error) {
	released, err := h.leases.Release(ctx, app)
	if err != nil {
		return domain.ActionResult{}, err
	}
	if released == ReleaseNotRunning {
		return domain.ActionResult{Success: true, AlreadyInDesiredState: true}, nil
	}
	return domain.ActionResult{Success: true}, nil
}

func (h *Handlers) toggleHotkeys(ctx context.Context, app domain.AppProfile) (domain.ActionResult, error) {
	return h.runControl(ctx, app, app.ToggleArgs)
}

func (h *Handlers) pauseWallpaper(ctx context.Context, app domain.AppProfile) (domain.ActionResult, error) {
	return h.runControl(ctx, app, app.PauseArgs)
}

func (h *Handlers) playWallpaper(ctx context.Context, app domain.AppProfile) (domain.ActionResult, error) {
	return h.runControl(ctx, app, app.PlayArgs)
}

// runControl fires a one-shot control invocation of the application binary.
// The tool handles the actual toggling; success only means the command ran.
func (h *Handlers) runControl(ctx context.Context, app domain.AppProfile, args []string) (domain.ActionResult, error) {
	if err := h.runner.Run(ctx, app.Path, args); err != nil {
		return domain.ActionResult{}, err
	}
	return domain.ActionResult{Success: true}, nil
}

// startReplayBuffer brings the OBS process up with the same already-running
// semantics as start-process, then hands the buffer-start request to the
// background dispatcher. It never blocks on OBS readiness: the control
// socket is typically not up yet when this runs.
func (h *Handlers) startReplayBuffer(ctx context.Context, app domain.AppProfile) (domain.ActionResult, error) {
	if h.replay == nil {
		return domain.ActionResult{}, fmt.Errorf("no OBS integration configured")
	}

	acquired, err := h.leases.Acquire(ctx, app)
	if err != nil {
		return domain.ActionResult{}, err
	}

	h.replay.StartAsync(ctx)

	// The verb itself enrolls cleanup, so the shared/external distinction
	// only affects whether a lease must be released later.
	return domain.ActionResult{Success: true, AlreadyInDesiredState: acquired == AcquireExternal}, nil
}

// stopReplayBuffer synchronously asks OBS to stop the replay buffer. The OBS
// process is left running on purpose: it is a user-facing tool and profiles
// that want it terminated configure stop-process instead.
func (h *Handlers) stopReplayBuffer(ctx context.Context, app domain.AppProfile) (domain.ActionResult, error) {
	if h.replay == nil {
		return domain.ActionResult{}, fmt.Errorf("no OBS integration configured")
	}
	if err := h.replay.Stop(ctx); err != nil {
		return domain.ActionResult{}, err
	}
	return domain.ActionResult{Success: true}, nil
}
