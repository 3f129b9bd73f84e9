package domain

import "context"

// Verb is one named action applied to a managed application at a lifecycle
// point. The set is closed and versioned: configuration referencing anything
// else fails validation before a session starts.
type Verb string

const (
	VerbNone              Verb = "none"
	VerbStartProcess      Verb = "start-process"
	VerbStopProcess       Verb = "stop-process"
	VerbToggleHotkeys     Verb = "toggle-hotkeys"
	VerbStartReplayBuffer Verb = "start-replay-buffer"
	VerbStopReplayBuffer  Verb = "stop-replay-buffer"
	VerbPauseWallpaper    Verb = "pause-wallpaper"
	VerbPlayWallpaper     Verb = "play-wallpaper"
)

// Verbs lists the closed verb set.
func Verbs() []Verb {
	return []Verb{
		VerbNone,
		VerbStartProcess,
		VerbStopProcess,
		VerbToggleHotkeys,
		VerbStartReplayBuffer,
		VerbStopReplayBuffer,
		VerbPauseWallpaper,
		VerbPlayWallpaper,
	}
}

// ParseVerb resolves a configured verb string, reporting false for anything
// outside the closed set.
func ParseVerb(s string) (Verb, bool) {
	for _, v := range Verbs() {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// EnrollsCleanup reports whether a successful setup invocation of v enrolls
// the application for its shutdown verb even when no process state changed.
// These are the idempotent-toggle verbs: what they did at setup must be
// undone at shutdown regardless of who owns the process.
func (v Verb) EnrollsCleanup() bool {
	switch v {
	case VerbToggleHotkeys, VerbStartReplayBuffer, VerbStopReplayBuffer,
		VerbPauseWallpaper, VerbPlayWallpaper:
		return true
	default:
		return false
	}
}

// AppProfile describes one managed application: an auxiliary program the
// orchestrator can start, stop, or toggle around a game session.
type AppProfile struct {
	ID string
	// Path may contain environment tokens ($VAR or %VAR%) and glob segments,
	// resolved at invocation time.
	Path string
	Args []string
	// ProcessPattern uses the same grammar as GameProfile.ProcessPattern.
	ProcessPattern string
	StartupVerb    Verb
	ShutdownVerb   Verb
	// Arguments for the exec-style custom verbs.
	ToggleArgs []string
	PauseArgs  []string
	PlayArgs   []string
}

// ActionResult reports the outcome of one verb invocation.
// AlreadyInDesiredState means the invocation changed nothing: an application
// found already running by start-process (or already stopped by
// stop-process) is excluded from automatic rollback at shutdown.
type ActionResult struct {
	Success               bool
	AlreadyInDesiredState bool
}

// ActionInvoker executes one verb against one managed application. Failures
// are absorbed at this boundary: a false Success is already logged and the
// caller simply proceeds to the next item.
type ActionInvoker interface {
	Invoke(ctx context.Context, app AppProfile, verb Verb) ActionResult
}
