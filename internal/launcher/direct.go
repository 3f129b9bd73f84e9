package launcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// Direct executes the game binary itself. The supervisor expands
// environment tokens and glob segments in the configured path.
type Direct struct {
	supervisor domain.ProcessSupervisor
}

func NewDirect(supervisor domain.ProcessSupervisor) *Direct {
	return &Direct{supervisor: supervisor}
}

func (d *Direct) Resolve(game domain.GameProfile) (domain.LaunchSpec, error) {
	if game.ExecutablePath == "" {
		return domain.LaunchSpec{}, fmt.Errorf("game %s has no executable path", game.ID)
	}
	return domain.LaunchSpec{Path: game.ExecutablePath, Args: game.Args}, nil
}

func (d *Direct) Launch(ctx context.Context, game domain.GameProfile) error {
	spec, err := d.Resolve(game)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Launching game executable", "game", game.ID, "path", spec.Path)
	proc, err := d.supervisor.Start(ctx, spec.Path, spec.Args)
	if err != nil {
		return fmt.Errorf("launching %s: %w", spec.Path, err)
	}
	slog.DebugContext(ctx, "Game process started", "game", game.ID, "pid", proc.PID)
	return nil
}
