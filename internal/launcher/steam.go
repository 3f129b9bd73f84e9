package launcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// Steam launches games through the Steam client. With an explicit client
// path configured it invokes `steam -applaunch <appid>` directly; otherwise
// it opens the rungameid URI and lets the installed client take over.
type Steam struct {
	supervisor domain.ProcessSupervisor
	opener     *URIOpener
	steamPath  string
}

func NewSteam(supervisor domain.ProcessSupervisor, opener *URIOpener, steamPath string) *Steam {
	return &Steam{supervisor: supervisor, opener: opener, steamPath: steamPath}
}

func (s *Steam) Resolve(game domain.GameProfile) (domain.LaunchSpec, error) {
	if game.SteamAppID == "" {
		return domain.LaunchSpec{}, fmt.Errorf("game %s has no steam app id", game.ID)
	}
	if s.steamPath != "" {
		return domain.LaunchSpec{Path: s.steamPath, Args: []string{"-applaunch", game.SteamAppID}}, nil
	}
	return domain.LaunchSpec{URI: "steam://rungameid/" + game.SteamAppID}, nil
}

func (s *Steam) Launch(ctx context.Context, game domain.GameProfile) error {
	spec, err := s.Resolve(game)
	if err != nil {
		return err
	}
	if spec.URI != "" {
		slog.InfoContext(ctx, "Launching game via Steam URI", "game", game.ID, "uri", spec.URI)
		return s.opener.Open(ctx, spec.URI)
	}
	slog.InfoContext(ctx, "Launching game via Steam client", "game", game.ID, "app_id", game.SteamAppID)
	if _, err := s.supervisor.Start(ctx, spec.Path, spec.Args); err != nil {
		return fmt.Errorf("launching steam client: %w", err)
	}
	return nil
}
