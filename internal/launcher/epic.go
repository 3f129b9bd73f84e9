package launcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// Epic launches games through the Epic Games Launcher's URI scheme. The
// silent flag keeps the launcher window in the background.
type Epic struct {
	opener *URIOpener
}

func NewEpic(opener *URIOpener) *Epic {
	return &Epic{opener: opener}
}

func (e *Epic) Resolve(game domain.GameProfile) (domain.LaunchSpec, error) {
	if game.EpicAppID == "" {
		return domain.LaunchSpec{}, fmt.Errorf("game %s has no epic app id", game.ID)
	}
	uri := fmt.Sprintf("com.epicgames.launcher://apps/%s?action=launch&silent=true", game.EpicAppID)
	return domain.LaunchSpec{URI: uri}, nil
}

func (e *Epic) Launch(ctx context.Context, game domain.GameProfile) error {
	spec, err := e.Resolve(game)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Launching game via Epic URI", "game", game.ID, "uri", spec.URI)
	return e.opener.Open(ctx, spec.URI)
}
