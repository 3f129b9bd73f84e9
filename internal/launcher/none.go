package launcher

import (
	"context"
	"log/slog"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// None is the null platform for games the player starts themselves;
// monitoring picks the process up by pattern.
type None struct{}

func (None) Resolve(domain.GameProfile) (domain.LaunchSpec, error) {
	return domain.LaunchSpec{}, nil
}

func (None) Launch(ctx context.Context, game domain.GameProfile) error {
	slog.InfoContext(ctx, "Game assumed already running, skipping launch", "game", game.ID)
	return nil
}
