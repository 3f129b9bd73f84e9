package launcher

import (
	"context"
	"fmt"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// Registry dispatches launch commands to the launcher registered for the
// game's platform tag. It implements domain.GameLauncher itself so callers
// never branch on platforms.
type Registry struct {
	launchers map[domain.Platform]domain.GameLauncher
}

// NewRegistry wires the four supported platforms. steamPath may be empty;
// the Steam launcher then falls back to its URI scheme.
func NewRegistry(supervisor domain.ProcessSupervisor, runner domain.CommandRunner, steamPath string) *Registry {
	opener := NewURIOpener(runner)
	return &Registry{
		launchers: map[domain.Platform]domain.GameLauncher{
			domain.PlatformSteam:  NewSteam(supervisor, opener, steamPath),
			domain.PlatformEpic:   NewEpic(opener),
			domain.PlatformDirect: NewDirect(supervisor),
			domain.PlatformNone:   None{},
		},
	}
}

func (r *Registry) Resolve(game domain.GameProfile) (domain.LaunchSpec, error) {
	l, err := r.launcher(game.Platform)
	if err != nil {
		return domain.LaunchSpec{}, err
	}
	return l.Resolve(game)
}

func (r *Registry) Launch(ctx context.Context, game domain.GameProfile) error {
	l, err := r.launcher(game.Platform)
	if err != nil {
		return err
	}
	return l.Launch(ctx, game)
}

func (r *Registry) launcher(platform domain.Platform) (domain.GameLauncher, error) {
	l, ok := r.launchers[platform]
	if !ok {
		return nil, fmt.Errorf("no launcher for platform %q", platform)
	}
	return l, nil
}
