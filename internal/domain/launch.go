package domain

import "context"

// LaunchSpec is a resolved launch command. URI is set for store-mediated
// launches, Path and Args for direct executions; a none-platform game
// resolves to an empty spec.
type LaunchSpec struct {
	Path string
	Args []string
	URI  string
}

// GameLauncher resolves and issues the platform-specific launch command.
// Resolve never launches; Launch may resolve internally.
type GameLauncher interface {
	Resolve(game GameProfile) (LaunchSpec, error)
	Launch(ctx context.Context, game GameProfile) error
}
