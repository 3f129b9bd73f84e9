package main

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/beive60/focus-game-deck-sub005/internal/apps"
	apperrors "github.com/beive60/focus-game-deck-sub005/internal/errors"
	"github.com/beive60/focus-game-deck-sub005/internal/launcher"
	"github.com/beive60/focus-game-deck-sub005/internal/obs"
	"github.com/beive60/focus-game-deck-sub005/internal/platform/logctx"
	"github.com/beive60/focus-game-deck-sub005/internal/procs"
	"github.com/beive60/focus-game-deck-sub005/internal/session"
)

var launchCmd = &cobra.Command{
	Use:   "launch <game-id>",
	Short: "Run a gaming session for the given game profile",
	Long: `Runs one full session: applies every managed application's startup
action, launches the game, waits for the game process to exit, and restores
the environment. Ctrl-C interrupts the session and still restores everything.`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

func runLaunch(cmd *cobra.Command, args []string) error {
	ctx := logctx.WithSession(cmd.Context(), logctx.NewSessionID())

	profile, path, err := loadProfile()
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Profile loaded",
		"path", path, "games", len(profile.Games), "apps", len(profile.Apps))

	game, err := profile.Game(args[0])
	if err != nil {
		return apperrors.Configuration(err.Error())
	}

	clock := clockwork.NewRealClock()
	supervisor := procs.NewSupervisor()
	leases := apps.NewLeases(supervisor)

	// The OBS stack exists only when the profile needs it. The handlers get a
	// plain nil interface otherwise, so replay verbs fail as integration
	// errors instead of dialing a socket nobody configured.
	var (
		replay     apps.ReplayBuffer
		service    *obs.Service
		dispatcher *obs.Dispatcher
	)
	if profile.OBS.Enabled {
		service = obs.NewService(obs.Options{
			URL:              profile.OBS.URL,
			Password:         profile.OBS.Password,
			HandshakeTimeout: profile.Timeouts.Handshake,
			RequestTimeout:   profile.Timeouts.Request,
			Clock:            clock,
		})
		dispatcher = obs.NewDispatcher(obs.DispatcherOptions{
			Connection: service,
			StartDelay: profile.Timeouts.DispatcherDelay,
			Clock:      clock,
		})
		replay = obs.NewReplay(service, dispatcher)
	}

	handlers := apps.NewHandlers(leases, supervisor, replay)
	registry := apps.NewRegistry()
	handlers.Register(registry)
	if err := registry.Validate(apps.SessionVerbs(game, profile.Apps)); err != nil {
		return err
	}

	orchestrator := session.New(session.Options{
		Invoker:      apps.NewController(registry),
		Launcher:     launcher.NewRegistry(supervisor, supervisor, profile.Launchers.SteamPath),
		Supervisor:   supervisor,
		Apps:         profile.Apps,
		Clock:        clock,
		StartGrace:   profile.Timeouts.StartGrace,
		PollInterval: profile.Timeouts.PollInterval,
	})

	ctx = session.NewInterrupter().Arm(ctx)
	runErr := orchestrator.Run(ctx, game)

	if dispatcher != nil {
		// Shutdown cancels jobs still waiting on their start delay; the
		// bounded wait only covers requests already in flight.
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), profile.Timeouts.Request)
		defer cancel()
		if err := dispatcher.Shutdown(drainCtx); err != nil {
			slog.WarnContext(ctx, "Background jobs not fully drained", "error", err)
		}
	}
	if service != nil {
		service.Close()
	}

	return runErr
}
