package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/beive60/focus-game-deck-sub005/internal/config"
	"github.com/beive60/focus-game-deck-sub005/internal/launcher"
	"github.com/beive60/focus-game-deck-sub005/internal/obs"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the profile and report detected store launchers",
	Long: `Loads and validates the profile file, reports which store launchers are
installed, and probes the obs-websocket endpoint when the profile uses one.
Validation problems exit with status 2. An unreachable OBS is reported but
not fatal: sessions start OBS on demand.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	profile, path, err := loadProfile()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Profile %s: OK (%d games, %d managed applications)\n",
		path, len(profile.Games), len(profile.Apps))

	detected := launcher.Detect()
	steam := profile.Launchers.SteamPath
	if steam == "" {
		steam = detected.SteamPath
	}
	epic := profile.Launchers.EpicPath
	if epic == "" {
		epic = detected.EpicPath
	}
	fmt.Fprintf(out, "Steam: %s\n", orNotFound(steam))
	fmt.Fprintf(out, "Epic:  %s\n", orNotFound(epic))

	if profile.OBS.Enabled {
		probeOBS(cmd.Context(), out, profile)
	}
	return nil
}

// probeOBS asks the configured endpoint for its version.
func probeOBS(ctx context.Context, out io.Writer, profile *config.Profile) {
	service := obs.NewService(obs.Options{
		URL:              profile.OBS.URL,
		Password:         profile.OBS.Password,
		HandshakeTimeout: profile.Timeouts.Handshake,
		RequestTimeout:   profile.Timeouts.Request,
		Clock:            clockwork.NewRealClock(),
	})
	defer service.Close()

	probeCtx, cancel := context.WithTimeout(ctx, profile.Timeouts.Handshake+profile.Timeouts.Request)
	defer cancel()

	raw, err := service.Request(probeCtx, obs.RequestGetVersion, nil)
	if err != nil {
		fmt.Fprintf(out, "OBS:   %s unreachable (%v)\n", profile.OBS.URL, err)
		return
	}

	var info struct {
		ObsVersion          string `json:"obsVersion"`
		ObsWebSocketVersion string `json:"obsWebSocketVersion"`
	}
	if err := json.Unmarshal(raw, &info); err != nil || info.ObsVersion == "" {
		fmt.Fprintf(out, "OBS:   %s connected\n", profile.OBS.URL)
		return
	}
	fmt.Fprintf(out, "OBS:   %s connected (OBS %s, obs-websocket %s)\n",
		profile.OBS.URL, info.ObsVersion, info.ObsWebSocketVersion)
}

func orNotFound(path string) string {
	if path == "" {
		return "not found"
	}
	return path
}
