package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beive60/focus-game-deck-sub005/internal/config"
	apperrors "github.com/beive60/focus-game-deck-sub005/internal/errors"
	"github.com/beive60/focus-game-deck-sub005/internal/platform/logging"
)

var (
	// Global flags
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string

	// settings holds the GAMEDECK_* environment values, loaded before any
	// command body runs. Flags take precedence over them.
	settings config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "gamedeck",
	Short: "gamedeck orchestrates distraction-free gaming sessions",
	Long: `gamedeck runs a game inside a managed session: it applies each managed
application's startup action, launches the game through its store platform,
waits for the game process to exit, and restores the environment afterwards.
An interrupted session restores the environment too.

Profiles live in gamedeck.yaml; run 'gamedeck check' to validate one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.LoadSettings()
		if err != nil {
			return err
		}
		if flagLogLevel != "" {
			settings.LogLevel = flagLogLevel
		}
		if flagLogFormat != "" {
			settings.LogFormat = flagLogFormat
		}
		logging.InitLogger(settings.LogLevel, settings.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "",
		"Profile file (default: GAMEDECK_CONFIG, ./gamedeck.yaml, then the user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"Log level: debug, info, warn, error (default: info)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "",
		"Log format: text or json (default: text)")

	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitCode(err))
	}
}

// loadProfile resolves and loads the profile file for the current invocation.
func loadProfile() (*config.Profile, string, error) {
	path, err := config.Locate(flagConfig, settings)
	if err != nil {
		return nil, "", err
	}
	profile, err := config.Load(path, settings)
	if err != nil {
		return nil, "", err
	}
	return profile, path, nil
}
