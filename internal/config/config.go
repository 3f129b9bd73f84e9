package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
	apperrors "github.com/beive60/focus-game-deck-sub005/internal/errors"
	"github.com/beive60/focus-game-deck-sub005/internal/procs"
)

// DefaultOBSURL is used when an OBS integration is configured without an
// explicit websocket address.
const DefaultOBSURL = "ws://localhost:4455"

// Timeout defaults. Every value stays overridable through the profile file.
const (
	DefaultHandshakeTimeout = 5 * time.Second
	DefaultStartGrace       = 300 * time.Second
	DefaultPollInterval     = 3 * time.Second
	DefaultRequestTimeout   = 10 * time.Second
	DefaultDispatcherDelay  = 5 * time.Second
)

// Profile is the validated, immutable session configuration.
type Profile struct {
	Games     []domain.GameProfile
	Apps      map[string]domain.AppProfile
	OBS       OBS
	Launchers Launchers
	Timeouts  Timeouts
}

// OBS holds the connection settings for the obs-websocket integration.
// Enabled is false when no game references a replay-buffer verb and no obs
// section is present; the session then carries no OBS client at all.
type OBS struct {
	URL      string
	Password string
	Enabled  bool
}

// Launchers carries explicit store launcher executables. Empty fields fall
// back to URI-scheme launches and best-effort detection.
type Launchers struct {
	SteamPath string
	EpicPath  string
}

// Timeouts are the session timing knobs, defaulted but never hard-coded.
type Timeouts struct {
	Handshake       time.Duration
	StartGrace      time.Duration
	PollInterval    time.Duration
	Request         time.Duration
	DispatcherDelay time.Duration
}

// Game looks up a game profile by id.
func (p *Profile) Game(id string) (domain.GameProfile, error) {
	for _, g := range p.Games {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.GameProfile{}, fmt.Errorf("%w: %q", domain.ErrGameNotFound, id)
}

// App looks up a managed application profile by id.
func (p *Profile) App(id string) (domain.AppProfile, error) {
	app, ok := p.Apps[id]
	if !ok {
		return domain.AppProfile{}, fmt.Errorf("%w: %q", domain.ErrAppNotFound, id)
	}
	return app, nil
}

// --- YAML shapes ---
//
// The file uses raw strings for verbs and platform tags; Load converts them
// into the closed domain types so an unrecognized value is a configuration
// error before the session starts, never a runtime fault.

type fileProfile struct {
	OBS       obsYAML       `yaml:"obs"`
	Launchers launchersYAML `yaml:"launchers"`
	Timeouts  timeoutsYAML  `yaml:"timeouts"`
	Apps      []appYAML     `yaml:"apps"`
	Games     []gameYAML    `yaml:"games"`
}

type obsYAML struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

type launchersYAML struct {
	SteamPath string `yaml:"steamPath"`
	EpicPath  string `yaml:"epicPath"`
}

type timeoutsYAML struct {
	Handshake       *duration `yaml:"handshake"`
	StartGrace      *duration `yaml:"startGrace"`
	PollInterval    *duration `yaml:"pollInterval"`
	Request         *duration `yaml:"request"`
	DispatcherDelay *duration `yaml:"dispatcherDelay"`
}

type appYAML struct {
	ID             string   `yaml:"id"`
	Path           string   `yaml:"path"`
	Args           []string `yaml:"args"`
	ProcessPattern string   `yaml:"processPattern"`
	StartupAction  string   `yaml:"startupAction"`
	ShutdownAction string   `yaml:"shutdownAction"`
	ToggleArgs     []string `yaml:"toggleArgs"`
	PauseArgs      []string `yaml:"pauseArgs"`
	PlayArgs       []string `yaml:"playArgs"`
}

type gameYAML struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Platform       string   `yaml:"platform"`
	SteamAppID     string   `yaml:"steamAppId"`
	EpicAppID      string   `yaml:"epicAppId"`
	ExecutablePath string   `yaml:"executablePath"`
	Args           []string `yaml:"args"`
	ProcessPattern string   `yaml:"processPattern"`
	Apps           []string `yaml:"apps"`
}

// duration decodes "5s"-style YAML strings into a time.Duration.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = duration(parsed)
	return nil
}

// Load reads, parses, and validates the profile file. The settings override
// for the OBS password is applied here so secrets can stay out of the file.
// Any violation is a configuration error; a profile that Load accepts never
// produces a configuration fault mid-session.
func Load(path string, settings Settings) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Configuration(fmt.Sprintf("reading profile file %s: %v", path, err))
	}

	var file fileProfile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, apperrors.Configuration(fmt.Sprintf("parsing profile file %s: %v", path, err))
	}

	profile, err := build(file)
	if err != nil {
		return nil, err
	}

	if settings.OBSPassword != "" {
		profile.OBS.Password = settings.OBSPassword
	}
	return profile, nil
}

func build(file fileProfile) (*Profile, error) {
	profile := &Profile{
		Apps: make(map[string]domain.AppProfile, len(file.Apps)),
		Launchers: Launchers{
			SteamPath: file.Launchers.SteamPath,
			EpicPath:  file.Launchers.EpicPath,
		},
		Timeouts: Timeouts{
			Handshake:       timeoutOrDefault(file.Timeouts.Handshake, DefaultHandshakeTimeout),
			StartGrace:      timeoutOrDefault(file.Timeouts.StartGrace, DefaultStartGrace),
			PollInterval:    timeoutOrDefault(file.Timeouts.PollInterval, DefaultPollInterval),
			Request:         timeoutOrDefault(file.Timeouts.Request, DefaultRequestTimeout),
			DispatcherDelay: timeoutOrDefault(file.Timeouts.DispatcherDelay, DefaultDispatcherDelay),
		},
	}

	if err := validateTimeouts(profile.Timeouts); err != nil {
		return nil, err
	}

	usesOBS := false
	for _, raw := range file.Apps {
		app, needsOBS, err := buildApp(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := profile.Apps[app.ID]; dup {
			return nil, apperrors.Configuration(fmt.Sprintf("duplicate managed application id %q", app.ID))
		}
		profile.Apps[app.ID] = app
		usesOBS = usesOBS || needsOBS
	}

	profile.Games = make([]domain.GameProfile, 0, len(file.Games))
	seen := make(map[string]struct{}, len(file.Games))
	for _, raw := range file.Games {
		game, err := buildGame(raw, profile.Apps)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[game.ID]; dup {
			return nil, apperrors.Configuration(fmt.Sprintf("duplicate game id %q", game.ID))
		}
		seen[game.ID] = struct{}{}
		profile.Games = append(profile.Games, game)
	}

	profile.OBS = OBS{
		URL:      file.OBS.URL,
		Password: file.OBS.Password,
		Enabled:  usesOBS || file.OBS.URL != "",
	}
	if profile.OBS.Enabled && profile.OBS.URL == "" {
		profile.OBS.URL = DefaultOBSURL
	}

	return profile, nil
}

func buildApp(raw appYAML) (domain.AppProfile, bool, error) {
	if raw.ID == "" {
		return domain.AppProfile{}, false, apperrors.Configuration("managed application without an id")
	}

	startup, ok := domain.ParseVerb(orNone(raw.StartupAction))
	if !ok {
		return domain.AppProfile{}, false, apperrors.Configuration(
			fmt.Sprintf("app %q: unknown startup action %q", raw.ID, raw.StartupAction))
	}
	shutdown, ok := domain.ParseVerb(orNone(raw.ShutdownAction))
	if !ok {
		return domain.AppProfile{}, false, apperrors.Configuration(
			fmt.Sprintf("app %q: unknown shutdown action %q", raw.ID, raw.ShutdownAction))
	}

	app := domain.AppProfile{
		ID:             raw.ID,
		Path:           raw.Path,
		Args:           raw.Args,
		ProcessPattern: raw.ProcessPattern,
		StartupVerb:    startup,
		ShutdownVerb:   shutdown,
		ToggleArgs:     raw.ToggleArgs,
		PauseArgs:      raw.PauseArgs,
		PlayArgs:       raw.PlayArgs,
	}

	needsOBS := false
	for _, verb := range []domain.Verb{startup, shutdown} {
		switch verb {
		case domain.VerbStartProcess, domain.VerbStopProcess:
			if app.ProcessPattern == "" {
				return domain.AppProfile{}, false, apperrors.Configuration(
					fmt.Sprintf("app %q: verb %s requires a processPattern", raw.ID, verb))
			}
		case domain.VerbStartReplayBuffer:
			needsOBS = true
			if app.ProcessPattern == "" {
				return domain.AppProfile{}, false, apperrors.Configuration(
					fmt.Sprintf("app %q: verb %s requires a processPattern", raw.ID, verb))
			}
		case domain.VerbStopReplayBuffer:
			needsOBS = true
		}
		if requiresPath(verb) && app.Path == "" {
			return domain.AppProfile{}, false, apperrors.Configuration(
				fmt.Sprintf("app %q: verb %s requires a path", raw.ID, verb))
		}
	}

	if app.ProcessPattern != "" {
		if _, err := procs.Compile(app.ProcessPattern); err != nil {
			return domain.AppProfile{}, false, apperrors.Configuration(
				fmt.Sprintf("app %q: %v", raw.ID, err))
		}
	}

	return app, needsOBS, nil
}

func requiresPath(verb domain.Verb) bool {
	switch verb {
	case domain.VerbStartProcess, domain.VerbStartReplayBuffer,
		domain.VerbToggleHotkeys, domain.VerbPauseWallpaper, domain.VerbPlayWallpaper:
		return true
	default:
		return false
	}
}

func buildGame(raw gameYAML, apps map[string]domain.AppProfile) (domain.GameProfile, error) {
	if raw.ID == "" {
		return domain.GameProfile{}, apperrors.Configuration("game without an id")
	}

	platform, ok := domain.ParsePlatform(raw.Platform)
	if !ok {
		return domain.GameProfile{}, apperrors.Configuration(
			fmt.Sprintf("game %q: unknown platform %q", raw.ID, raw.Platform))
	}

	switch platform {
	case domain.PlatformSteam:
		if raw.SteamAppID == "" {
			return domain.GameProfile{}, apperrors.Configuration(
				fmt.Sprintf("game %q: steam platform requires steamAppId", raw.ID))
		}
	case domain.PlatformEpic:
		if raw.EpicAppID == "" {
			return domain.GameProfile{}, apperrors.Configuration(
				fmt.Sprintf("game %q: epic platform requires epicAppId", raw.ID))
		}
	case domain.PlatformDirect:
		if raw.ExecutablePath == "" {
			return domain.GameProfile{}, apperrors.Configuration(
				fmt.Sprintf("game %q: direct platform requires executablePath", raw.ID))
		}
	}

	if raw.ProcessPattern == "" {
		return domain.GameProfile{}, apperrors.Configuration(
			fmt.Sprintf("game %q: processPattern is required for monitoring", raw.ID))
	}
	if _, err := procs.Compile(raw.ProcessPattern); err != nil {
		return domain.GameProfile{}, apperrors.Configuration(fmt.Sprintf("game %q: %v", raw.ID, err))
	}

	referenced := make(map[string]struct{}, len(raw.Apps))
	for _, ref := range raw.Apps {
		if _, ok := apps[ref]; !ok {
			return domain.GameProfile{}, apperrors.Configuration(
				fmt.Sprintf("game %q references unknown app %q", raw.ID, ref))
		}
		if _, dup := referenced[ref]; dup {
			return domain.GameProfile{}, apperrors.Configuration(
				fmt.Sprintf("game %q references app %q twice", raw.ID, ref))
		}
		referenced[ref] = struct{}{}
	}

	name := raw.Name
	if name == "" {
		name = raw.ID
	}

	return domain.GameProfile{
		ID:             raw.ID,
		Name:           name,
		Platform:       platform,
		SteamAppID:     raw.SteamAppID,
		EpicAppID:      raw.EpicAppID,
		ExecutablePath: raw.ExecutablePath,
		Args:           raw.Args,
		ProcessPattern: raw.ProcessPattern,
		Apps:           raw.Apps,
	}, nil
}

func validateTimeouts(t Timeouts) error {
	checks := map[string]time.Duration{
		"handshake":       t.Handshake,
		"startGrace":      t.StartGrace,
		"pollInterval":    t.PollInterval,
		"request":         t.Request,
		"dispatcherDelay": t.DispatcherDelay,
	}
	for name, value := range checks {
		if value < 0 {
			return apperrors.Configuration(fmt.Sprintf("timeout %s must not be negative", name))
		}
	}
	if t.PollInterval == 0 {
		return apperrors.Configuration("timeout pollInterval must be positive")
	}
	return nil
}

func timeoutOrDefault(d *duration, fallback time.Duration) time.Duration {
	if d == nil {
		return fallback
	}
	return time.Duration(*d)
}

func orNone(verb string) string {
	if verb == "" {
		return string(domain.VerbNone)
	}
	return verb
}

// Locate resolves the profile file path: the --config flag beats
// GAMEDECK_CONFIG beats ./gamedeck.yaml beats the XDG config directory.
func Locate(flagPath string, settings Settings) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if settings.ConfigPath != "" {
		return settings.ConfigPath, nil
	}

	candidates := []string{"gamedeck.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "gamedeck", "gamedeck.yaml"))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", apperrors.Configuration(
		"no profile file found: pass --config, set GAMEDECK_CONFIG, or create gamedeck.yaml")
}
