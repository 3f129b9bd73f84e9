package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
	apperrors "github.com/beive60/focus-game-deck-sub005/internal/errors"
)

const sampleProfile = `
obs:
  url: ws://localhost:4455
  password: filepass

launchers:
  steamPath: /usr/bin/steam

timeouts:
  handshake: 2s
  pollInterval: 1s

apps:
  - id: obs
    path: /usr/bin/obs
    processPattern: obs64|obs
    startupAction: start-replay-buffer
    shutdownAction: stop-replay-buffer
  - id: clipboard
    path: /opt/clibor/clibor
    processPattern: clibor
    startupAction: toggle-hotkeys
    shutdownAction: toggle-hotkeys
    toggleArgs: ["/hs"]
  - id: wallpaper
    path: /opt/wallpaper/wallpaper64
    startupAction: pause-wallpaper
    shutdownAction: play-wallpaper
    pauseArgs: ["-control", "pause"]
    playArgs: ["-control", "play"]

games:
  - id: apex
    name: Apex Legends
    platform: steam
    steamAppId: "1172470"
    processPattern: r5apex*
    apps: [obs, clipboard, wallpaper]
  - id: indie
    name: Local Build
    platform: direct
    executablePath: /opt/games/indie/run
    processPattern: indie
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamedeck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullProfile(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile), Settings{})
	require.NoError(t, err)

	require.Len(t, profile.Games, 2)
	game := profile.Games[0]
	assert.Equal(t, "apex", game.ID)
	assert.Equal(t, domain.PlatformSteam, game.Platform)
	assert.Equal(t, "1172470", game.SteamAppID)
	assert.Equal(t, []string{"obs", "clipboard", "wallpaper"}, game.Apps)

	obsApp, err := profile.App("obs")
	require.NoError(t, err)
	assert.Equal(t, domain.VerbStartReplayBuffer, obsApp.StartupVerb)
	assert.Equal(t, domain.VerbStopReplayBuffer, obsApp.ShutdownVerb)

	assert.True(t, profile.OBS.Enabled)
	assert.Equal(t, "ws://localhost:4455", profile.OBS.URL)
	assert.Equal(t, "filepass", profile.OBS.Password)
	assert.Equal(t, "/usr/bin/steam", profile.Launchers.SteamPath)
}

func TestLoad_TimeoutOverridesAndDefaults(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile), Settings{})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, profile.Timeouts.Handshake)
	assert.Equal(t, time.Second, profile.Timeouts.PollInterval)
	assert.Equal(t, DefaultStartGrace, profile.Timeouts.StartGrace)
	assert.Equal(t, DefaultRequestTimeout, profile.Timeouts.Request)
	assert.Equal(t, DefaultDispatcherDelay, profile.Timeouts.DispatcherDelay)
}

func TestLoad_PasswordOverrideFromEnvironment(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile), Settings{OBSPassword: "secret-from-env"})
	require.NoError(t, err)

	assert.Equal(t, "secret-from-env", profile.OBS.Password)
}

func TestLoad_UnknownVerbIsConfigurationError(t *testing.T) {
	_, err := Load(writeProfile(t, `
apps:
  - id: tool
    path: /usr/bin/tool
    processPattern: tool
    startupAction: restart-process
`), Settings{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "restart-process")
}

func TestLoad_UnknownPlatformIsConfigurationError(t *testing.T) {
	_, err := Load(writeProfile(t, `
games:
  - id: game
    platform: gog
    processPattern: game
`), Settings{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestLoad_UnresolvedAppReference(t *testing.T) {
	_, err := Load(writeProfile(t, `
games:
  - id: game
    platform: none
    processPattern: game
    apps: [ghost]
`), Settings{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "ghost")
}

func TestLoad_MalformedProcessPattern(t *testing.T) {
	_, err := Load(writeProfile(t, `
games:
  - id: game
    platform: none
    processPattern: "ga*me"
`), Settings{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestLoad_MissingPlatformIdentifier(t *testing.T) {
	for name, body := range map[string]string{
		"steam without appid": `
games:
  - id: game
    platform: steam
    processPattern: game
`,
		"epic without appid": `
games:
  - id: game
    platform: epic
    processPattern: game
`,
		"direct without path": `
games:
  - id: game
    platform: direct
    processPattern: game
`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeProfile(t, body), Settings{})
			require.Error(t, err)
			assert.True(t, apperrors.IsConfiguration(err))
		})
	}
}

func TestLoad_ProcessVerbRequiresPattern(t *testing.T) {
	_, err := Load(writeProfile(t, `
apps:
  - id: tool
    path: /usr/bin/tool
    startupAction: start-process
    shutdownAction: stop-process
`), Settings{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestLoad_DuplicateGameID(t *testing.T) {
	_, err := Load(writeProfile(t, `
games:
  - id: game
    platform: none
    processPattern: game
  - id: game
    platform: none
    processPattern: game
`), Settings{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestLoad_DuplicateAppReference(t *testing.T) {
	_, err := Load(writeProfile(t, `
apps:
  - id: tool
    path: /usr/bin/tool
    processPattern: tool
    startupAction: start-process
    shutdownAction: stop-process
games:
  - id: game
    platform: none
    processPattern: game
    apps: [tool, tool]
`), Settings{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestLoad_VerbsDefaultToNone(t *testing.T) {
	profile, err := Load(writeProfile(t, `
apps:
  - id: passive
games:
  - id: game
    platform: none
    processPattern: game
    apps: [passive]
`), Settings{})
	require.NoError(t, err)

	app, err := profile.App("passive")
	require.NoError(t, err)
	assert.Equal(t, domain.VerbNone, app.StartupVerb)
	assert.Equal(t, domain.VerbNone, app.ShutdownVerb)
	assert.False(t, profile.OBS.Enabled)
}

func TestLoad_OBSDefaultsWhenReplayVerbsPresent(t *testing.T) {
	profile, err := Load(writeProfile(t, `
apps:
  - id: obs
    path: /usr/bin/obs
    processPattern: obs64
    startupAction: start-replay-buffer
    shutdownAction: stop-replay-buffer
`), Settings{})
	require.NoError(t, err)

	assert.True(t, profile.OBS.Enabled)
	assert.Equal(t, DefaultOBSURL, profile.OBS.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Settings{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestProfile_GameNotFound(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile), Settings{})
	require.NoError(t, err)

	_, err = profile.Game("missing")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestLocate_Order(t *testing.T) {
	assert.Equal(t, "flag.yaml", mustLocate(t, "flag.yaml", Settings{ConfigPath: "env.yaml"}))
	assert.Equal(t, "env.yaml", mustLocate(t, "", Settings{ConfigPath: "env.yaml"}))
}

func TestLocate_FindsWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gamedeck.yaml"), []byte("{}"), 0o644))
	t.Chdir(dir)

	path, err := Locate("", Settings{})
	require.NoError(t, err)
	assert.Equal(t, "gamedeck.yaml", path)
}

func TestLoadSettings_Defaults(t *testing.T) {
	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Equal(t, "text", settings.LogFormat)
}

func TestLoadSettings_ReadsEnvironment(t *testing.T) {
	t.Setenv("GAMEDECK_LOG_LEVEL", "debug")
	t.Setenv("GAMEDECK_OBS_PASSWORD", "hunter2")

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, "hunter2", settings.OBSPassword)
}

func mustLocate(t *testing.T, flagPath string, settings Settings) string {
	t.Helper()
	path, err := Locate(flagPath, settings)
	require.NoError(t, err)
	return path
}
