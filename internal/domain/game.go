package domain

// Platform identifies how a game gets launched.
type Platform string

const (
	// PlatformSteam hands the Steam app ID to the Steam client.
	PlatformSteam Platform = "steam"
	// PlatformEpic hands the Epic catalog ID to the Epic Games Launcher.
	PlatformEpic Platform = "epic"
	// PlatformDirect executes a resolved absolute path.
	PlatformDirect Platform = "direct"
	// PlatformNone skips launching; the process is assumed already running.
	PlatformNone Platform = "none"
)

// Platforms lists the supported platform tags.
func Platforms() []Platform {
	return []Platform{PlatformSteam, PlatformEpic, PlatformDirect, PlatformNone}
}

// ParsePlatform resolves a configured platform tag, reporting false for
// anything outside the supported set.
func ParsePlatform(s string) (Platform, bool) {
	for _, p := range Platforms() {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// GameProfile describes one launchable game. Profiles are loaded once per
// session and immutable afterwards.
type GameProfile struct {
	ID             string
	Name           string
	Platform       Platform
	SteamAppID     string
	EpicAppID      string
	ExecutablePath string
	Args           []string
	// ProcessPattern is the process-name pattern to monitor: |-separated
	// alternatives with at most one trailing * per alternative,
	// case-insensitive.
	ProcessPattern string
	// Apps references managed applications (AppProfile) by ID, in setup order.
	Apps []string
}
