package launcher

import (
	"os"
	"runtime"

	"github.com/beive60/focus-game-deck-sub005/internal/procs"
)

// Detection reports which store clients were found on this machine.
type Detection struct {
	SteamPath string
	EpicPath  string
}

// Detect probes well-known install locations for store clients. Purely
// informational: launching never requires a detected path because the URI
// route works with any install location.
func Detect() Detection {
	return detect(runtime.GOOS, fileExists)
}

func detect(goos string, exists func(string) bool) Detection {
	var d Detection
	for _, candidate := range steamCandidates(goos) {
		if path, err := procs.ExpandPath(candidate); err == nil && exists(path) {
			d.SteamPath = path
			break
		}
	}
	for _, candidate := range epicCandidates(goos) {
		if path, err := procs.ExpandPath(candidate); err == nil && exists(path) {
			d.EpicPath = path
			break
		}
	}
	return d
}

func steamCandidates(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`%ProgramFiles(x86)%\Steam\steam.exe`,
			`%ProgramFiles%\Steam\steam.exe`,
		}
	case "darwin":
		return []string{"/Applications/Steam.app/Contents/MacOS/steam_osx"}
	default:
		return []string{
			"$HOME/.steam/steam/steam.sh",
			"/usr/games/steam",
			"/usr/bin/steam",
		}
	}
}

func epicCandidates(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`%ProgramFiles(x86)%\Epic Games\Launcher\Portal\Binaries\Win64\EpicGamesLauncher.exe`,
			`%ProgramFiles(x86)%\Epic Games\Launcher\Portal\Binaries\Win32\EpicGamesLauncher.exe`,
		}
	case "darwin":
		return []string{"/Applications/Epic Games Launcher.app/Contents/MacOS/EpicGamesLauncher"}
	default:
		// No native Epic client outside Windows/macOS.
		return nil
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
