package launcher

import (
	"context"
	"fmt"
	"runtime"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// URIOpener opens a URI with the operating system's default protocol
// handler. Store clients register their own schemes (steam://,
// com.epicgames.launcher://), so opening the URI hands the launch to them.
type URIOpener struct {
	runner domain.CommandRunner
	goos   string
}

func NewURIOpener(runner domain.CommandRunner) *URIOpener {
	return &URIOpener{runner: runner, goos: runtime.GOOS}
}

func (o *URIOpener) Open(ctx context.Context, uri string) error {
	path, args := o.command(uri)
	if err := o.runner.Run(ctx, path, args); err != nil {
		return fmt.Errorf("opening %s: %w", uri, err)
	}
	return nil
}

func (o *URIOpener) command(uri string) (string, []string) {
	switch o.goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}
	case "darwin":
		return "open", []string{uri}
	default:
		return "xdg-open", []string{uri}
	}
}
