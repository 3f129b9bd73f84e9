//go:build linux

package procs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// listProcesses scans /proc for numeric entries and reads each comm file for
// the executable name. The kernel truncates comm to 15 bytes; patterns for
// longer names should use a trailing wildcard.
func listProcesses(ctx context.Context) ([]domain.Process, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	procs := make([]domain.Process, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "comm"))
		if err != nil {
			// Process exited mid-scan.
			continue
		}
		name := strings.TrimSpace(string(comm))
		if name == "" {
			continue
		}
		procs = append(procs, domain.Process{PID: pid, Name: name})
	}
	return procs, nil
}
