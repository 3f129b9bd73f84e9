//go:build darwin

package procs

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// listProcesses shells out to ps; there is no stable public API for process
// enumeration on darwin without cgo.
func listProcesses(ctx context.Context) ([]domain.Process, error) {
	out, err := exec.CommandContext(ctx, "ps", "-axco", "pid=,comm=").Output()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	var procs []domain.Process
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		procs = append(procs, domain.Process{PID: pid, Name: strings.Join(fields[1:], " ")})
	}
	return procs, nil
}
