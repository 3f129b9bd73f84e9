//go:build windows

package procs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// listProcesses parses tasklist CSV output. Image names keep their .exe
// suffix here; Pattern.Matches normalizes it away.
func listProcesses(ctx context.Context) ([]domain.Process, error) {
	out, err := exec.CommandContext(ctx, "tasklist", "/fo", "csv", "/nh").Output()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1

	var procs []domain.Process
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing tasklist output: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		pid, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		procs = append(procs, domain.Process{PID: pid, Name: record[0]})
	}
	return procs, nil
}
