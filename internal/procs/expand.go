package procs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// %VAR% style environment tokens, including names like ProgramFiles(x86).
var winEnvToken = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)

// ExpandPath resolves environment tokens and glob segments in an executable
// path. Both $VAR and %VAR% forms expand. When the expanded path contains
// glob metacharacters, the lexicographically last match wins, which favors
// the newest versioned install directory (Discord's app-1.0.x layout).
func ExpandPath(path string) (string, error) {
	expanded := os.ExpandEnv(winEnvToken.ReplaceAllString(path, "$${${1}}"))
	if !strings.ContainsAny(expanded, "*?[") {
		return expanded, nil
	}

	matches, err := filepath.Glob(expanded)
	if err != nil {
		return "", fmt.Errorf("expanding path %q: %w", path, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("path %q matched no files", path)
	}

	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
