package procs

import (
	"fmt"
	"strings"
)

// Pattern matches process names case-insensitively. Grammar: |-separated
// alternatives, each either an exact name or a prefix ending in a single
// trailing *. "a|b*" matches "a" exactly or anything starting with "b",
// never "c" and never "ba" through the first alternative.
type Pattern struct {
	raw  string
	alts []alternative
}

type alternative struct {
	text   string
	prefix bool
}

// Compile parses a process-name pattern. Wildcards anywhere but the end of
// an alternative are rejected so malformed patterns surface as configuration
// errors, not silent non-matches.
func Compile(raw string) (Pattern, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Pattern{}, fmt.Errorf("empty process pattern")
	}

	parts := strings.Split(trimmed, "|")
	alts := make([]alternative, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return Pattern{}, fmt.Errorf("pattern %q: empty alternative", raw)
		}

		star := strings.Index(part, "*")
		switch {
		case star == -1:
			alts = append(alts, alternative{text: normalizeName(part)})
		case star == 0:
			return Pattern{}, fmt.Errorf("pattern %q: bare wildcard alternative", raw)
		case star == len(part)-1:
			alts = append(alts, alternative{text: strings.ToLower(part[:star]), prefix: true})
		default:
			return Pattern{}, fmt.Errorf("pattern %q: wildcard is only allowed at the end of an alternative", raw)
		}
	}

	return Pattern{raw: trimmed, alts: alts}, nil
}

// MustCompile is Compile for patterns known to be valid. It panics on error
// and exists for tests and fixed defaults.
func MustCompile(raw string) Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Matches reports whether a process name matches the pattern. Comparison is
// case-insensitive and ignores a trailing .exe on either side so patterns
// written against Windows names work everywhere.
func (p Pattern) Matches(name string) bool {
	candidate := normalizeName(name)
	if candidate == "" {
		return false
	}
	for _, alt := range p.alts {
		if alt.prefix {
			if strings.HasPrefix(candidate, alt.text) {
				return true
			}
		} else if candidate == alt.text {
			return true
		}
	}
	return false
}

func (p Pattern) String() string { return p.raw }

func normalizeName(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".exe")
}
