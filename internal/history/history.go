// Package history reads recent commands from a shell history file so they
// can be handed to the model as context.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultFile is the history file used when none is configured, relative to
// the user's home directory.
const DefaultFile = ".bash_history"

// maxLineSize bounds a single history line. Multi-line heredocs pasted into
// a shell can be long; anything beyond this is reported as an error.
const maxLineSize = 1024 * 1024

var zshExtendedPrefix = regexp.MustCompile(`^: \d+:\d+;`)

// DefaultPath returns ~/.bash_history for the current user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, DefaultFile), nil
}

// ExpandPath resolves a leading "~/" against the user's home directory. An
// empty path resolves to DefaultPath.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return DefaultPath()
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Read returns the last maxLines lines of the history file at path, trimmed,
// with blank lines dropped and the rest joined by newlines. The window is
// taken over raw lines, so blank lines near the end count against maxLines.
// A maxLines of zero or less returns an empty string without touching the
// file.
func Read(path string, maxLines int) (string, error) {
	if maxLines <= 0 {
		return "", nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	// ring holds the most recent maxLines raw lines.
	ring := make([]string, 0, maxLines)
	next := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if len(ring) < maxLines {
			ring = append(ring, line)
			continue
		}
		ring[next] = line
		next = (next + 1) % maxLines
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read history file: %w", err)
	}

	ordered := append(ring[next:len(ring):len(ring)], ring[:next]...)

	kept := make([]string, 0, len(ordered))
	for _, line := range ordered {
		line = normalizeLine(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), nil
}

// normalizeLine trims whitespace, drops bytes that are not valid UTF-8 and
// unwraps zsh extended history entries (": 1680000000:0;command").
func normalizeLine(line string) string {
	line = strings.TrimSpace(strings.ToValidUTF8(line, ""))
	if loc := zshExtendedPrefix.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:])
	}
	return line
}
