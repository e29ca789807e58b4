package internal

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return rendered, nil
}

// IsValidVideoID checks if a string looks like a valid YouTube video ID
func IsValidVideoID(id string) bool {
	// YouTube video IDs are exactly 11 characters long
	if len(id) != 11 {
		return false
	}

	matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
	return matched
}

// IsLikelyCommand checks if an argument was probably a mistyped subcommand
func IsLikelyCommand(arg string) bool {
	// Short strings (1-10 chars) that don't look like YouTube IDs or playlist IDs are likely commands
	return len(arg) <= 10 && !IsValidVideoID(arg) && !IsValidPlaylistID(arg)
}

// IsValidPlaylistID checks if a string looks like a valid YouTube playlist ID
func IsValidPlaylistID(id string) bool {
	// Common playlist prefixes: PL, UU, FL, RD, etc.
	playlistPrefixes := []string{"PL", "UU", "FL", "RD", "LP", "BP", "QL", "SV", "EL", "LL", "UC"}

	for _, prefix := range playlistPrefixes {
		if strings.HasPrefix(id, prefix) {
			// Standard playlist IDs are typically 18, 34 or 36 characters
			if len(id) == 18 || len(id) == 34 || len(id) == 36 {
				matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
				return matched
			}
		}
	}

	// Music playlists (OLAK5uy_, RDCLAK5uy_)
	if strings.HasPrefix(id, "OLAK5uy_") || strings.HasPrefix(id, "RDCLAK5uy_") {
		if len(id) == 40 {
			matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
			return matched
		}
	}

	return false
}
