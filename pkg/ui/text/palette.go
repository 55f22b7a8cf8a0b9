package text

import (
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/style"
)

// Palette decorates the pieces of a rendered result. The plain palette
// leaves every piece untouched; the terminal renderer supplies a styled one.
type Palette struct {
	Title   func(string) string
	Path    func(string) string
	Hash    func(string) string
	Muted   func(string) string
	Added   func(string) string
	Removed func(string) string

	// Indicators prefix result lines
	Success string
	Warning string
	Error   string
	Info    string

	// State renders a file state badge
	State func(style.FileState) string
	// RemoteState renders a local/remote relation
	RemoteState func(string) string
	// Markup expands or strips [tag]...[/tag] markup in messages
	Markup func(string) string
}

func identity(s string) string { return s }

// PlainPalette renders without any styling
func PlainPalette() Palette {
	return Palette{
		Title:       identity,
		Path:        identity,
		Hash:        identity,
		Muted:       identity,
		Added:       identity,
		Removed:     identity,
		Success:     "✓",
		Warning:     "!",
		Error:       "✗",
		Info:        "•",
		State:       style.Badge,
		RemoteState: identity,
		Markup:      style.Strip,
	}
}

// Diff decorates a unified-style diff line by line. Header lines are left
// alone.
func (p Palette) Diff(diff string) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			lines[i] = p.Title(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = p.Added(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = p.Removed(line)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
