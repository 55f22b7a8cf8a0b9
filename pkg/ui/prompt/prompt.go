// Package prompt implements types.Prompter for the command line: an
// interactive console prompter and a non-interactive one for --yes runs.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/arthur-debert/cfgtool/pkg/ui/text"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Console asks the user on a terminal. When input is not a terminal it
// reads plain lines instead of driving pterm's interactive widgets.
type Console struct {
	in          *bufio.Reader
	out         io.Writer
	palette     text.Palette
	interactive bool
	// DefaultMessage renders the message offered for an accepted update
	DefaultMessage func(storePath string) string
}

// NewConsole creates a prompter on stdin/stdout
func NewConsole(palette text.Palette) *Console {
	fd := os.Stdin.Fd()
	c := NewConsoleWith(os.Stdin, os.Stdout, palette)
	c.interactive = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return c
}

// NewConsoleWith creates a line-reading prompter over arbitrary streams
func NewConsoleWith(in io.Reader, out io.Writer, palette text.Palette) *Console {
	return &Console{
		in:      bufio.NewReader(in),
		out:     out,
		palette: palette,
	}
}

// ConfirmUpdate shows the diff of a drifted file and asks whether to commit it
func (c *Console) ConfirmUpdate(ctx context.Context, candidate types.UpdateCandidate) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, c.palette.Diff(candidate.Diff))

	question := fmt.Sprintf("Commit changes to %s?", candidate.HomePath)
	if c.interactive {
		return pterm.DefaultInteractiveConfirm.
			WithDefaultValue(false).
			Show(question)
	}

	answer, err := c.ask(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// CommitMessage asks for the message of an accepted update. An empty
// answer keeps the default.
func (c *Console) CommitMessage(ctx context.Context, candidate types.UpdateCandidate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	def := ""
	if c.DefaultMessage != nil {
		def = c.DefaultMessage(candidate.StorePath)
	}

	if c.interactive {
		answer, err := pterm.DefaultInteractiveTextInput.
			WithDefaultValue(def).
			Show("Commit message")
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(answer), nil
	}

	question := "Commit message: "
	if def != "" {
		question = fmt.Sprintf("Commit message [%s]: ", def)
	}
	return c.ask(question)
}

// RemoteURL asks for a remote to register. An empty answer declines.
func (c *Console) RemoteURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	question := "No remote configured. Remote URL (empty to cancel)"
	if c.interactive {
		answer, err := pterm.DefaultInteractiveTextInput.Show(question)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(answer), nil
	}
	return c.ask(question + ": ")
}

// ask prints question and reads one trimmed line. End of input is an
// empty answer.
func (c *Console) ask(question string) (string, error) {
	fmt.Fprint(c.out, question)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Auto answers without asking: every update is accepted with the default
// message and the remote URL is fixed up front
type Auto struct {
	URL string
}

// ConfirmUpdate accepts every candidate
func (a *Auto) ConfirmUpdate(context.Context, types.UpdateCandidate) (bool, error) {
	return true, nil
}

// CommitMessage selects the default message
func (a *Auto) CommitMessage(context.Context, types.UpdateCandidate) (string, error) {
	return "", nil
}

// RemoteURL returns the fixed URL, empty to decline
func (a *Auto) RemoteURL(context.Context) (string, error) {
	return a.URL, nil
}
