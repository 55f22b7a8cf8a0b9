// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/style"
	"github.com/arthur-debert/cfgtool/pkg/ui/text"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Renderer lays results out like the text renderer, decorated with the
// style package
type Renderer struct {
	output io.Writer
	layout *text.Renderer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	log := logging.GetLogger("ui.terminal")

	// Color detection follows the writer, not the process stdout
	lg := lipgloss.NewRenderer(w)
	log.Debug().
		Str("colorProfile", fmt.Sprintf("%v", lg.ColorProfile())).
		Msg("Terminal renderer created")

	return &Renderer{
		output: w,
		layout: text.NewWithPalette(w, Palette(lg)),
	}, nil
}

// Palette returns the styled palette bound to a lipgloss renderer
func Palette(lg *lipgloss.Renderer) text.Palette {
	with := func(s lipgloss.Style) func(string) string {
		bound := s.Renderer(lg)
		return func(v string) string { return bound.Render(v) }
	}
	return text.Palette{
		Title:   with(style.SubtitleStyle),
		Path:    with(style.PathStyle),
		Hash:    with(style.HashStyle),
		Muted:   with(style.MutedStyle),
		Added:   with(style.AddedStyle),
		Removed: with(style.RemovedStyle),
		Success: style.SuccessIndicator,
		Warning: style.WarningIndicator,
		Error:   style.ErrorIndicator,
		Info:    style.InfoIndicator,
		State: func(s style.FileState) string {
			return style.StateStyle(s).Sprint(style.Badge(s))
		},
		RemoteState: func(s string) string {
			return style.RemoteStateStyle(s).Sprint(s)
		},
		Markup: style.Render,
	}
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	return r.layout.RenderResult(result)
}

// RenderError renders an error with the pterm error prefix and, for coded
// errors, the code
func (r *Renderer) RenderError(err error) error {
	msg := err.Error()
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg = fmt.Sprintf("[%s] %s", code, msg)
	}
	_, werr := fmt.Fprintln(r.output, pterm.Error.Sprint(msg))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.layout.RenderMessage(msg)
}
