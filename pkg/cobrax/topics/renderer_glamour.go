package topics

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// GlamourRenderer renders markdown topics for the terminal. Topics in
// other formats are printed unchanged.
type GlamourRenderer struct {
	// Style is a glamour standard style ("dark", "light", "notty") or a
	// path to a JSON style. Empty picks one from the terminal background.
	Style string

	// Width wraps rendered text; 0 keeps glamour's default
	Width int

	// Plain is consulted on every render; when it reports true the
	// markdown is laid out without colour. It lets --no-color, which is
	// parsed after the topics are registered, reach the help output.
	Plain func() bool
}

// NewGlamourRenderer returns a renderer with auto-detected style
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

func (r *GlamourRenderer) Render(content string, ext string) string {
	if !strings.EqualFold(ext, ".md") {
		return content
	}

	tr, err := glamour.NewTermRenderer(r.options()...)
	if err != nil {
		return content
	}
	rendered, err := tr.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func (r *GlamourRenderer) options() []glamour.TermRendererOption {
	var options []glamour.TermRendererOption

	switch {
	case r.Plain != nil && r.Plain():
		options = append(options,
			glamour.WithStandardStyle("notty"),
			glamour.WithColorProfile(termenv.Ascii))
	case r.Style == "" || r.Style == "auto":
		options = append(options, glamour.WithAutoStyle())
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}

	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}
	return options
}
