// Package ui renders command results in terminal (rich), text (plain), JSON
// and YAML formats.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/cfgtool/pkg/ui/json"
	"github.com/arthur-debert/cfgtool/pkg/ui/terminal"
	"github.com/arthur-debert/cfgtool/pkg/ui/text"
	"github.com/arthur-debert/cfgtool/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a command result (track, update, sync, status,
	// history, rollback or remote results)
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// Not a file: default to plain text
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	case FormatYAML:
		return yaml.New(output)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
