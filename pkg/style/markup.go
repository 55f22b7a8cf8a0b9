package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tagPattern matches one innermost [tag]content[/tag] pair
var tagPattern = regexp.MustCompile(`\[([a-z_]+)\]([^\[]*?)\[/([a-z_]+)\]`)

// MarkupParser handles parsing and rendering of markup tags
type MarkupParser struct {
	styles map[string]lipgloss.Style
}

// NewMarkupParser creates a new markup parser with default styles
func NewMarkupParser() *MarkupParser {
	return &MarkupParser{
		styles: map[string]lipgloss.Style{
			"title":     TitleStyle,
			"subtitle":  SubtitleStyle,
			"success":   SuccessStyle,
			"error":     ErrorStyle,
			"warning":   WarningStyle,
			"info":      InfoStyle,
			"code":      CodeStyle,
			"path":      PathStyle,
			"muted":     MutedStyle,
			"hash":      HashStyle,
			"added":     AddedStyle,
			"removed":   RemovedStyle,
			"bold":      lipgloss.NewStyle().Bold(true),
			"italic":    lipgloss.NewStyle().Italic(true),
			"underline": lipgloss.NewStyle().Underline(true),
		},
	}
}

// Render processes markup text and returns styled output. Tags are
// expanded innermost first; unknown or mismatched tags are left as is.
func (p *MarkupParser) Render(text string) string {
	return p.expand(text, func(style lipgloss.Style, content string) string {
		return style.Render(content)
	})
}

// Strip removes every known tag, keeping the content
func (p *MarkupParser) Strip(text string) string {
	return p.expand(text, func(_ lipgloss.Style, content string) string {
		return content
	})
}

func (p *MarkupParser) expand(text string, apply func(lipgloss.Style, string) string) string {
	result := text
	for {
		changed := false
		result = tagPattern.ReplaceAllStringFunc(result, func(match string) string {
			m := tagPattern.FindStringSubmatch(match)
			if m[1] != m[3] {
				return match
			}
			style, ok := p.styles[m[1]]
			if !ok {
				return match
			}
			changed = true
			return apply(style, m[2])
		})
		if !changed {
			return result
		}
	}
}

// AddStyle allows adding custom styles
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
}

// RenderTemplate renders a template with variable substitution and markup
func (p *MarkupParser) RenderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return p.Render(result)
}

// Global parser instance
var defaultParser = NewMarkupParser()

// Render is a convenience function using the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}

// Strip is a convenience function using the default parser
func Strip(text string) string {
	return defaultParser.Strip(text)
}

// RenderTemplate is a convenience function using the default parser
func RenderTemplate(template string, vars map[string]string) string {
	return defaultParser.RenderTemplate(template, vars)
}
