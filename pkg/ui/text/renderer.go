// Package text renders command results as plain, line-oriented text. The
// terminal renderer reuses the same layout with a styled Palette.
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/style"
	"github.com/arthur-debert/cfgtool/pkg/types"
)

// Renderer writes results as text
type Renderer struct {
	output  io.Writer
	palette Palette
}

// New creates a plain text renderer
func New(output io.Writer) (*Renderer, error) {
	return NewWithPalette(output, PlainPalette()), nil
}

// NewWithPalette creates a text renderer that decorates with p
func NewWithPalette(output io.Writer, p Palette) *Renderer {
	return &Renderer{output: output, palette: p}
}

// RenderResult renders any result type as text
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder
	switch v := result.(type) {
	case *types.TrackResult:
		r.track(&b, v)
	case *types.UpdateResult:
		r.update(&b, v)
	case *types.SyncResult:
		r.sync(&b, v)
	case *types.StatusResult:
		r.status(&b, v)
	case *types.HistoryResult:
		r.history(&b, v)
	case *types.RollbackResult:
		r.rollback(&b, v)
	case *types.RemoteAddResult:
		r.remoteAdd(&b, v)
	case *types.RemoteListResult:
		r.remoteList(&b, v)
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, r.palette.Markup(msg))
	return err
}

func (r *Renderer) line(b *strings.Builder, indicator, format string, args ...interface{}) {
	if indicator != "" {
		b.WriteString(indicator)
		b.WriteString(" ")
	}
	fmt.Fprintf(b, format, args...)
	b.WriteString("\n")
}

func (r *Renderer) track(b *strings.Builder, t *types.TrackResult) {
	p := r.palette
	switch {
	case t.AlreadyTracked:
		r.line(b, p.Info, "%s is already tracked; run 'cfgtool update' to commit its changes", p.Path(t.HomePath))
	case t.Committed:
		r.line(b, p.Success, "Tracked %s as %s %s", p.Path(t.HomePath), t.StorePath, p.Hash(Short(t.Commit)))
	default:
		r.line(b, p.Info, "%s is unchanged; nothing to commit", p.Path(t.HomePath))
	}
}

func (r *Renderer) update(b *strings.Builder, u *types.UpdateResult) {
	p := r.palette
	if len(u.Changes) == 0 && len(u.Skipped) == 0 {
		r.line(b, p.Info, "No tracked file has changed")
		return
	}
	for _, c := range u.Committed {
		r.line(b, p.Success, "%s %s %s", c.StorePath, p.Hash(Short(c.Commit)), p.Muted(c.Message))
	}
	for _, d := range u.Declined {
		r.line(b, p.Info, "%s left uncommitted", d)
	}
	for _, s := range u.Skipped {
		r.line(b, p.Warning, "%s skipped: %s", s.StorePath, s.Reason)
	}
}

func (r *Renderer) sync(b *strings.Builder, s *types.SyncResult) {
	p := r.palette
	verb := "Using"
	if s.RemoteAdded {
		verb = "Added"
	}
	r.line(b, p.Info, "%s remote %s %s", verb, s.Remote.Name, p.Muted(s.Remote.URL))

	switch {
	case s.RemoteEmpty:
		r.line(b, p.Info, "Remote has no commits yet")
	case s.OldHead != s.NewHead:
		r.line(b, p.Success, "Fast-forwarded %s to %s", p.Hash(Short(s.OldHead)), p.Hash(Short(s.NewHead)))
	default:
		r.line(b, p.Info, "Local main is %s", p.RemoteState(s.State))
	}

	if s.Pushed {
		r.line(b, p.Success, "Pushed main to %s", s.Remote.Name)
	} else {
		r.line(b, p.Info, "Nothing to push")
	}

	for _, rel := range s.Restored {
		r.line(b, p.Success, "Restored %s", p.Path(rel))
	}
}

func (r *Renderer) status(b *strings.Builder, s *types.StatusResult) {
	p := r.palette
	r.line(b, "", "%s %s", p.Title("Store:"), p.Path(s.StoreRoot))
	if s.Remote != nil {
		r.line(b, "", "%s %s %s [%s]", p.Title("Remote:"), s.Remote.Name, p.Muted(s.Remote.URL), p.RemoteState(s.RemoteState))
	} else {
		r.line(b, "", "%s %s", p.Title("Remote:"), p.Muted("none"))
	}
	b.WriteString("\n")

	if s.Empty {
		r.line(b, p.Info, "No files tracked yet. Use 'cfgtool track <path>' to start.")
		return
	}

	for _, f := range s.Files {
		state := style.FileStateOf(f.Modified, f.Error)
		r.line(b, "", "  %s %s %s", p.State(state), f.StorePath, p.Muted(f.HomePath))
		if f.Error != "" {
			r.line(b, "", "    %s", p.Muted(f.Error))
		}
	}
}

func (r *Renderer) history(b *strings.Builder, h *types.HistoryResult) {
	p := r.palette
	if len(h.Revisions) == 0 {
		r.line(b, p.Info, "No history for %s", p.Path(h.HomePath))
		return
	}
	for _, rev := range h.Revisions {
		r.line(b, "", "%s %s %s %s",
			p.Hash(rev.Short),
			p.Muted(rev.When.Format("2006-01-02 15:04")),
			rev.Message,
			p.Muted("("+rev.Author+")"))
	}
}

func (r *Renderer) rollback(b *strings.Builder, rb *types.RollbackResult) {
	p := r.palette
	if rb.Committed {
		r.line(b, p.Success, "Rolled back %s to %s as %s",
			p.Path(rb.HomePath), p.Hash(Short(rb.Revision)), p.Hash(Short(rb.Commit)))
		return
	}
	r.line(b, p.Info, "%s already matches %s; restored the home copy",
		p.Path(rb.HomePath), p.Hash(Short(rb.Revision)))
}

func (r *Renderer) remoteAdd(b *strings.Builder, a *types.RemoteAddResult) {
	p := r.palette
	verb := "Added"
	if !a.Created {
		verb = "Repointed"
	}
	r.line(b, p.Success, "%s remote %s %s", verb, a.Remote.Name, p.Muted(a.Remote.URL))
}

func (r *Renderer) remoteList(b *strings.Builder, l *types.RemoteListResult) {
	p := r.palette
	if len(l.Remotes) == 0 {
		r.line(b, p.Info, "No remotes. Use 'cfgtool remote add <name> <url>' or run sync.")
		return
	}
	for _, rem := range l.Remotes {
		marker := " "
		if rem.Name == l.Default {
			marker = "*"
		}
		r.line(b, "", "%s %s %s", marker, rem.Name, p.Muted(rem.URL))
	}
}

// Short abbreviates a commit hash to seven characters
func Short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
