package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/loglens/internal/report"
)

// Renderer writes a Report to an output stream.
type Renderer interface {
	Render(r report.Report) error
}

// NewRenderer returns the renderer for format ("text" or "json").
func NewRenderer(format string, w io.Writer) (Renderer, error) {
	switch format {
	case "", "text":
		return NewTextRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (terminal report)
// ---------------------------------------------------------------------------

const addrWidth = 20

// styles are bound to the destination writer so that colors are dropped
// when it is not a terminal.
type styles struct {
	heading lipgloss.Style
	columns lipgloss.Style
	alert   lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(re *lipgloss.Renderer) styles {
	return styles{
		heading: re.NewStyle().Bold(true).Foreground(lipgloss.Color("39")), // cyan
		columns: re.NewStyle().Underline(true),
		alert:   re.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // red bold
		muted:   re.NewStyle().Foreground(lipgloss.Color("245")).Faint(true),
	}
}

// TextRenderer prints the three report sections as aligned columns.
type TextRenderer struct {
	w     io.Writer
	style styles
}

// NewTextRenderer returns a Renderer that writes styled text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w, style: newStyles(lipgloss.NewRenderer(w))}
}

func (r *TextRenderer) Render(rep report.Report) error {
	p := &printer{w: r.w}

	p.line(r.style.columns.Render(fmt.Sprintf("%-*s %s", addrWidth, "IP Address", "Request Count")))
	for _, e := range rep.Requests {
		p.line(fmt.Sprintf("%-*s %d", addrWidth, e.Key, e.Count))
	}

	p.line("")
	p.line(r.style.heading.Render("Most Frequently Accessed Endpoint:"))
	if rep.HasMostAccessed {
		p.line(fmt.Sprintf("%s (Accessed %d times)", rep.MostAccessed.Key, rep.MostAccessed.Count))
	} else {
		p.line(r.style.muted.Render("(no requests)"))
	}

	p.line("")
	p.line(r.style.heading.Render("Suspicious Activity Detected:"))
	p.line(r.style.columns.Render(fmt.Sprintf("%-*s %s", addrWidth, "IP Address", "Failed Login Attempts")))
	for _, e := range rep.Suspicious {
		p.line(r.style.alert.Render(fmt.Sprintf("%-*s %d", addrWidth, e.Key, e.Count)))
	}

	if rep.Skipped > 0 {
		p.line("")
		p.line(r.style.muted.Render(fmt.Sprintf("Skipped %d malformed line(s); %d parsed.", rep.Skipped, rep.Parsed)))
	}
	return p.err
}

// printer writes lines until the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints the report as a single indented JSON document.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(rep report.Report) error {
	return r.enc.Encode(rep)
}
