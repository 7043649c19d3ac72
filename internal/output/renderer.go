package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/atikulmunna/accesstail/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes LogRecord values to an output stream.
type Renderer interface {
	Render(rec model.LogRecord) error
}

// New returns the renderer for format ("text" or "json") writing to w.
func New(format string, w io.Writer) (Renderer, error) {
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
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleNormal   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))             // green
	styleRedirect = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))             // blue
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true) // yellow bold
	styleSevere   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true) // red bold
	styleTime     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleIP       = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
)

// TextRenderer prints records to the terminal with status-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(rec model.LogRecord) error {
	line := fmt.Sprintf("%s %s %s %s %s %s",
		styleTime.Render(rec.Timestamp),
		styleIP.Render(fmt.Sprintf("%-15s", rec.IP)),
		styleStatus(rec.Style, fmt.Sprintf("%d", rec.Status)),
		fmt.Sprintf("%-6s", rec.Method),
		rec.URL,
		rec.Size,
	)
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func styleStatus(hint model.StyleHint, text string) string {
	switch hint {
	case model.StyleSevere:
		return styleSevere.Render(text)
	case model.StyleWarning:
		return styleWarning.Render(text)
	case model.StyleRedirect:
		return styleRedirect.Render(text)
	default:
		return styleNormal.Render(text)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each record as a single JSON object per line, using the
// same schema as the dashboard endpoints.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(rec model.LogRecord) error {
	return r.enc.Encode(rec)
}
