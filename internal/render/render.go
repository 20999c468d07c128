// Package render writes command results as tables, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates an output format name, empty meaning table
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q: use table, json or yaml", s)
	}
}

// Renderer writes results to out in one format
type Renderer struct {
	out    io.Writer
	format Format
	styles Styles
}

// New creates a renderer
func New(out io.Writer, format Format) *Renderer {
	if format == "" {
		format = FormatTable
	}
	return &Renderer{out: out, format: format, styles: DefaultStyles()}
}

// Format returns the output format
func (r *Renderer) Format() Format {
	return r.format
}

// Render writes data as JSON or YAML, or view as a table
func (r *Renderer) Render(data interface{}, view *Table) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		if view == nil {
			return nil
		}
		_, err := io.WriteString(r.out, view.View(r.styles))
		return err
	}
}

// Message writes a human readable line. Only table output carries messages, so JSON
// and YAML stay parseable.
func (r *Renderer) Message(format string, args ...interface{}) {
	if r.format != FormatTable {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Notice writes a highlighted line in table output
func (r *Renderer) Notice(format string, args ...interface{}) {
	if r.format != FormatTable {
		return
	}
	fmt.Fprintln(r.out, r.styles.Accent.Render(fmt.Sprintf(format, args...)))
}
