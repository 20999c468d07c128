package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for table output
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
}

// DefaultStyles returns the paddock color scheme
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E10600")),
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")),
	}
}

// Table is a static table of text cells
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Empty is printed instead of the table when there are no rows
	Empty string
}

// NewTable creates a table with the given title and headers
func NewTable(title string, headers ...string) *Table {
	return &Table{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table
func (t *Table) View(styles Styles) string {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	if len(t.Rows) == 0 {
		if t.Empty != "" {
			sb.WriteString(styles.Muted.Render(t.Empty))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	// room for the cell padding
	for i := range colWidths {
		colWidths[i] += 2
	}

	sep := styles.Muted.Render("│")

	for i, h := range t.Headers {
		sb.WriteString(styles.Header.Width(colWidths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	for i, w := range colWidths {
		sb.WriteString(styles.Muted.Render(strings.Repeat("─", w)))
		if i < len(colWidths)-1 {
			sb.WriteString(styles.Muted.Render("┼"))
		}
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i := range colWidths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(styles.Cell.Width(colWidths[i]).Render(cell))
			if i < len(colWidths)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
