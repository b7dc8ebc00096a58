package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows of aligned columns for list commands. It is a
// write-once builder; add rows, then call Render.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	return &Table{headers: headers, widths: widths}
}

// AddRow appends one row. Extra cells are dropped, missing cells are
// blank.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
			if w := lipgloss.Width(cells[i]); w > t.widths[i] {
				t.widths[i] = w
			}
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render returns the formatted table as a string.
func (t *Table) Render() string {
	var b strings.Builder

	for i, h := range t.headers {
		b.WriteString(TableHeaderStyle.Render(pad(h, t.widths[i])))
		if i < len(t.headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for _, row := range t.rows {
		for i, cell := range row {
			b.WriteString(TableCellStyle.Render(pad(cell, t.widths[i])))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func pad(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// Confirm prints a yes/no prompt and reads the answer from stdin. Only
// an explicit "y" or "yes" counts as confirmation.
func Confirm(prompt string) bool {
	fmt.Print(PromptStyle.Render(prompt+" [y/N]") + " ")
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
