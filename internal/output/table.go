// =============================================================================
// internal/output/table.go - Table formatting utilities
// =============================================================================
package output

import (
	"fmt"
	"io"
	"strings"
)

// Table renders rows of cells with aligned columns and box-drawing borders.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with the given headers
func NewTable(headers []string) *Table {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	return &Table{headers: headers, widths: widths}
}

// AddRow adds a row to the table. Rows shorter than the header count are
// padded with empty cells; extra cells are dropped.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)

	for i, cell := range cells {
		if len(cell) > t.widths[i] {
			t.widths[i] = len(cell)
		}
	}
	t.rows = append(t.rows, cells)
}

// Render renders the table to the writer
func (t *Table) Render(writer io.Writer) error {
	if len(t.headers) == 0 {
		return nil
	}

	fmt.Fprintf(writer, "┌%s┐\n", t.border())
	t.renderRow(writer, t.headers)
	fmt.Fprintf(writer, "├%s┤\n", t.border())
	for _, row := range t.rows {
		t.renderRow(writer, row)
	}
	fmt.Fprintf(writer, "└%s┘\n", t.border())
	return nil
}

func (t *Table) renderRow(writer io.Writer, cells []string) {
	fmt.Fprint(writer, "│")
	for i, cell := range cells {
		fmt.Fprintf(writer, " %-*s ", t.widths[i], cell)
		if i < len(cells)-1 {
			fmt.Fprint(writer, "│")
		}
	}
	fmt.Fprint(writer, "│\n")
}

// border spans every padded cell plus the separators between them.
func (t *Table) border() string {
	total := len(t.widths) - 1
	for _, width := range t.widths {
		total += width + 2
	}
	return strings.Repeat("─", total)
}
