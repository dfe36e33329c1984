package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// PadRight pads s with spaces to the given display width. Turkish letters such as
// "ş" or "İ" occupy one column; East Asian wide runes occupy two.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns s within width columns.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// Truncate shortens s to width columns, ending with "…" when cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// Width returns the display width of s.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Align identifies how a column is padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table lays out rows of plain cells in aligned columns separated by two spaces.
// Cells are measured before styling, so style after calling Rows.
type Table struct {
	aligns []Align
	rows   [][]string
	max    int
}

// NewTable creates a table with one alignment per column.
func NewTable(aligns ...Align) *Table {
	return &Table{aligns: aligns}
}

// MaxWidth truncates every cell to at most n columns. Zero disables truncation.
func (t *Table) MaxWidth(n int) *Table {
	t.max = n
	return t
}

// Add appends a row.
func (t *Table) Add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Rows returns the padded cells of every row.
func (t *Table) Rows() [][]string {
	widths := make([]int, len(t.aligns))
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := Width(t.cell(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	out := make([][]string, len(t.rows))
	for r, row := range t.rows {
		padded := make([]string, 0, len(row))
		for i, cell := range row {
			cell = t.cell(cell)
			if i >= len(widths) {
				padded = append(padded, cell)
				continue
			}
			if t.aligns[i] == AlignRight {
				padded = append(padded, PadLeft(cell, widths[i]))
			} else {
				padded = append(padded, PadRight(cell, widths[i]))
			}
		}
		out[r] = padded
	}
	return out
}

// String renders the table as plain text.
func (t *Table) String() string {
	var b strings.Builder
	for _, row := range t.Rows() {
		b.WriteString(strings.TrimRight(strings.Join(row, "  "), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table) cell(s string) string {
	if t.max > 0 {
		return Truncate(s, t.max)
	}
	return s
}
