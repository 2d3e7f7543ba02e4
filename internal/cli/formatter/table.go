package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

type tableSpec struct {
	right map[int]bool
}

// TableOption adjusts how RenderTable lays out columns.
type TableOption func(*tableSpec)

// AlignRight right-aligns the given zero-based columns, header included.
// Meant for amounts and scores.
func AlignRight(cols ...int) TableOption {
	return func(s *tableSpec) {
		for _, c := range cols {
			s.right[c] = true
		}
	}
}

// RenderTable lays out headers and rows in columns sized to the widest
// visible cell, with a dim rule under the header. Short rows are padded with
// empty cells and extra cells are dropped.
func RenderTable(headers []string, rows [][]string, opts ...TableOption) string {
	cols := len(headers)
	if cols == 0 {
		return ""
	}
	spec := tableSpec{right: map[int]bool{}}
	for _, opt := range opts {
		opt(&spec)
	}

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0))
			if style != nil {
				cell = style(cell)
			}
			last := i == cols-1
			switch {
			case spec.right[i]:
				b.WriteString(pad + cell)
			case last:
				b.WriteString(cell)
			default:
				b.WriteString(cell + pad)
			}
			if !last {
				b.WriteString(strings.Repeat(" ", colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })
	rules := make([]string, cols)
	for i, w := range widths {
		rules[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	writeRow(rules, nil)
	for _, row := range rows {
		writeRow(row, nil)
	}

	return b.String()
}
