package stats

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// column describes one column of a plain-text email table. Cells wider than
// Max terminal columns are cut with an ellipsis; zero means no limit.
type column struct {
	Header string
	Right  bool
	Max    int
}

// formatTable lays rows out under cols, one string per line with the header
// first. Missing cells are blank and cells beyond the last column are
// dropped. Subjects and senders come straight from mail headers, so control
// characters are flattened to spaces before measuring.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, col := range cols {
			if i < len(row) {
				line[i] = truncateCell(cleanCell(row[i]), col.Max)
			}
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(cols))
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Header
		widths[i] = displayWidth(col.Header)
	}
	for _, line := range cells {
		for i, cell := range line {
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}

	lines := make([]string, 0, len(cells)+1)
	lines = append(lines, joinCells(header, cols, widths))
	for _, line := range cells {
		lines = append(lines, joinCells(line, cols, widths))
	}
	return lines
}

func joinCells(cells []string, cols []column, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], cols[i].Right))
	}
	// A left-aligned last column would otherwise leave trailing blanks.
	return strings.TrimRight(b.String(), " ")
}

func cleanCell(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, value)
}

func padCell(value string, width int, rightAlign bool) string {
	gap := width - displayWidth(value)
	if gap <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", gap) + value
	}
	return value + strings.Repeat(" ", gap)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}

// truncateCell shortens value to fit width terminal columns.
func truncateCell(value string, width int) string {
	if width <= 0 || displayWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, "…")
}
