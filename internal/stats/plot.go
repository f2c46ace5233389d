// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Bar is one labeled value of a horizontal bar chart. Bars sharing a Group
// share a color.
type Bar struct {
	Label string
	Value float64
	Note  string
	Group string
}

type ansiColor struct {
	name string
	code string
}

const (
	minPlotWidth        = 10
	maxLabelWidth       = 32
	barSeparator        = " │ "
	fullBlock           = '█'
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// Partial blocks from one eighth to seven eighths of a cell.
var partialBlocks = []rune{'▏', '▎', '▍', '▌', '▋', '▊', '▉'}

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// PlotBars renders a horizontal bar chart.
func PlotBars(w io.Writer, title string, bars []Bar, totalWidth int) error {
	return plotBars(w, title, bars, totalWidth, false)
}

// PlotBarsWithColor renders a horizontal bar chart with optional forced color output.
func PlotBarsWithColor(w io.Writer, title string, bars []Bar, totalWidth int, forceColor bool) error {
	return plotBars(w, title, bars, totalWidth, forceColor)
}

func plotBars(w io.Writer, title string, bars []Bar, totalWidth int, forceColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}

	labelWidth := 0
	noteWidth := 0
	maxVal := 0.0
	for _, b := range bars {
		if lw := displayWidth(b.Label); lw > labelWidth {
			labelWidth = lw
		}
		if nw := displayWidth(b.Note); nw > noteWidth {
			noteWidth = nw
		}
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	if labelWidth > maxLabelWidth {
		labelWidth = maxLabelWidth
	}
	width := PlotWidthFor(totalWidth, labelWidth, noteWidth)

	useColor := shouldUseColor(w, forceColor)
	groups := groupColors(bars)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, b := range bars {
		label := padCell(truncateCell(b.Label, labelWidth), labelWidth, false)
		bar := renderBar(b.Value, maxVal, width)
		if useColor && b.Group != "" {
			color := colorPalette[groups[b.Group]%len(colorPalette)].code
			bar = color + bar + colorReset
		}
		line := label + barSeparator + bar
		if b.Note != "" {
			line += " " + b.Note
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	if useColor && len(groups) > 0 {
		if _, err := fmt.Fprintln(w, renderLegend(groups)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// PlotWidthFor computes a bar width that fits within the total available width.
func PlotWidthFor(totalWidth, labelWidth, noteWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	used := labelWidth + displayWidth(barSeparator)
	if noteWidth > 0 {
		used += noteWidth + 1
	}
	plotWidth := totalWidth - used
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func renderBar(value, maxVal float64, width int) string {
	if width <= 0 || maxVal <= 0 || value <= 0 {
		return ""
	}
	eighths := int(math.Round(value / maxVal * float64(width*8)))
	if eighths < 1 {
		eighths = 1
	}
	if eighths > width*8 {
		eighths = width * 8
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(string(fullBlock), eighths/8))
	if rem := eighths % 8; rem > 0 {
		b.WriteRune(partialBlocks[rem-1])
	}
	return b.String()
}

func groupColors(bars []Bar) map[string]int {
	groups := map[string]int{}
	for _, b := range bars {
		if b.Group == "" {
			continue
		}
		if _, ok := groups[b.Group]; !ok {
			groups[b.Group] = len(groups)
		}
	}
	return groups
}

func renderLegend(groups map[string]int) string {
	ordered := make([]string, len(groups))
	for name, idx := range groups {
		ordered[idx] = name
	}
	parts := make([]string, 0, len(ordered))
	for i, name := range ordered {
		color := colorPalette[i%len(colorPalette)].code
		parts = append(parts, color+string(fullBlock)+" "+name+colorReset)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
