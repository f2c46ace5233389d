// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/maildash/internal/model"
)

const noEmails = "No emails logged yet."

// Report holds the three aggregated views of one log snapshot.
type Report struct {
	Summary Summary
	Folders []model.FolderCount
	Bins    []model.HistogramBin
	Top     []model.EmailRecord
}

// BuildReport computes every view from the same snapshot.
func BuildReport(log model.EmailLog, bins, top int) Report {
	return Report{
		Summary: Summarize(log),
		Folders: CountByFolder(log),
		Bins:    Histogram(log, bins),
		Top:     TopByScore(log, top),
	}
}

// RenderReport prints the summary and all three charts.
func RenderReport(w io.Writer, r Report, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if err := RenderFolders(w, r.Folders, totalWidth, useColor); err != nil {
		return err
	}
	if err := RenderScores(w, r.Bins, totalWidth, useColor); err != nil {
		return err
	}
	return RenderTopEmails(w, r.Top, totalWidth, useColor)
}

// RenderSummary prints headline numbers.
func RenderSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Emails: %d\n", s.Emails); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Folders: %d\n", s.Folders); err != nil {
		return err
	}
	if s.Emails > 0 {
		if _, err := fmt.Fprintf(w, "Score: min %s  avg %s  max %s\n", FormatScore(s.MinScore), FormatScore(s.AvgScore), FormatScore(s.MaxScore)); err != nil {
			return err
		}
	}
	if s.Skipped > 0 {
		if _, err := fmt.Fprintf(w, "Skipped rows: %d\n", s.Skipped); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderFolders prints the folder distribution with each folder's share.
func RenderFolders(w io.Writer, counts []model.FolderCount, totalWidth int, useColor bool) error {
	const title = "Email Distribution by Folder"
	if len(counts) == 0 {
		return renderEmpty(w, title)
	}
	total := TotalCount(counts)
	bars := make([]Bar, 0, len(counts))
	for _, c := range counts {
		share := float64(c.Count) / float64(total) * 100
		bars = append(bars, Bar{
			Label: folderLabel(c.Folder),
			Value: float64(c.Count),
			Note:  fmt.Sprintf("%d (%.1f%%)", c.Count, share),
			Group: c.Folder,
		})
	}
	return PlotBarsWithColor(w, title, bars, totalWidth, useColor)
}

// RenderScores prints the score histogram, one bar per bin.
func RenderScores(w io.Writer, bins []model.HistogramBin, totalWidth int, useColor bool) error {
	const title = "Email Priority Scores"
	if len(bins) == 0 {
		return renderEmpty(w, title)
	}
	bars := make([]Bar, 0, len(bins))
	for i, b := range bins {
		bars = append(bars, Bar{
			Label: BinLabel(b, i == len(bins)-1),
			Value: float64(b.Count),
			Note:  strconv.Itoa(b.Count),
		})
	}
	return PlotBarsWithColor(w, title, bars, totalWidth, useColor)
}

// RenderTopEmails prints the highest-scored emails as bars colored by folder,
// followed by a detail table.
func RenderTopEmails(w io.Writer, records []model.EmailRecord, totalWidth int, useColor bool) error {
	const title = "Recent Emails Sorted"
	if len(records) == 0 {
		return renderEmpty(w, title)
	}
	bars := make([]Bar, 0, len(records))
	for _, r := range records {
		bars = append(bars, Bar{
			Label: r.Subject,
			Value: r.Score,
			Note:  FormatScore(r.Score) + " " + folderLabel(r.Folder),
			Group: r.Folder,
		})
	}
	if err := PlotBarsWithColor(w, title, bars, totalWidth, useColor); err != nil {
		return err
	}

	cols := []column{
		{Header: "#", Right: true},
		{Header: "Subject", Max: maxLabelWidth},
		{Header: "Sender", Max: maxLabelWidth},
		{Header: "Folder"},
		{Header: "Score", Right: true},
	}
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Subject,
			r.Sender,
			folderLabel(r.Folder),
			FormatScore(r.Score),
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// BinLabel formats a bin as an interval; the last bin is closed.
func BinLabel(b model.HistogramBin, last bool) string {
	closing := ")"
	if last {
		closing = "]"
	}
	return fmt.Sprintf("[%s, %s%s", FormatScore(b.Lo), FormatScore(b.Hi), closing)
}

// FormatScore prints a score with two decimals.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func folderLabel(folder string) string {
	if folder == "" {
		return "<none>"
	}
	return folder
}

func renderEmpty(w io.Writer, title string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, noEmails); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
