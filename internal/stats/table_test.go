package stats

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{Header: "Subject"}, {Header: "Folder"}, {Header: "Score", Right: true}}
	rows := [][]string{
		{"Invoice", "Finance", "9.50"},
		{"会議", "Work", "7.00"},
	}

	lines := formatTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Subject Folder  Score" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Invoice Finance  9.50" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "会議    Work     7.00" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableCleansAndLimitsCells(t *testing.T) {
	cols := []column{{Header: "Subject", Max: 10}, {Header: "Folder"}}
	rows := [][]string{
		{"Re: budget\tfor\nnext quarter", "Work", "ignored"},
		{"Hi"},
	}

	lines := formatTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if strings.ContainsAny(line, "\t\n") {
			t.Fatalf("expected control characters removed: %q", line)
		}
		if strings.Contains(line, "ignored") {
			t.Fatalf("expected extra cell dropped: %q", line)
		}
	}
	if lines[1] != "Re: budge… Work" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Hi" {
		t.Fatalf("expected blank trailing cell trimmed: %q", lines[2])
	}
}

func TestFormatTableNoColumns(t *testing.T) {
	if lines := formatTable(nil, [][]string{{"a"}}); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestTruncateCell(t *testing.T) {
	if got := truncateCell("Quarterly report", 8); displayWidth(got) > 8 {
		t.Fatalf("expected at most 8 columns, got %q", got)
	}
	if got := truncateCell("short", 8); got != "short" {
		t.Fatalf("expected unchanged value, got %q", got)
	}
}
