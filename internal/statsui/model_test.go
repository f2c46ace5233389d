package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/maildash/internal/model"
)

type fakeSource struct {
	log   model.EmailLog
	err   error
	calls int
}

func (f *fakeSource) Load(context.Context) (model.EmailLog, error) {
	f.calls++
	return f.log, f.err
}

func scenarioLog() model.EmailLog {
	return model.EmailLog{
		Columns: model.LogColumns(),
		Records: []model.EmailRecord{
			{Subject: "A", Sender: "x", Folder: "Inbox", Score: 5},
			{Subject: "B", Sender: "y", Folder: "Spam", Score: 9},
			{Subject: "C", Sender: "z", Folder: "Inbox", Score: 9},
		},
	}
}

func loadedModel(t *testing.T, src *fakeSource) *Model {
	t.Helper()
	m := NewModel(src, model.ChartConfig{}, "email_log.csv", nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected initial refresh command")
	}
	m.Update(cmd())
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialRefresh(t *testing.T) {
	src := &fakeSource{log: scenarioLog()}
	m := loadedModel(t, src)
	if src.calls != 1 {
		t.Fatalf("expected one load, got %d", src.calls)
	}
	view := m.View()
	if !strings.Contains(view, "3 emails") {
		t.Fatalf("expected row count in header:\n%s", view)
	}
	if !strings.Contains(view, "Emails") {
		t.Fatalf("expected summary cards:\n%s", view)
	}
}

func TestRefreshKeyReloads(t *testing.T) {
	src := &fakeSource{log: scenarioLog()}
	m := loadedModel(t, src)
	_, cmd := m.Update(key("r"))
	if cmd == nil {
		t.Fatalf("expected refresh command")
	}
	// A second press while the first refresh is running is ignored.
	if _, again := m.Update(key("r")); again != nil {
		t.Fatalf("expected no command while refreshing")
	}
	src.log.Records = append(src.log.Records, model.EmailRecord{Subject: "D", Folder: "Work", Score: 1})
	m.Update(cmd())
	if src.calls != 2 {
		t.Fatalf("expected two loads, got %d", src.calls)
	}
	if !strings.Contains(m.View(), "4 emails") {
		t.Fatalf("expected refreshed count:\n%s", m.View())
	}
}

func TestTopTabShowsTable(t *testing.T) {
	m := loadedModel(t, &fakeSource{log: scenarioLog()})
	for i := 0; i < tabTop; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.activeTab != tabTop {
		t.Fatalf("expected top tab, got %d", m.activeTab)
	}
	view := m.View()
	for _, want := range []string{"Subject", "Sender", "9.00", "Spam"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestEmptyLog(t *testing.T) {
	m := loadedModel(t, &fakeSource{log: model.EmptyLog()})
	if !strings.Contains(m.View(), emptyMessage) {
		t.Fatalf("expected empty message:\n%s", m.View())
	}
}

func TestRefreshErrorShown(t *testing.T) {
	m := loadedModel(t, &fakeSource{err: errors.New("email_log.csv:3: column Score: malformed row")})
	view := m.View()
	if !strings.Contains(view, "malformed row") {
		t.Fatalf("expected error in footer:\n%s", view)
	}
	if !strings.Contains(view, "Failed to load email log.") {
		t.Fatalf("expected failure placeholder:\n%s", view)
	}
}

func TestSettingsApply(t *testing.T) {
	m := loadedModel(t, &fakeSource{log: scenarioLog()})
	m.Update(key("/"))
	if !m.settingsMode {
		t.Fatalf("expected settings mode")
	}
	m.settingsInputs[0].SetValue("4")
	m.settingsInputs[1].SetValue("2")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.settingsMode {
		t.Fatalf("expected settings to close, error %q", m.settingsError)
	}
	if m.charts.Bins != 4 || m.charts.Top != 2 {
		t.Fatalf("unexpected chart settings: %+v", m.charts)
	}
	if cmd == nil {
		t.Fatalf("expected refresh after applying settings")
	}
	m.Update(cmd())
	if len(m.dash.Report.Top) != 2 || len(m.dash.Report.Bins) != 4 {
		t.Fatalf("settings not applied to refresh: %+v", m.dash.Report)
	}
}

func TestSettingsRejectInvalid(t *testing.T) {
	m := loadedModel(t, &fakeSource{log: scenarioLog()})
	m.Update(key("/"))
	m.settingsInputs[0].SetValue("0")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.settingsMode || m.settingsError == "" {
		t.Fatalf("expected validation error")
	}
}
