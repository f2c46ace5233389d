// Package statsui provides the Bubble Tea email dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/maildash/internal/dashboard"
	"github.com/verte-zerg/maildash/internal/model"
	"github.com/verte-zerg/maildash/internal/stats"
)

const (
	tabOverview = iota
	tabFolders
	tabScores
	tabTop
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// refreshMsg carries the result of one dashboard refresh.
type refreshMsg struct {
	dash dashboard.Dashboard
	err  error
}

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	source  dashboard.Source
	charts  model.ChartConfig
	logPath string
	logger  *zap.Logger

	dash       dashboard.Dashboard
	loaded     bool
	refreshing bool
	errMsg     string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	topTable  table.Model
	topLayout tableLayout

	width  int
	height int

	settingsMode   bool
	settingsInputs []textinput.Model
	settingsIndex  int
	settingsError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a dashboard UI reading from src. Figures are built on
// Init and again on every press of r.
func NewModel(src dashboard.Source, charts model.ChartConfig, logPath string, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if charts.Bins <= 0 {
		charts.Bins = stats.DefaultBins
	}
	if charts.Top <= 0 {
		charts.Top = stats.DefaultTop
	}
	m := &Model{
		source:  src,
		charts:  charts,
		logPath: logPath,
		logger:  logger,
		tabs:    []string{"Overview", "Folders", "Scores", "Top Emails"},
	}
	m.initInputs()
	m.initTopTable()
	m.initViewports()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.refreshing = true
	return m.refreshCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case refreshMsg:
		m.applyRefresh(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.settingsMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.activeTab == tabTop {
			m.topTable.Focus()
		} else {
			m.topTable.Blur()
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			return m, m.startRefresh()
		case "/":
			return m.startSettings()
		case "g", "home":
			if m.activeTab == tabTop {
				m.topTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTop {
				m.topTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTop {
				var cmd tea.Cmd
				m.topTable, cmd = m.topTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// startRefresh schedules a refresh unless one is already running.
func (m *Model) startRefresh() tea.Cmd {
	if m.refreshing {
		return nil
	}
	m.refreshing = true
	return m.refreshCmd()
}

func (m *Model) refreshCmd() tea.Cmd {
	refresher := dashboard.NewRefresher(m.source, m.charts, m.logger)
	return func() tea.Msg {
		d, err := refresher.Refresh(context.Background())
		return refreshMsg{dash: d, err: err}
	}
}

func (m *Model) applyRefresh(msg refreshMsg) {
	m.refreshing = false
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.dash = msg.dash
	m.loaded = true
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyTopTable(width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.settingsInputs = []textinput.Model{
		newSettingsInput("Bins: "),
		newSettingsInput("Top: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initTopTable() {
	cols, rows := buildTopTableData(nil)
	m.topTable = table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	m.topTable.SetStyles(topTableStyles())
}

func newSettingsInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 4
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.settingsInputs[0].SetValue(strconv.Itoa(m.charts.Bins))
	m.settingsInputs[1].SetValue(strconv.Itoa(m.charts.Top))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.settingsMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setTopTableSize(m.width, vpHeight)
	for i := range m.settingsInputs {
		promptWidth := lipgloss.Width(m.settingsInputs[i].Prompt)
		m.settingsInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabTop {
		m.topTable.Focus()
	} else {
		m.topTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	status := padLines(m.renderStatus(), m.width)
	return tabs + "\n" + status
}

func (m *Model) renderStatus() string {
	state := "loading"
	if m.loaded {
		state = fmt.Sprintf("%d emails", m.dash.Rows)
		if m.dash.Skipped > 0 {
			state += fmt.Sprintf(", %d skipped", m.dash.Skipped)
		}
	}
	if m.refreshing && m.loaded {
		state += ", refreshing"
	}
	summary := fmt.Sprintf("Log: %s  %s  bins=%d  top=%d", m.logPath, state, m.charts.Bins, m.charts.Top)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Refresh: r  Settings: /  Quit: q")
}

func (m *Model) renderSettingsHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.settingsMode {
		return m.renderSettingsHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderSettingsForm() string {
	lines := []string{"Chart settings (enter to apply, esc to cancel)"}
	for _, input := range m.settingsInputs {
		lines = append(lines, input.View())
	}
	if m.settingsError != "" {
		lines = append(lines, errorStyle.Render(m.settingsError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.settingsMode {
		return fitLines(m.renderSettingsForm(), m.width, height)
	}
	if m.activeTab == tabTop && m.loaded && m.errMsg == "" {
		if len(m.dash.Report.Top) == 0 {
			return fitLines(emptyMessage, m.width, height)
		}
		view := tableMutedStyle.Render(m.topTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

const emptyMessage = "No emails logged yet."

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load email log.")
		}
		return
	}
	if !m.loaded {
		for i := range m.viewports {
			m.viewports[i].SetContent("Loading...")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	r := m.dash.Report
	m.viewports[tabOverview].SetContent(renderOverview(r, width))
	m.viewports[tabFolders].SetContent(renderWith(func(buf *bytes.Buffer) error {
		return stats.RenderFolders(buf, r.Folders, width, true)
	}))
	m.viewports[tabScores].SetContent(renderScores(r.Bins, width))
}

func renderOverview(r stats.Report, width int) string {
	if r.Summary.Emails == 0 {
		return emptyMessage
	}
	s := r.Summary
	cards := []string{
		metricCard("Emails", strconv.Itoa(s.Emails)),
		metricCard("Folders", strconv.Itoa(s.Folders)),
		metricCard("Avg Score", stats.FormatScore(s.AvgScore)),
		metricCard("Min Score", stats.FormatScore(s.MinScore)),
		metricCard("Max Score", stats.FormatScore(s.MaxScore)),
	}
	if s.Skipped > 0 {
		cards = append(cards, metricCard("Skipped", strconv.Itoa(s.Skipped)))
	}
	var grid string
	if width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	lines := []string{grid, ""}
	if len(r.Folders) > 0 {
		top := r.Folders[0]
		lines = append(lines, headerStyle.Render(fmt.Sprintf("Largest folder: %s (%d)", top.Folder, top.Count)))
	}
	lines = append(lines, headerStyle.Render("Scores: "+stats.Sparkline(stats.BinCounts(r.Bins))))
	return strings.Join(lines, "\n")
}

func renderScores(bins []model.HistogramBin, width int) string {
	return renderWith(func(buf *bytes.Buffer) error {
		return stats.RenderScores(buf, bins, width, true)
	})
}

func renderWith(render func(buf *bytes.Buffer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) applyTopTable(width, height int) {
	cols, rows := buildTopTableData(m.dash.Report.Top)
	m.topTable.SetColumns(cols)
	m.topTable.SetRows(rows)
	m.topLayout.rowCount = len(rows)
	m.topLayout.width = 0
	m.setTopTableSize(width, height)
}

func (m *Model) setTopTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.topLayout.width == width && m.topLayout.height == viewportHeight {
		return
	}
	m.topLayout.width = width
	m.topLayout.height = viewportHeight
	m.topTable.SetWidth(width)
	m.topTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustTopTableHeight(height)
	if m.topLayout.height != viewportHeight {
		m.topLayout.height = viewportHeight
		m.topTable.SetHeight(viewportHeight)
	}
}

func (m *Model) adjustTopTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.topTable.Height()
	viewHeight := lipgloss.Height(m.topTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func topTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func buildTopTableData(records []model.EmailRecord) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Subject", Width: 36},
		{Title: "Sender", Width: 24},
		{Title: "Folder", Width: 14},
		{Title: "Score", Width: 7},
	}
	rows := make([]table.Row, 0, len(records))
	for i, r := range records {
		folder := r.Folder
		if folder == "" {
			folder = "<none>"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Subject,
			r.Sender,
			folder,
			stats.FormatScore(r.Score),
		})
	}
	return columns, rows
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settingsError = ""
	m.setInputsFromConfig()
	return m, m.setSettingsIndex(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applySettings(); err != nil {
			m.settingsError = err.Error()
			return m, nil
		}
		m.settingsMode = false
		m.settingsError = ""
		m.updateLayout()
		return m, m.startRefresh()
	case tea.KeyTab:
		return m, m.setSettingsIndex(m.settingsIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setSettingsIndex(m.settingsIndex - 1)
	}
	var cmd tea.Cmd
	m.settingsInputs[m.settingsIndex], cmd = m.settingsInputs[m.settingsIndex].Update(msg)
	return m, cmd
}

func (m *Model) setSettingsIndex(idx int) tea.Cmd {
	count := len(m.settingsInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.settingsIndex = idx
	var cmd tea.Cmd
	for i := range m.settingsInputs {
		if i == m.settingsIndex {
			cmd = m.settingsInputs[i].Focus()
		} else {
			m.settingsInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applySettings() error {
	bins, err := parsePositive(m.settingsInputs[0].Value())
	if err != nil {
		return fmt.Errorf("invalid bins value (use integer >= 1)")
	}
	top, err := parsePositive(m.settingsInputs[1].Value())
	if err != nil {
		return fmt.Errorf("invalid top value (use integer >= 1)")
	}
	m.charts = model.ChartConfig{Bins: bins, Top: top}
	return nil
}

func parsePositive(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("value must be >= 1")
	}
	return n, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
