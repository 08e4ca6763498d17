// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/minutetype/internal/history"
	"github.com/verte-zerg/minutetype/internal/model"
)

const (
	tabOverview = iota
	tabResults
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
	trendStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	src    history.Source
	filter model.HistoryFilter

	report history.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	results   table.Model

	width  int
	height int
}

// NewModel loads a report for filter and builds the browser around it.
func NewModel(src history.Source, filter model.HistoryFilter) *Model {
	if filter.Window < 1 {
		filter.Window = 1
	}
	m := &Model{
		src:      src,
		filter:   filter,
		tabs:     []string{"Overview", "Results"},
		overview: viewport.New(0, 0),
		results: table.New(
			table.WithColumns(resultColumns()),
			table.WithStyles(tableStyles()),
		),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.filter.Window = nextWindow(m.filter.Window)
			m.renderOverview()
			return m, nil
		case "-":
			m.filter.Window = prevWindow(m.filter.Window)
			m.renderOverview()
			return m, nil
		case "g", "home":
			if m.activeTab == tabResults {
				m.results.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabResults {
				m.results.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabResults {
			m.results, cmd = m.results.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
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
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Window returns the current moving-average window.
func (m *Model) Window() int { return m.filter.Window }

func (m *Model) refreshReport() {
	report, err := history.BuildReport(context.Background(), m.src, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.report = history.Report{}
		m.results.SetRows(nil)
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.results.SetRows(resultRows(report.Results))
	m.renderOverview()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
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
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.results.SetWidth(m.width)
	// One line for the header row and one for its border.
	m.results.SetHeight(maxInt(1, bodyHeight-2))
}

func (m *Model) moveTab(delta int) {
	next := (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.activeTab = next
	if m.activeTab == tabResults {
		m.results.Focus()
	} else {
		m.results.Blur()
	}
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load history.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.filter.Window, width))
}

func renderOverview(r history.Report, window, width int) string {
	if len(r.Results) == 0 {
		return "No results found."
	}
	sections := []string{
		renderSummaryCards(r.Summary, width),
		renderTrend(r.Results, window, width),
	}
	if tiers := renderTiers(r.Summary.Tiers); tiers != "" {
		sections = append(sections, tiers)
	}
	if len(r.MissedWords) > 0 {
		var buf bytes.Buffer
		if err := history.RenderMissedWords(&buf, r.MissedWords); err == nil {
			sections = append(sections, strings.TrimRight(buf.String(), "\n"))
		}
	}
	return strings.Join(sections, "\n\n")
}

func renderSummaryCards(s history.Summary, width int) string {
	cards := []string{
		metricCard("Tests", fmt.Sprintf("%d", s.Sessions)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", s.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%d", s.BestWPM)),
		metricCard("Avg CPM", fmt.Sprintf("%.1f", s.AvgCPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", s.AvgAccuracy)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderTrend(results []model.Result, window, width int) string {
	line := history.Sparkline(history.MovingAverage(history.WPMSeries(results), window), width-2)
	title := headerStyle.Render(fmt.Sprintf("WPM trend (window %d)", window))
	return title + "\n" + trendStyle.Render(line)
}

func renderTiers(tiers []history.TierCount) string {
	if len(tiers) == 0 {
		return ""
	}
	lines := []string{headerStyle.Render("Tiers")}
	for _, tc := range tiers {
		lines = append(lines, fmt.Sprintf("%s %s × %d", tc.Icon, tc.Tier, tc.Count))
	}
	return strings.Join(lines, "\n")
}

func resultColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "WPM", Width: 4},
		{Title: "CPM", Width: 5},
		{Title: "Correct", Width: 7},
		{Title: "Mistakes", Width: 8},
		{Title: "Acc", Width: 5},
		{Title: "Tier", Width: 12},
	}
}

// resultRows lists the newest result first.
func resultRows(results []model.Result) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		rows = append(rows, table.Row{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d", r.CPM),
			fmt.Sprintf("%d", r.CorrectWords),
			fmt.Sprintf("%d", r.IncorrectWords),
			fmt.Sprintf("%d%%", r.Accuracy),
			strings.TrimSpace(r.TierIcon + " " + r.Tier),
		})
	}
	return rows
}

func tableStyles() table.Styles {
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
	lang := m.filter.Lang
	if lang == "" {
		lang = "any"
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.filter.Last > 0 {
		last = fmt.Sprintf("%d", m.filter.Last)
	}
	summary := fmt.Sprintf("Filter: lang=%s  since=%s  last=%s  window=%d", lang, since, last, m.filter.Window)
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.activeTab == tabResults {
		if len(m.report.Results) == 0 {
			return "No results found."
		}
		return tableMutedStyle.Render(m.results.View())
	}
	return m.overview.View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
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
