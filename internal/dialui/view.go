package dialui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/primedial/internal/chart"
	"github.com/verte-zerg/primedial/internal/dial"
	"github.com/verte-zerg/primedial/internal/model"
)

const historyTimeLayout = "2006-01-02 15:04:05"

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
	drawValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

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

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.formMode && m.errMsg != "" {
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
	m.dialView.Width = m.width
	m.dialView.Height = bodyHeight
	tableHeight := maxInt(1, bodyHeight-1)
	m.seriesTable.SetWidth(m.width)
	m.seriesTable.SetHeight(tableHeight)
	m.historyTable.SetWidth(m.width)
	m.historyTable.SetHeight(tableHeight)
	for i := range m.formInputs {
		promptWidth := lipgloss.Width(m.formInputs[i].Prompt)
		m.formInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) renderContents() {
	m.seriesTable.SetRows(seriesRows(m.series, m.hasSeries))
	width, height := m.width, m.dialView.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.dialView.SetContent(m.renderDial(width, height))
}

func (m *Model) renderDial(width, height int) string {
	if m.seriesErr != "" {
		return m.seriesErr
	}
	if !m.hasSeries {
		return "Computing primes..."
	}
	cards := m.renderCards()
	cardsWidth := lipgloss.Width(cards)
	rows := chart.DialRowsFor(maxInt(1, width-cardsWidth-2), height)
	dialBlock := strings.Join(chart.DialLines(m.series, rows, true), "\n")
	if dialBlock == "" {
		return cards
	}
	if width-cardsWidth-2 < rows*2 {
		return lipgloss.JoinVertical(lipgloss.Left, dialBlock, cards)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, dialBlock, "  ", cards)
}

func (m *Model) renderCards() string {
	drawn := "-"
	if m.drawNote != "" {
		drawn = m.drawNote
	} else if m.hasDraw {
		drawn = drawValueStyle.Render(strconv.Itoa(m.lastDraw))
	}
	stats := m.engine.CacheStats()
	cards := []string{
		metricCard("Random prime", drawn),
		metricCard("Range", fmt.Sprintf("%d - %d", m.seriesRange.Min, m.seriesRange.Max)),
		metricCard("Series", strings.Join(chart.SummaryLines(m.series), "\n")),
		metricCard("Cache", fmt.Sprintf("%d ranges  %d hits  %d misses", stats.Len, stats.Hits, stats.Misses)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
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
	summary := fmt.Sprintf("Min: %d  Max: %d  Cap: %d", m.min, m.max, m.cfg.Cap)
	if m.hasSeries && m.seriesRange != m.currentRange() {
		summary += "  (updating)"
	}
	if m.hasDraw {
		summary += fmt.Sprintf("  Last draw: %d", m.lastDraw)
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Tabs: tab/1-3  Draw: r/space  Range: /  Reset cache: c  Quit: q"
	if m.activeTab == tabDial {
		help = "Min: left/right  Max: down/up  x10: shift  Draw: r/space  Range: /  Tabs: tab  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.formMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: q")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderForm() string {
	lines := []string{"Range (enter to apply, esc to cancel)"}
	for _, input := range m.formInputs {
		lines = append(lines, input.View())
	}
	if m.formError != "" {
		lines = append(lines, errorStyle.Render(m.formError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.formMode {
		return fitLines(m.renderForm(), m.width, height)
	}
	switch m.activeTab {
	case tabSeries:
		if !m.hasSeries {
			return fitLines("No series to show.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.seriesTable.View()), m.width, height)
	case tabHistory:
		if m.history == nil {
			return fitLines("History is disabled.", m.width, height)
		}
		if len(m.draws) == 0 {
			return fitLines("No draws yet. Press r to draw a prime.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.historyTable.View()), m.width, height)
	default:
		return fitLines(m.dialView.View(), m.width, height)
	}
}

func seriesColumns() []table.Column {
	return []table.Column{
		{Title: "Position", Width: 9},
		{Title: "Prime", Width: 12},
		{Title: "Colour", Width: 26},
		{Title: "", Width: 2},
	}
}

func seriesRows(s dial.Series, ok bool) []table.Row {
	if !ok {
		return nil
	}
	rows := make([]table.Row, 0, s.Len())
	for i, p := range s.Points {
		mark := ""
		if i == s.Highlighted {
			mark = "*"
		}
		rows = append(rows, table.Row{p.Label, strconv.Itoa(p.Value), p.Color.String(), mark})
	}
	return rows
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 6},
		{Title: "When", Width: 19},
		{Title: "Range", Width: 23},
		{Title: "Prime", Width: 12},
	}
}

func historyRows(draws []model.Draw) []table.Row {
	rows := make([]table.Row, 0, len(draws))
	for _, d := range draws {
		rows = append(rows, table.Row{
			strconv.FormatInt(d.ID, 10),
			d.DrawnAt.Local().Format(historyTimeLayout),
			model.Range{Min: d.Min, Max: d.Max}.String(),
			strconv.Itoa(d.Value),
		})
	}
	return rows
}

func newTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height)),
	)
	t.SetStyles(tableStyles())
	return t
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
