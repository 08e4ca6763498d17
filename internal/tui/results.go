package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/minutetype/internal/engine"
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 3)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tierStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A855F7")).Bold(true)
	remarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
)

// renderResults draws the results dialog for a finished session.
func (m *Model) renderResults() string {
	res, ok := m.session.Result()
	if !ok {
		return ""
	}
	lines := []string{
		titleStyle.Render("Test Results"),
		"",
		res.Tier.Icon,
		tierStyle.Render(fmt.Sprintf("You are a %s!", res.Tier.Name)),
		remarkStyle.Render(engine.Encouragement(res.WPM)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			metricCard("WPM", fmt.Sprintf("%d", res.WPM)),
			metricCard("CPM", fmt.Sprintf("%d", res.CPM)),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			metricCard("Correct Words", fmt.Sprintf("%d", res.CorrectWords)),
			metricCard("Mistakes", fmt.Sprintf("%d", res.IncorrectWords)),
		),
	}
	if m.newBest {
		lines = append(lines, "", bestStyle.Render("New personal best!"))
	}
	lines = append(lines, "", remarkStyle.Render("Press enter to try again"))
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
