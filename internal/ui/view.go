package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hoppet/internal/pet"
	"hoppet/internal/stage"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	canvas  lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B5")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(30),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(30),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	canvas: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#874BFD")),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}

	title := gameStyles.title.Render("😺 hoppet 😺")

	var body string
	if m.Animation.Type != AnimNone {
		body = m.renderAnimation()
	} else {
		body = m.renderCanvas()
	}

	sections := []string{
		title,
		"",
		body,
		"",
		m.renderStats(),
		"",
		m.renderStatus(),
	}

	if m.Message != "" && timeNow().Before(m.MessageExpires) {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}

	if m.Animation.Type == AnimNone {
		sections = append(sections, "", m.renderMenu())
	}
	sections = append(sections,
		"",
		gameStyles.status.Render("Use arrows to move • enter to select • q to quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderCanvas() string {
	return gameStyles.canvas.Render(stage.Render(m.opts.CanvasCols, m.opts.CanvasRows, m.Art, m.State))
}

func (m Model) renderStats() string {
	stats := []struct {
		name  string
		value int
	}{
		{"Happiness", m.Stats.Happiness},
		{"Hunger", m.Stats.Hunger},
		{"Cleanliness", m.Stats.Cleanliness},
		{"Health", m.Stats.Health},
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-12s %s %3d%%", stat.name+":", makeBar(stat.value), stat.value))
	}

	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	return gameStyles.status.Render(fmt.Sprintf("Status: %s", pet.GetStatusWithLabel(m.Stats)))
}

func (m Model) renderMenu() string {
	var menuItems []string
	for i := 0; i <= len(pet.Actions); i++ {
		label := "Quit"
		if i < len(pet.Actions) {
			label = pet.Actions[i].Title()
		}
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		menuItems = append(menuItems, gameStyles.menu.Render(fmt.Sprintf("%s %s", cursor, label)))
	}

	return gameStyles.menuBox.Render(strings.Join(menuItems, "\n"))
}

func (m Model) renderAnimation() string {
	animStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true).
		Padding(1, 2)

	return animStyle.Render(GetAnimationFrame(m.Animation))
}

// makeBar draws a five-segment gauge for a 0-100 stat
func makeBar(value int) string {
	filled := value / 20
	var bar strings.Builder
	for i := 0; i < 5; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	return bar.String()
}
