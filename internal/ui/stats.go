package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"hoppet/internal/pet"
)

// StatsModel is a simple Bubble Tea model for displaying stats
type StatsModel struct {
	Stats pet.Stats
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	return StatsCard(m.Stats) + "\nPress ESC, click, or any key to close..."
}

// StatsCard renders the boxed stats summary
func StatsCard(s pet.Stats) string {
	var b strings.Builder
	b.WriteString("╔════════════════════════════════════╗\n")
	b.WriteString("║  😺 hoppet 😺                      ║\n")
	b.WriteString("╠════════════════════════════════════╣\n")
	b.WriteString(fmt.Sprintf("║  Status:      %-21s║\n", pet.GetStatus(s)))
	b.WriteString("║                                    ║\n")
	b.WriteString(fmt.Sprintf("║  Happiness:   [%s] %3d%%         ║\n", makeBar(s.Happiness), s.Happiness))
	b.WriteString(fmt.Sprintf("║  Hunger:      [%s] %3d%%         ║\n", makeBar(s.Hunger), s.Hunger))
	b.WriteString(fmt.Sprintf("║  Cleanliness: [%s] %3d%%         ║\n", makeBar(s.Cleanliness), s.Cleanliness))
	b.WriteString(fmt.Sprintf("║  Health:      [%s] %3d%%         ║\n", makeBar(s.Health), s.Health))
	b.WriteString("╚════════════════════════════════════╝\n")
	return b.String()
}

// DisplayStats shows the stats card until a key or click
func DisplayStats(s pet.Stats) error {
	program := tea.NewProgram(StatsModel{Stats: s}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running stats display: %w", err)
	}
	return nil
}
