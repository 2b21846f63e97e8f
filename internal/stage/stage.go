package stage

import (
	"fmt"
	"log"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hoppet/internal/motion"
	"hoppet/internal/sprite"
)

const (
	// FrameInterval approximates a 60 Hz display refresh
	FrameInterval  = time.Second / 60
	minVisibleRows = 6
	minVisibleCols = 20
)

var stageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF75B5"))

// FrameMsg is one display refresh
type FrameMsg time.Time

// Frame schedules the next refresh
func Frame() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// Model is the full-screen hop stage
type Model struct {
	Art        Art
	Config     motion.Config
	Sim        *motion.Simulator
	State      motion.State
	TermWidth  int
	TermHeight int
	Frame      int
}

// New creates a stage model. The canvas is sized on the first resize event.
func New(cfg motion.Config, sp *sprite.Sprite) Model {
	return Model{Art: NewArt(sp), Config: cfg}
}

// Run starts the full-screen stage
func Run(cfg motion.Config, sp *sprite.Sprite) error {
	program := tea.NewProgram(New(cfg, sp), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("hop stage: %w", err)
	}
	return nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return Frame()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.TermWidth = msg.Width
		m.TermHeight = msg.Height
		m.resize()
		return m, nil

	case FrameMsg:
		m.Frame++
		if m.Sim != nil {
			m.State = m.Sim.Step(m.State)
		}
		return m, Frame()
	}

	return m, nil
}

// resize rebuilds the simulator for the new canvas and pulls the sprite
// back inside it
func (m *Model) resize() {
	if m.TermWidth <= 0 || m.TermHeight <= 0 || !m.Art.Ready() {
		return
	}
	sim, err := NewSimulator(m.Config, m.visibleCols(), m.visibleRows(), m.Art)
	if err != nil {
		log.Printf("Stage resize failed: %v", err)
		return
	}

	fresh := m.Sim == nil
	m.Sim = sim
	if fresh {
		m.State = sim.Start()
		return
	}
	m.State = Clamp(sim.Bounds(), m.State)
}

// Clamp pulls a state inside bounds. A sprite still sliding in is left
// off-screen.
func Clamp(b motion.Bounds, st motion.State) motion.State {
	if !st.SlidingIn {
		st.Pos.X = math.Max(0, math.Min(st.Pos.X, b.MaxX()))
	}
	st.Pos.Y = math.Max(0, math.Min(st.Pos.Y, b.GroundY()))
	return st
}

// View implements tea.Model
func (m Model) View() string {
	if m.TermWidth == 0 || m.TermHeight == 0 {
		return "Initializing..."
	}
	canvas := Render(m.visibleCols(), m.visibleRows(), m.Art, m.State)
	return stageStyle.Render(canvas) + "\n\nPress any key to exit"
}

func (m Model) visibleRows() int {
	if m.TermHeight <= 0 {
		return 0
	}
	rows := m.TermHeight - 2 // leave space for instruction
	if rows < minVisibleRows {
		rows = minVisibleRows
	}
	return rows
}

func (m Model) visibleCols() int {
	if m.TermWidth < minVisibleCols {
		return minVisibleCols
	}
	return m.TermWidth
}
