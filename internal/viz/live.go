package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/metrics"
	"github.com/san-kum/dpdsim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 400
)

type TickMsg time.Time

// Model drives a live simulation view: one implicit thermostat step per
// frame, particle scatter on the left, thermostat stats on the right.
type Model struct {
	simulator *sim.Simulator
	box       float64
	fps       int

	pos, vel dpd.Vector
	pos0     dpd.Vector
	vel0     dpd.Vector
	step     int64
	running  bool

	tempHistory []float64
}

func NewModel(s *sim.Simulator, pos, vel dpd.Vector, box float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		simulator:   s,
		box:         box,
		fps:         fps,
		pos:         pos.Clone(),
		vel:         vel.Clone(),
		pos0:        pos.Clone(),
		vel0:        vel.Clone(),
		running:     true,
		tempHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.pos = m.pos0.Clone()
			m.vel = m.vel0.Clone()
			m.step = 0
			m.tempHistory = m.tempHistory[:0]
		}
	case TickMsg:
		if m.running {
			newPos, newVel := m.simulator.Step(m.step, m.pos, m.vel)
			m.pos = newPos.Clone()
			m.vel = newVel.Clone()
			m.step++

			m.tempHistory = append(m.tempHistory, metrics.KineticTemperature(m.vel))
			if len(m.tempHistory) > historyCapacity {
				m.tempHistory = m.tempHistory[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	scatter := canvasStyle.Render(Scatter(m.pos, m.box, canvasWidth, canvasHeight))

	status := "running"
	if !m.running {
		status = "paused"
	}
	stats := m.simulator.Thermostat().SolverStats()

	side := headerStyle.Render("dpdsim live") + "\n" +
		row("status", status) +
		row("step", fmt.Sprintf("%d", m.step)) +
		row("time", fmt.Sprintf("%.3f", float64(m.step)*m.simulator.Thermostat().Dt())) +
		row("temperature", fmt.Sprintf("%.4f", metrics.KineticTemperature(m.vel))) +
		row("solves", fmt.Sprintf("%d", stats.Solves)) +
		row("mvm/solve", perSolve(stats.Applies, stats.Solves)) +
		row("iter/solve", perSolve(stats.Iterations, stats.Solves))

	if len(m.tempHistory) >= 2 {
		side += graphStyle.Render(asciigraph.Plot(m.tempHistory, asciigraph.Height(6), asciigraph.Width(30)))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top, scatter, statsStyle.Render(side))
	return view + helpStyle.Render("\n space pause · r reset · q quit\n")
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func perSolve(total, solves int) string {
	if solves == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(total)/float64(solves))
}

// Run starts the live view and blocks until quit.
func Run(s *sim.Simulator, pos, vel dpd.Vector, box float64, fps int) error {
	p := tea.NewProgram(NewModel(s, pos, vel, box, fps))
	_, err := p.Run()
	return err
}
