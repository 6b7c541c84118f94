package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/nbody"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 120
	tickRate        = time.Second / 60
)

type TickMsg time.Time

// EngineFactory builds a fresh engine. It is called once at start and
// again on every reset.
type EngineFactory func() (*nbody.Engine, error)

// LiveModel steps an engine on every tick and plots its positions.
type LiveModel struct {
	factory EngineFactory
	engine  *nbody.Engine
	dt      float32
	title   string

	canvas   *Canvas
	worldW   float32
	worldH   float32
	running  bool
	drawn    int
	energy   *metrics.KineticEnergy
	timer    *metrics.StepTimer
	stepHist []float64
	err      error
}

func NewLiveModel(title string, factory EngineFactory, dt, worldW, worldH float32) (*LiveModel, error) {
	m := &LiveModel{
		factory:  factory,
		dt:       dt,
		title:    title,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		worldW:   worldW,
		worldH:   worldH,
		running:  true,
		stepHist: make([]float64, 0, historyCapacity),
	}
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LiveModel) rebuild() error {
	e, err := m.factory()
	if err != nil {
		return err
	}
	if m.engine != nil {
		m.engine.Close()
	}
	m.engine = e
	m.energy = metrics.NewKineticEnergy(e.Params().Mass)
	m.timer = metrics.NewStepTimer()
	e.AddObserver(m.energy)
	e.AddObserver(m.timer)
	m.stepHist = m.stepHist[:0]
	m.err = nil
	m.draw()
	return nil
}

// Close releases the current engine.
func (m *LiveModel) Close() {
	if m.engine != nil {
		m.engine.Close()
	}
}

func (m *LiveModel) Engine() *nbody.Engine { return m.engine }

func (m *LiveModel) Running() bool { return m.running }

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *LiveModel) Init() tea.Cmd {
	return tick()
}

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.rebuild(); err != nil {
				m.err = err
				m.running = false
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) step() {
	if err := m.engine.Step(m.dt); err != nil {
		m.err = err
		m.running = false
		return
	}

	ms := float64(m.timer.Last().Microseconds()) / 1000
	if len(m.stepHist) == historyCapacity {
		copy(m.stepHist, m.stepHist[1:])
		m.stepHist = m.stepHist[:historyCapacity-1]
	}
	m.stepHist = append(m.stepHist, ms)
	m.draw()
}

func (m *LiveModel) draw() {
	m.canvas.Clear()
	x, y := m.engine.Positions()
	m.drawn = m.canvas.Plot(x, y, m.worldW, m.worldH)
}

func (m *LiveModel) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(Warning.Render("HALTED") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.stepHist) > 1 {
		chart := asciigraph.Plot(m.stepHist,
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("step ms"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	e := m.engine
	s.WriteString(Metric("Step", fmt.Sprintf("%d", e.Steps())) + "\n")
	s.WriteString(Metric("Bodies", fmt.Sprintf("%d (%d on screen)", e.Bodies(), m.drawn)) + "\n")
	s.WriteString(Metric("Workers", fmt.Sprintf("%d x %d jobs", e.Workers(), e.Jobs())) + "\n")
	s.WriteString(Metric("Chunk", fmt.Sprintf("%d", e.ChunkSize())) + "\n")
	s.WriteString(Metric("Step ms", fmt.Sprintf("%.3f", m.timer.Value())) + "\n")
	s.WriteString(Metric("Kinetic", fmt.Sprintf("%.4g", m.energy.Value())) + "\n")
	if d := e.Dropped(); d > 0 {
		s.WriteString(Warning.Render(fmt.Sprintf("%d bodies outside job range", d)) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + Warning.Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()))
}
