// Package viz renders the live terminal view: lifecycle phase, channel and
// stress traces, plant-weight bars, and scrub-through-history controls.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/verdantlab/verdant/internal/bridge"
	"github.com/verdantlab/verdant/internal/engine"
	"github.com/verdantlab/verdant/internal/runner"
)

const frameInterval = time.Second / 30

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	phaseColors = map[engine.Phase]lipgloss.Style{
		engine.PhaseAlive:      lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		engine.PhaseStressed:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		engine.PhaseCollapse:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		engine.PhaseRecover:    lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true),
		engine.PhaseExtinction: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true),
		engine.PhaseRebirth:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
	}
)

type TickMsg time.Time

// Model drives the live runner from bubbletea frame ticks and renders the
// latest snapshot, or a history snapshot while scrubbing.
type Model struct {
	run  *runner.Runner
	brid *bridge.Bridge

	playHead int // -1 = live, otherwise index into history
	showHelp bool
}

func NewModel(run *runner.Runner, brid *bridge.Bridge) Model {
	run.Start()
	return Model{run: run, brid: brid, playHead: -1}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.run.Status() == runner.StatusRunning {
				m.run.Pause()
			} else {
				m.playHead = -1
				m.run.Start()
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "+", "=":
			m.run.SetSpeed(m.run.Config().Speed * 1.25)
		case "-", "_":
			m.run.SetSpeed(m.run.Config().Speed * 0.8)
		case "b":
			m.cycleBiome()
		case "c":
			m.toggleAccess(func(a *engine.Accessibility) { a.ColorAgnostic = !a.ColorAgnostic })
		case "r":
			m.toggleAccess(func(a *engine.Accessibility) { a.ReducedMotion = !a.ReducedMotion })
		case "p":
			m.toggleAccess(func(a *engine.Accessibility) { a.PhotosensitivitySafe = !a.PhotosensitivitySafe })
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.run.Tick(time.Time(msg))
		return m, tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// scrub moves the playback head through the rolling history, pausing live
// stepping while replaying.
func (m *Model) scrub(dir int) {
	history := m.run.History()
	if len(history) == 0 {
		return
	}
	if m.playHead == -1 {
		m.run.Pause()
		m.playHead = len(history) - 1
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(history) {
		m.playHead = -1
	}
}

func (m *Model) cycleBiome() {
	set := m.brid.Settings()
	names := engine.BiomeNames()
	for i, name := range names {
		if name == set.Biome {
			set.Biome = names[(i+1)%len(names)]
			m.brid.SetSettings(set)
			return
		}
	}
	set.Biome = names[0]
	m.brid.SetSettings(set)
}

func (m *Model) toggleAccess(f func(*engine.Accessibility)) {
	set := m.brid.Settings()
	f(&set.Access)
	m.brid.SetSettings(set)
}

func (m Model) View() string {
	history := m.run.History()

	var snap engine.Snapshot
	status := "RUNNING"
	switch {
	case m.playHead >= 0 && m.playHead < len(history):
		snap = history[m.playHead]
		status = fmt.Sprintf("REPLAY cycle %d of %d buffered", snap.CycleIndex, len(history))
	case len(history) > 0:
		snap = history[len(history)-1]
		if m.run.Status() == runner.StatusPaused {
			status = "PAUSED"
		}
	default:
		return headerStyle.Render("VERDANT") + "\nwaiting for first cycle..."
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("VERDANT :: "+m.run.Config().Scenario) + "\n")
	s.WriteString(status + "\n\n")

	phaseStyle, ok := phaseColors[snap.Life.Phase]
	if !ok {
		phaseStyle = valueStyle
	}
	s.WriteString(labelStyle.Render("Phase") + phaseStyle.Render(string(snap.Life.Phase)) +
		valueStyle.Render(fmt.Sprintf("  (%.1fs)", snap.Life.TimeInPhase)) + "\n")
	s.WriteString(labelStyle.Render("Cycle") + valueStyle.Render(fmt.Sprintf("%d", snap.CycleIndex)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1fs", snap.Time)) + "\n")
	s.WriteString(labelStyle.Render("Stress") + valueStyle.Render(fmt.Sprintf("%.3f", snap.Life.Stress)) + "\n")
	s.WriteString(labelStyle.Render("Vitality") + valueStyle.Render(fmt.Sprintf("%.3f", snap.Uniforms.UVitality)) + "\n")
	s.WriteString(labelStyle.Render("Fracture") + valueStyle.Render(fmt.Sprintf("%.3f", snap.Uniforms.UFractureIntensity)) + "\n")
	s.WriteString(labelStyle.Render("Biome") + valueStyle.Render(m.brid.Settings().Biome) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.2fx", m.run.Config().Speed)) + "\n")

	if chart := traceChart(history, m.playHead); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nPLANT SYSTEMS\n")
	for _, e := range snap.PlantsTop3 {
		bar := weightBar(e.Weight)
		line := fmt.Sprintf("%-12s %s %.2f", e.Name, bar, e.Weight)
		if e.Active {
			s.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString(labelStyle.Render("  "+line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\nSP:Pause [ ]:Scrub +/-:Speed B:Biome C/R/P:Access ?:Help Q:Quit"))

	view := statsStyle.Render(s.String())
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

func traceChart(history []engine.Snapshot, playHead int) string {
	end := len(history)
	if playHead >= 0 && playHead < end {
		end = playHead + 1
	}
	if end < 2 {
		return ""
	}
	start := 0
	if end > 120 {
		start = end - 120
	}
	stress := make([]float64, 0, end-start)
	vitality := make([]float64, 0, end-start)
	for _, snap := range history[start:end] {
		stress = append(stress, snap.Life.Stress)
		vitality = append(vitality, snap.Uniforms.UVitality)
	}
	return asciigraph.Plot(stress, asciigraph.Height(4), asciigraph.Width(48), asciigraph.Caption("stress")) +
		"\n" +
		asciigraph.Plot(vitality, asciigraph.Height(4), asciigraph.Width(48), asciigraph.Caption("vitality"))
}

func weightBar(w float64) string {
	const width = 10
	filled := int(w * width)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

const helpText = `
  Space  - Pause/Resume playback
  [ ]    - Scrub back/forward through buffered history
  + -    - Raise/lower playback speed
  B      - Cycle biome
  C      - Toggle color-agnostic palette
  R      - Toggle reduced motion
  P      - Toggle photosensitivity-safe mode
  ?      - Toggle this help
  Q      - Quit
`
