package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"embliss/screens"
	"embliss/theme"
	"embliss/widgets"
)

// padFlash is how long a pressed pad stays lit
const padFlash = 150 * time.Millisecond

// Model runs the navigator inside the bubbletea loop, with Sim as its
// display and input
type Model struct {
	Nav   *screens.Navigator
	Sim   *Sim
	Theme *theme.Theme

	keys     keyMap
	help     help.Model
	poll     time.Duration
	lcdWidth int
	litPad   int // 0-based, -1 for none
	litUntil time.Time
	quitting bool
}

type tickMsg time.Time

func NewModel(nav *screens.Navigator, sim *Sim, th *theme.Theme, poll time.Duration, lcdWidth int) Model {
	return Model{
		Nav:      nav,
		Sim:      sim,
		Theme:    th,
		keys:     defaultKeyMap(),
		help:     help.New(),
		poll:     poll,
		lcdWidth: lcdWidth,
		litPad:   -1,
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick(m.poll)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tickMsg:
		m.step(time.Time(msg))
		return m, tick(m.poll)
	}
	return m, nil
}

// step feeds queued input to the navigator and lets it tick
func (m *Model) step(now time.Time) {
	for {
		ev, ok := m.Sim.Poll()
		if !ok {
			break
		}
		m.Nav.Dispatch(ev)
	}
	m.Nav.Tick()
	if m.litPad >= 0 && now.After(m.litUntil) {
		m.litPad = -1
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.EncUp):
		m.Sim.Turn(1)
	case key.Matches(msg, m.keys.EncDown):
		m.Sim.Turn(-1)
	case key.Matches(msg, m.keys.Shift):
		m.Sim.ToggleShift()
	case key.Matches(msg, m.keys.Pads):
		n := int(k[0] - '0')
		m.Sim.Press(n)
		m.litPad = n - 1
		m.litUntil = time.Now().Add(padFlash)
	case key.Matches(msg, m.keys.SliderUp):
		m.Sim.NudgeSlider(indexOf(sliderUpKeys, k), ControlStep)
	case key.Matches(msg, m.keys.SliderDown):
		m.Sim.NudgeSlider(indexOf(sliderDownKeys, k), -ControlStep)
	case key.Matches(msg, m.keys.KnobUp):
		m.Sim.NudgeKnob(ControlStep)
	case key.Matches(msg, m.keys.KnobDown):
		m.Sim.NudgeKnob(-ControlStep)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	line1, line2 := m.Sim.Lines()
	sliders, knob := m.Sim.Levels()

	var levels []string
	for i, v := range sliders {
		levels = append(levels, widgets.RenderLevel(m.Theme, fmt.Sprintf("S%d", i+1), v, 8))
	}
	levels = append(levels, widgets.RenderLevel(m.Theme, "K8", knob, 8))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("embliss sim"))
	out.WriteString("  ")
	out.WriteString(widgets.RenderShift(m.Theme, m.Sim.Shifted()))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderLCD(m.Theme, line1, line2, m.lcdWidth))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderPadRow(m.Theme, m.litPad))
	out.WriteString("\n\n")
	out.WriteString(strings.Join(levels, "\n"))
	out.WriteString("\n\n")
	out.WriteString(m.help.View(m.keys))
	return out.String()
}
