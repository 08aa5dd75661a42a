package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bnema/js2mouse/internal/engine"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/mapping"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Messages pushed into the monitor program from the engine goroutine
type (
	// EventMsg carries one raw event and a snapshot of every axis
	EventMsg struct {
		Event joystick.Event
		Axes  []int
	}

	// ActionMsg is an action the loop produced
	ActionMsg struct {
		Action mapping.Action
		At     time.Time
	}

	// StateMsg reports a loop state change
	StateMsg struct {
		State engine.State
	}

	// DoneMsg is sent once the loop has returned
	DoneMsg struct {
		Outcome engine.Outcome
		Err     error
	}

	// LogMsg carries a log line into the monitor
	LogMsg struct {
		Entry LogEntry
	}
)

// LogEntry is one line in the monitor's scrollback
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
}

const (
	axisBarWidth = 21
	maxLogLines  = 50
)

// MonitorModel shows live axis and button state plus the actions the
// loop takes, without injecting anything
type MonitorModel struct {
	devicePath string
	deviceName string
	spinner    spinner.Model

	state   engine.State
	axes    []int
	buttons map[int]bool
	events  int

	log      []LogEntry
	done     bool
	outcome  engine.Outcome
	quitting bool

	width  int
	height int
}

// NewMonitorModel creates the model for an open device
func NewMonitorModel(devicePath, deviceName string, axisCount int) *MonitorModel {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: SpinnerDot,
		FPS:    time.Second / 10,
	}
	s.Style = SpinnerStyle

	return &MonitorModel{
		devicePath: devicePath,
		deviceName: deviceName,
		spinner:    s,
		axes:       make([]int, axisCount),
		buttons:    make(map[int]bool),
		width:      80,
		height:     24,
	}
}

// Init implements tea.Model
func (m *MonitorModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		m.events++
		if msg.Axes != nil {
			m.axes = msg.Axes
		}
		if msg.Event.IsButton() {
			m.buttons[int(msg.Event.Index)] = msg.Event.Pressed()
		}

	case ActionMsg:
		m.addLog(LogEntry{Timestamp: msg.At, Level: "action", Message: msg.Action.String()})

	case StateMsg:
		m.state = msg.State

	case LogMsg:
		m.addLog(msg.Entry)

	case DoneMsg:
		m.done = true
		m.outcome = msg.Outcome
		m.state = engine.StateTerminated
		return m, tea.Quit
	}

	return m, nil
}

func (m *MonitorModel) addLog(e LogEntry) {
	m.log = append(m.log, e)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// Outcome returns how the loop ended, if it did
func (m *MonitorModel) Outcome() (engine.Outcome, bool) {
	return m.outcome, m.done
}

// Quitting reports whether the user closed the monitor
func (m *MonitorModel) Quitting() bool {
	return m.quitting
}

// View implements tea.Model
func (m *MonitorModel) View() string {
	var out strings.Builder

	out.WriteString(m.renderStatusBar())
	out.WriteString("\n\n")

	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.renderAxes(), " ", m.renderButtons())
	out.WriteString(panels)
	out.WriteString("\n")

	used := lipgloss.Height(panels) + 4
	out.WriteString(m.renderLog(m.height - used))

	return out.String()
}

func (m *MonitorModel) renderStatusBar() string {
	parts := []string{AppNameStyle.Render("JS2MOUSE")}

	if m.done {
		parts = append(parts, FormatStatus(false, m.outcome.Reason.String()))
	} else {
		parts = append(parts, FormatStatus(true, m.spinner.View()+" "+m.state.String()))
	}

	name := m.deviceName
	if name == "" {
		name = m.devicePath
	}
	parts = append(parts,
		TextStyle.Render(name),
		SubtleStyle.Render(fmt.Sprintf("%d events", m.events)),
		MutedStyle.Render("[q] quit"),
	)

	return strings.Join(parts, SubtleStyle.Render(" │ "))
}

func (m *MonitorModel) renderAxes() string {
	var b strings.Builder
	b.WriteString(SubheaderStyle.Render(IconStick + " Axes"))
	for i, v := range m.axes {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%2d %s %6d", i, AxisBar(v, axisBarWidth), v))
	}
	return BoxStyle.Render(b.String())
}

func (m *MonitorModel) renderButtons() string {
	var b strings.Builder
	b.WriteString(SubheaderStyle.Render(IconPad + " Buttons"))

	pressed := make([]int, 0, len(m.buttons))
	for idx, down := range m.buttons {
		if down {
			pressed = append(pressed, idx)
		}
	}
	sort.Ints(pressed)

	b.WriteString("\n")
	if len(pressed) == 0 {
		b.WriteString(MutedStyle.Render("none pressed"))
	} else {
		labels := make([]string, len(pressed))
		for i, idx := range pressed {
			labels[i] = SuccessStyle.Render(fmt.Sprintf("[%d]", idx))
		}
		b.WriteString(strings.Join(labels, " "))
	}
	return BoxStyle.Render(b.String())
}

func (m *MonitorModel) renderLog(lines int) string {
	if lines < 3 {
		lines = 3
	}
	start := 0
	if len(m.log) > lines {
		start = len(m.log) - lines
	}

	var b strings.Builder
	for _, e := range m.log[start:] {
		style := TextStyle
		switch e.Level {
		case "action":
			style = InfoStyle
		case "warn":
			style = WarningStyle
		case "error":
			style = ErrorStyle
		}
		b.WriteString(SubtleStyle.Render(e.Timestamp.Format("15:04:05.000")))
		b.WriteString(" ")
		b.WriteString(style.Render(e.Message))
		b.WriteString("\n")
	}
	return b.String()
}

// AxisBar draws value as a marker on a track of width cells, centered at
// zero
func AxisBar(value, width int) string {
	if width < 3 {
		width = 3
	}
	pos := (value + 32768) * (width - 1) / 65535
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}

	return MutedStyle.Render(strings.Repeat("─", pos)) +
		InfoStyle.Render("█") +
		MutedStyle.Render(strings.Repeat("─", width-1-pos))
}
