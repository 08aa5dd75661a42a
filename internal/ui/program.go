package ui

import (
	"context"
	"strings"
	"time"

	"github.com/bnema/js2mouse/internal/engine"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/logger"
	"github.com/bnema/js2mouse/internal/mapping"
	tea "github.com/charmbracelet/bubbletea"
)

// Sender is the part of *tea.Program the engine side needs
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramObserver forwards engine callbacks into a running program. It
// snapshots the axis state since the loop keeps mutating it.
type ProgramObserver struct {
	sender Sender
	now    func() time.Time
}

// NewProgramObserver wraps s
func NewProgramObserver(s Sender) *ProgramObserver {
	return &ProgramObserver{sender: s, now: time.Now}
}

func (o *ProgramObserver) OnEvent(ev joystick.Event, axes *joystick.AxisState) {
	o.sender.Send(EventMsg{Event: ev, Axes: axes.Values()})
}

func (o *ProgramObserver) OnAction(a mapping.Action) {
	o.sender.Send(ActionMsg{Action: a, At: o.now()})
}

func (o *ProgramObserver) OnState(s engine.State) {
	o.sender.Send(StateMsg{State: s})
}

// LogWriter turns formatted log lines into LogMsg so that logging does
// not tear the alt screen
type LogWriter struct {
	sender Sender
}

// NewLogWriter wraps s
func NewLogWriter(s Sender) *LogWriter {
	return &LogWriter{sender: s}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		w.sender.Send(LogMsg{Entry: LogEntry{
			Timestamp: time.Now(),
			Level:     levelOf(line),
			Message:   line,
		}})
	}
	return len(p), nil
}

func levelOf(line string) string {
	switch {
	case strings.Contains(line, "ERRO"):
		return "error"
	case strings.Contains(line, "WARN"):
		return "warn"
	case strings.Contains(line, "DEBU"):
		return "debug"
	default:
		return "info"
	}
}

// ProgramRunner manages the lifecycle of a Bubble Tea program so that
// context cancellation shuts it down
type ProgramRunner struct {
	program     *tea.Program
	gracePeriod time.Duration
	done        chan struct{}
}

// NewProgramRunner wraps an already constructed program
func NewProgramRunner(p *tea.Program) *ProgramRunner {
	return &ProgramRunner{
		program:     p,
		gracePeriod: 2 * time.Second,
		done:        make(chan struct{}),
	}
}

// Run blocks until the program exits or ctx is cancelled
func (r *ProgramRunner) Run(ctx context.Context) (tea.Model, error) {
	defer close(r.done)

	type result struct {
		model tea.Model
		err   error
	}
	resCh := make(chan result, 1)
	go func() {
		m, err := r.program.Run()
		resCh <- result{m, err}
	}()

	select {
	case res := <-resCh:
		return res.model, res.err
	case <-ctx.Done():
		r.program.Quit()

		select {
		case res := <-resCh:
			return res.model, res.err
		case <-time.After(r.gracePeriod):
			logger.Warn("UI did not stop in time, killing it")
			r.program.Kill()
			res := <-resCh
			return res.model, res.err
		}
	}
}

// Done is closed once Run returns
func (r *ProgramRunner) Done() <-chan struct{} {
	return r.done
}
