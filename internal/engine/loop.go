// Package engine runs the event loop that turns joystick events into
// synthetic input.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/input"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/logger"
	"github.com/bnema/js2mouse/internal/mapping"
)

// State is the loop's lifecycle state
type State int

const (
	StateRunning State = iota
	StateAwaitingQuitConfirmation
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAwaitingQuitConfirmation:
		return "awaiting-quit-confirmation"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reason says why the loop terminated
type Reason int

const (
	ReasonNone Reason = iota
	ReasonQuitButton
	ReasonIdleQuit
	ReasonDisconnected
	ReasonCancelled
)

func (r Reason) String() string {
	switch r {
	case ReasonQuitButton:
		return "quit button"
	case ReasonIdleQuit:
		return "idle timeout"
	case ReasonDisconnected:
		return "device disconnected"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Outcome describes how a run ended. Cause carries the read error for a
// disconnect.
type Outcome struct {
	Reason Reason
	Cause  error
}

// Source yields joystick events. ReadEvent returns joystick.ErrNoData
// when a non-blocking source has nothing queued; any other error ends
// the loop as a disconnect.
type Source interface {
	ReadEvent() (joystick.Event, error)
	AxisCount() int
}

// Observer watches the loop. Callbacks run on the loop goroutine, and
// OnEvent sees the axis table with the event already applied.
type Observer interface {
	OnEvent(ev joystick.Event, axes *joystick.AxisState)
	OnAction(action mapping.Action)
	OnState(state State)
}

// Options configures a Loop
type Options struct {
	Settings config.Settings
	Injector input.Injector
	// Prompter asks whether to quit after an idle timeout. A nil
	// Prompter disables the idle check.
	Prompter Prompter
	Clock    clock.Clock
	Observer Observer
}

// Loop is the event-to-action state machine. Run owns the axis state and
// the d-pad detectors; only the device read happens on another goroutine.
type Loop struct {
	src      Source
	settings config.Settings
	inj      input.Injector
	prompter Prompter
	clk      clock.Clock
	observer Observer

	state        State
	axes         *joystick.AxisState
	dpad         *mapping.DPad
	triggers     *mapping.Triggers
	lastActivity time.Time
	warnedIndex  bool
}

type readResult struct {
	ev  joystick.Event
	err error
}

// reader performs one ReadEvent per request on its own goroutine so a
// cancelled context can interrupt a read that is blocked in the kernel.
// The loop state never leaves the Run goroutine.
type reader struct {
	src  Source
	req  chan struct{}
	resp chan readResult
	done chan struct{}
}

func startReader(src Source) *reader {
	r := &reader{
		src:  src,
		req:  make(chan struct{}),
		resp: make(chan readResult, 1),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *reader) run() {
	for {
		select {
		case <-r.done:
			return
		case <-r.req:
		}
		ev, err := r.src.ReadEvent()
		r.resp <- readResult{ev: ev, err: err}
	}
}

// next returns the next read, or ctx.Err() once ctx is done
func (r *reader) next(ctx context.Context) (joystick.Event, error) {
	select {
	case r.req <- struct{}{}:
	case <-ctx.Done():
		return joystick.Event{}, ctx.Err()
	}
	select {
	case res := <-r.resp:
		return res.ev, res.err
	case <-ctx.Done():
		return joystick.Event{}, ctx.Err()
	}
}

func (r *reader) stop() {
	close(r.done)
}

// New builds a loop over src
func New(src Source, opts Options) *Loop {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Injector == nil {
		opts.Injector = input.Discard()
	}
	s := opts.Settings

	return &Loop{
		src:      src,
		settings: s,
		inj:      opts.Injector,
		prompter: opts.Prompter,
		clk:      opts.Clock,
		observer: opts.Observer,
		state:    StateRunning,
		axes:     joystick.NewAxisState(src.AxisCount()),
		dpad:     mapping.NewDPad(s.Layout, s.Deadzones.DPad),
		triggers: mapping.NewTriggers(s.Layout, s.Deadzones),
	}
}

// State returns the current lifecycle state
func (l *Loop) State() State {
	return l.state
}

// Axes exposes the live axis state
func (l *Loop) Axes() *joystick.AxisState {
	return l.axes
}

// LastActivity returns when input last had an effect
func (l *Loop) LastActivity() time.Time {
	return l.lastActivity
}

// Run reads and translates events until the quit button, a confirmed
// idle quit, a disconnect or ctx cancellation. Held arrow keys are
// released before it returns.
func (l *Loop) Run(ctx context.Context) (Outcome, error) {
	if l.state == StateTerminated {
		return Outcome{}, errors.New("loop already terminated")
	}

	l.touch()
	l.setState(StateRunning)

	rd := startReader(l.src)
	defer rd.stop()

	for {
		if ctx.Err() != nil {
			return l.terminate(Outcome{Reason: ReasonCancelled}), nil
		}

		ev, err := rd.next(ctx)
		if ctx.Err() != nil {
			return l.terminate(Outcome{Reason: ReasonCancelled}), nil
		}
		switch {
		case err == nil:
			if l.handleEvent(ev) {
				return l.terminate(Outcome{Reason: ReasonQuitButton}), nil
			}

		case errors.Is(err, joystick.ErrNoData):
			if l.idleExpired() {
				if l.confirmQuit(ctx) {
					return l.terminate(Outcome{Reason: ReasonIdleQuit}), nil
				}
				continue
			}
			if l.settings.Repeat {
				l.moveStick()
			}
			l.wait(ctx)

		default:
			logger.Info("Joystick disconnected", "err", err)
			return l.terminate(Outcome{Reason: ReasonDisconnected, Cause: err}), nil
		}
	}
}

// handleEvent applies one event and reports whether the loop should quit
func (l *Loop) handleEvent(ev joystick.Event) bool {
	if ev.Kind == joystick.KindAxis {
		l.axes.Set(int(ev.Index), int(ev.Value))
	}
	if l.observer != nil {
		l.observer.OnEvent(ev, l.axes)
	}

	switch ev.Kind {
	case joystick.KindAxis:
		l.handleAxis(ev)
	case joystick.KindButton:
		return l.handleButton(ev)
	default:
		logger.Debug("Ignoring event", "event", ev.String())
	}
	return false
}

func (l *Loop) handleAxis(ev joystick.Event) {
	index, value := int(ev.Index), int(ev.Value)

	// initial state only seeds the axis table
	if ev.Init {
		return
	}

	layout := l.settings.Layout
	switch {
	case layout.IsStickAxis(l.settings.Handedness, index):
		l.moveStick()
	case l.dpad.Owns(index):
		if action, ok := l.dpad.Update(index, value); ok {
			logger.Debug("D-pad", "axis", index, "action", action.String())
			l.apply(action)
		}
	case l.triggers.Owns(index):
		if _, ok := l.triggers.Update(index, value); ok {
			logger.Info("Unhandled trigger", "axis", index)
		}
	}
}

func (l *Loop) handleButton(ev joystick.Event) bool {
	if ev.Init || !ev.Pressed() {
		return false
	}

	// any press counts as activity, bound or not
	l.touch()

	action := mapping.Dispatch(l.settings.Layout, int(ev.Index), true)
	switch action.Kind {
	case mapping.ActionQuit:
		logger.Info("Quit button pressed")
		if l.observer != nil {
			l.observer.OnAction(action)
		}
		return true
	case mapping.ActionUnhandled:
		logger.Info("Unhandled button", "button", action.Index)
	default:
		logger.Debug("Button", "button", ev.Index, "action", action.String())
		l.apply(action)
	}
	return false
}

// moveStick nudges the pointer from the current stick deflection
func (l *Loop) moveStick() {
	hAxis, vAxis := l.settings.Layout.Stick(l.settings.Handedness)
	action, err := mapping.HandleStick(l.axes, hAxis, vAxis,
		l.settings.Deadzones.Stick(l.settings.Handedness), l.settings.Scale)
	if err != nil {
		if !l.warnedIndex {
			logger.Warn("Tried to move an axis the device does not have", "err", err)
			l.warnedIndex = true
		}
		return
	}
	if !action.IsNone() {
		l.apply(action)
	}
}

func (l *Loop) apply(action mapping.Action) {
	if l.observer != nil {
		l.observer.OnAction(action)
	}
	// injector failures are not surfaced to the loop
	if err := input.Apply(l.inj, action); err != nil {
		logger.Debug("Injector error", "action", action.String(), "err", err)
	}
	l.touch()
}

func (l *Loop) touch() {
	l.lastActivity = l.clk.Now()
}

func (l *Loop) idleExpired() bool {
	timeout := l.settings.IdleTimeout
	if l.prompter == nil || timeout <= 0 {
		return false
	}
	return l.clk.Since(l.lastActivity) > timeout
}

// confirmQuit runs the idle checkpoint. Anything but an explicit yes
// resumes the loop with a fresh idle clock.
func (l *Loop) confirmQuit(ctx context.Context) bool {
	idle := l.clk.Since(l.lastActivity)
	l.setState(StateAwaitingQuitConfirmation)

	quit, err := l.prompter.ConfirmQuit(ctx, idle)
	if err != nil {
		logger.Warn("Quit prompt failed", "err", err)
		quit = false
	}
	if quit {
		logger.Info("Closing after idle timeout", "idle", idle.Round(time.Second))
		return true
	}

	l.touch()
	l.setState(StateRunning)
	return false
}

func (l *Loop) wait(ctx context.Context) {
	interval := l.settings.PollInterval
	if interval <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-l.clk.After(interval):
	}
}

func (l *Loop) terminate(out Outcome) Outcome {
	for _, action := range l.dpad.Release() {
		if l.observer != nil {
			l.observer.OnAction(action)
		}
		if err := input.Apply(l.inj, action); err != nil {
			logger.Debug("Injector error on release", "action", action.String(), "err", err)
		}
	}
	l.setState(StateTerminated)
	logger.Debug("Loop terminated", "reason", out.Reason.String())
	return out
}

func (l *Loop) setState(s State) {
	if l.state == s {
		return
	}
	l.state = s
	if l.observer != nil {
		l.observer.OnState(s)
	}
}
