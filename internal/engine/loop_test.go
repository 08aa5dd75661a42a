package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoData = joystick.ErrNoData

type step struct {
	ev  joystick.Event
	err error
}

func axis(index uint8, value int16) step {
	return step{ev: joystick.Event{Kind: joystick.KindAxis, Index: index, Value: value}}
}

func press(index uint8) step {
	return step{ev: joystick.Event{Kind: joystick.KindButton, Index: index, Value: 1}}
}

func release(index uint8) step {
	return step{ev: joystick.Event{Kind: joystick.KindButton, Index: index, Value: 0}}
}

func idle() step { return step{err: errNoData} }

// fakeSource replays scripted reads and reports a disconnect when the
// script runs out. Every empty read advances the mock clock by tick.
type fakeSource struct {
	steps []step
	axes  int
	clk   *clock.Mock
	tick  time.Duration
}

func (f *fakeSource) ReadEvent() (joystick.Event, error) {
	if len(f.steps) == 0 {
		return joystick.Event{}, joystick.ErrDisconnected
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	if errors.Is(s.err, joystick.ErrNoData) && f.clk != nil {
		f.clk.Add(f.tick)
	}
	return s.ev, s.err
}

func (f *fakeSource) AxisCount() int { return f.axes }

// recordingInjector stores every call as the equivalent action string
type recordingInjector struct {
	calls []string
}

func (r *recordingInjector) Click(b mapping.MouseButton) error {
	r.calls = append(r.calls, mapping.Click(b).String())
	return nil
}

func (r *recordingInjector) MoveRelative(dx, dy int) error {
	r.calls = append(r.calls, mapping.Move(dx, dy).String())
	return nil
}

func (r *recordingInjector) KeyDown(code int) error {
	r.calls = append(r.calls, mapping.KeyDown(code).String())
	return nil
}

func (r *recordingInjector) KeyUp(codes ...int) error {
	r.calls = append(r.calls, mapping.KeyUp(codes...).String())
	return nil
}

func (r *recordingInjector) Close() error { return nil }

type scriptedPrompter struct {
	answers []bool
	calls   []time.Duration
	err     error
}

func (p *scriptedPrompter) ConfirmQuit(_ context.Context, idle time.Duration) (bool, error) {
	p.calls = append(p.calls, idle)
	if p.err != nil {
		return false, p.err
	}
	if len(p.answers) == 0 {
		return false, nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

type stateRecorder struct {
	states    []State
	events    int
	snapshots [][]int
	actions   []mapping.Action
}

func (s *stateRecorder) OnEvent(_ joystick.Event, axes *joystick.AxisState) {
	s.events++
	s.snapshots = append(s.snapshots, axes.Values())
}

func (s *stateRecorder) OnAction(a mapping.Action) { s.actions = append(s.actions, a) }
func (s *stateRecorder) OnState(st State)          { s.states = append(s.states, st) }

// blockedSource blocks every read until release is closed, like a
// blocking-mode device with no input
type blockedSource struct {
	release chan struct{}
}

func (b *blockedSource) ReadEvent() (joystick.Event, error) {
	<-b.release
	return joystick.Event{}, joystick.ErrDisconnected
}

func (b *blockedSource) AxisCount() int { return 8 }

func testSettings(t *testing.T) config.Settings {
	t.Helper()
	c := config.DefaultConfig
	c.Device.PollIntervalMs = 0
	c.Stick.Repeat = false
	s, err := c.Settings()
	require.NoError(t, err)
	return s
}

type harness struct {
	loop     *Loop
	src      *fakeSource
	inj      *recordingInjector
	clk      *clock.Mock
	observer *stateRecorder
}

func newHarness(t *testing.T, s config.Settings, p Prompter, steps ...step) *harness {
	t.Helper()
	clk := clock.NewMock()
	src := &fakeSource{steps: steps, axes: 8, clk: clk, tick: time.Second}
	inj := &recordingInjector{}
	obs := &stateRecorder{}
	loop := New(src, Options{
		Settings: s,
		Injector: inj,
		Prompter: p,
		Clock:    clk,
		Observer: obs,
	})
	return &harness{loop: loop, src: src, inj: inj, clk: clk, observer: obs}
}

func TestLoopQuitButton(t *testing.T) {
	s := testSettings(t)
	h := newHarness(t, s, nil, press(uint8(s.Layout.Buttons.Home)), press(0))

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonQuitButton, out.Reason)
	assert.Equal(t, StateTerminated, h.loop.State())
	assert.Len(t, h.src.steps, 1, "nothing read after quit")
	assert.Empty(t, h.inj.calls)

	_, err = h.loop.Run(context.Background())
	assert.Error(t, err, "a terminated loop cannot be rerun")
}

func TestLoopDisconnect(t *testing.T) {
	h := newHarness(t, testSettings(t), nil, step{err: joystick.ErrDisconnected})

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonDisconnected, out.Reason)
	assert.ErrorIs(t, out.Cause, joystick.ErrDisconnected)
	assert.Equal(t, []State{StateTerminated}, h.observer.states)
}

func TestLoopCancelled(t *testing.T) {
	h := newHarness(t, testSettings(t), nil, press(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := h.loop.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonCancelled, out.Reason)
	assert.Empty(t, h.inj.calls)
}

func TestLoopButtons(t *testing.T) {
	s := testSettings(t)
	b := s.Layout.Buttons
	h := newHarness(t, s, nil,
		press(uint8(b.A)), release(uint8(b.A)),
		press(uint8(b.B)),
		press(uint8(b.X)),
		press(uint8(b.LB)),
		press(uint8(b.RB)),
		press(uint8(b.Y)),
		step{ev: joystick.Event{Kind: joystick.KindButton, Index: uint8(b.A), Value: 1, Init: true}},
	)

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonDisconnected, out.Reason)
	assert.Equal(t, []string{
		"click left",
		"click right",
		"click middle",
		"scroll wheel-up",
		"scroll wheel-down",
	}, actionStrings(h.observer.actions))
	assert.Equal(t, []string{
		"click left", "click right", "click middle", "click wheel-up", "click wheel-down",
	}, h.inj.calls)
}

func TestLoopStickRightHanded(t *testing.T) {
	s := testSettings(t)
	ax := s.Layout.Axes
	h := newHarness(t, s, nil,
		axis(uint8(ax.RightStickH), 15000),
		axis(uint8(ax.RightStickV), -25000),
		axis(uint8(ax.RightStickH), 500),
		axis(uint8(ax.RightStickV), 0),
		axis(uint8(ax.LeftStickH), 32767),
	)

	_, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"move +1 +0", "move +1 -2", "move +0 -2"}, h.inj.calls)
}

func TestLoopStickLeftHanded(t *testing.T) {
	s := testSettings(t)
	s.Handedness = mapping.LeftHanded
	ax := s.Layout.Axes
	h := newHarness(t, s, nil,
		axis(uint8(ax.RightStickH), 32767),
		axis(uint8(ax.LeftStickV), 20000),
	)

	_, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"move +0 +2"}, h.inj.calls)
}

func TestLoopStickRepeatWhileHeld(t *testing.T) {
	s := testSettings(t)
	s.Repeat = true
	ax := s.Layout.Axes
	h := newHarness(t, s, nil,
		axis(uint8(ax.RightStickH), 20000),
		idle(), idle(),
		axis(uint8(ax.RightStickH), 0),
		idle(),
	)

	_, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"move +2 +0", "move +2 +0", "move +2 +0"}, h.inj.calls)
}

func TestLoopInitEventsOnlySeedState(t *testing.T) {
	s := testSettings(t)
	ax := s.Layout.Axes
	h := newHarness(t, s, nil,
		step{ev: joystick.Event{Kind: joystick.KindAxis, Index: uint8(ax.RightStickH), Value: 20000, Init: true}},
		step{ev: joystick.Event{Kind: joystick.KindAxis, Index: uint8(ax.DPadH), Value: 32767, Init: true}},
	)

	_, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.inj.calls)

	v, err := h.loop.Axes().Get(ax.RightStickH)
	require.NoError(t, err)
	assert.Equal(t, 20000, v)
}

func TestLoopDPadEdges(t *testing.T) {
	s := testSettings(t)
	dpadH := uint8(s.Layout.Axes.DPadH)
	h := newHarness(t, s, nil,
		axis(dpadH, 0),
		axis(dpadH, 2000),
		axis(dpadH, 2000),
		axis(dpadH, 0),
		axis(dpadH, -2000),
	)

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonDisconnected, out.Reason)
	assert.Equal(t, []string{
		"keyup 114 113",
		"keydown 114",
		"keyup 114 113",
		"keydown 113",
		"keyup 113", // released on exit
	}, h.inj.calls)
}

func TestLoopDPadVertical(t *testing.T) {
	s := testSettings(t)
	dpadV := uint8(s.Layout.Axes.DPadV)
	h := newHarness(t, s, nil,
		axis(dpadV, -32767),
		axis(dpadV, 32767),
		press(uint8(s.Layout.Buttons.Home)),
	)

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonQuitButton, out.Reason)
	assert.Equal(t, []string{
		"keydown 111",
		"keyup 111",
		"keydown 116",
		"keyup 116",
	}, h.inj.calls)
}

func TestLoopIndexErrorIsNotFatal(t *testing.T) {
	s := testSettings(t)
	clk := clock.NewMock()
	src := &fakeSource{
		axes: 4, // stick V axis 4 does not exist
		steps: []step{
			axis(uint8(s.Layout.Axes.RightStickH), 20000),
			axis(uint8(s.Layout.Axes.RightStickH), 30000),
			press(uint8(s.Layout.Buttons.A)),
			press(uint8(s.Layout.Buttons.Home)),
		},
	}
	inj := &recordingInjector{}
	loop := New(src, Options{Settings: s, Injector: inj, Clock: clk})

	out, err := loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonQuitButton, out.Reason)
	assert.Equal(t, []string{"click left"}, inj.calls)
}

func TestLoopTriggersAreIgnored(t *testing.T) {
	s := testSettings(t)
	h := newHarness(t, s, nil,
		axis(uint8(s.Layout.Axes.RightTrigger), 32767),
		axis(uint8(s.Layout.Axes.LeftTrigger), 32767),
	)

	_, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.inj.calls)
	assert.Equal(t, 2, h.observer.events)
}

func TestLoopIdleTimeoutRoundTrip(t *testing.T) {
	s := testSettings(t)
	s.IdleTimeout = 5 * time.Second
	p := &scriptedPrompter{answers: []bool{false, true}}
	h := newHarness(t, s, p, idle(), idle(), idle(), idle(), idle(), idle())
	h.src.tick = 3 * time.Second
	start := h.clk.Now()

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonIdleQuit, out.Reason)

	// prompted at 6s, answered no, clock reset, prompted again 6s later
	assert.Equal(t, []time.Duration{6 * time.Second, 6 * time.Second}, p.calls)
	assert.Equal(t, start.Add(6*time.Second), h.loop.LastActivity())
	assert.Len(t, h.src.steps, 2)
	assert.Equal(t, []State{
		StateAwaitingQuitConfirmation,
		StateRunning,
		StateAwaitingQuitConfirmation,
		StateTerminated,
	}, h.observer.states)
}

func TestLoopIdleNoResetsClock(t *testing.T) {
	s := testSettings(t)
	s.IdleTimeout = 5 * time.Second
	p := &scriptedPrompter{answers: []bool{false}}
	h := newHarness(t, s, p, idle())
	h.src.tick = 10 * time.Second

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonDisconnected, out.Reason)
	require.Len(t, p.calls, 1)
	assert.Equal(t, h.clk.Now(), h.loop.LastActivity())
}

func TestLoopPromptErrorResumes(t *testing.T) {
	s := testSettings(t)
	s.IdleTimeout = time.Second
	p := &scriptedPrompter{err: errors.New("no tty")}
	h := newHarness(t, s, p, idle(), idle())
	h.src.tick = 2 * time.Second

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonDisconnected, out.Reason)
	assert.Len(t, p.calls, 2)
}

func TestLoopActivityDefersIdlePrompt(t *testing.T) {
	s := testSettings(t)
	s.IdleTimeout = 5 * time.Second
	p := &scriptedPrompter{answers: []bool{true}}
	h := newHarness(t, s, p,
		idle(), idle(), // 4s
		press(uint8(s.Layout.Buttons.Y)), // unbound, still activity
		idle(), idle(), // 4s since press
		idle(), // 6s since press
	)
	h.src.tick = 2 * time.Second

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonIdleQuit, out.Reason)
	assert.Equal(t, []time.Duration{6 * time.Second}, p.calls)
}

func TestLoopWithoutPrompterNeverTimesOut(t *testing.T) {
	s := testSettings(t)
	s.IdleTimeout = time.Second
	h := newHarness(t, s, nil, idle(), idle(), idle())
	h.src.tick = time.Hour

	out, err := h.loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonDisconnected, out.Reason)
}

func TestLoopPollWaitHonoursContext(t *testing.T) {
	s := testSettings(t)
	s.PollInterval = time.Hour
	src := &fakeSource{axes: 8, steps: []step{idle()}}

	ctx, cancel := context.WithCancel(context.Background())
	loop := New(src, Options{Settings: s, Clock: clock.NewMock()})

	done := make(chan Outcome, 1)
	go func() {
		out, _ := loop.Run(ctx)
		done <- out
	}()

	cancel()
	select {
	case out := <-done:
		assert.Equal(t, ReasonCancelled, out.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestLoopCancelInterruptsBlockedRead(t *testing.T) {
	src := &blockedSource{release: make(chan struct{})}
	defer close(src.release)

	loop := New(src, Options{Settings: testSettings(t), Clock: clock.NewMock()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Outcome, 1)
	go func() {
		out, _ := loop.Run(ctx)
		done <- out
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case out := <-done:
		assert.Equal(t, ReasonCancelled, out.Reason)
		assert.Equal(t, StateTerminated, loop.State())
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel while a read was blocked")
	}
}

func TestLoopObserverSeesUpdatedAxes(t *testing.T) {
	s := testSettings(t)
	hAxis, _ := s.Layout.Stick(s.Handedness)
	h := newHarness(t, s, nil, axis(uint8(hAxis), 20000), axis(uint8(hAxis), 0))

	_, err := h.loop.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, h.observer.snapshots, 2)
	assert.Equal(t, 20000, h.observer.snapshots[0][hAxis])
	assert.Equal(t, 0, h.observer.snapshots[1][hAxis], "stick at rest shows as rest")
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "awaiting-quit-confirmation", StateAwaitingQuitConfirmation.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "device disconnected", ReasonDisconnected.String())
}

func actionStrings(actions []mapping.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.String()
	}
	return out
}
