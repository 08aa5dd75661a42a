package input

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/bnema/js2mouse/internal/mapping"
)

// runFunc runs an external command to completion
type runFunc func(name string, args ...string) error

// toolInjector implements Injector by invoking xdotool once per action.
// Each invocation finishes before the next starts, so key presses and
// releases reach the X server in order.
type toolInjector struct {
	tool   string
	run    runFunc
	mu     sync.Mutex
	closed bool
}

// newToolInjector resolves the xdotool binary
func newToolInjector(path string) (*toolInjector, error) {
	if path == "" {
		path = BackendXdotool
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("xdotool not found: %w", err)
	}

	return &toolInjector{
		tool: resolved,
		run:  runTool,
	}, nil
}

func (h *toolInjector) Click(button mapping.MouseButton) error {
	return h.exec("click", strconv.Itoa(int(button)))
}

func (h *toolInjector) MoveRelative(dx, dy int) error {
	// "--" keeps negative offsets from being read as flags
	return h.exec("mousemove_relative", "--", strconv.Itoa(dx), strconv.Itoa(dy))
}

func (h *toolInjector) KeyDown(code int) error {
	return h.exec("keydown", strconv.Itoa(code))
}

func (h *toolInjector) KeyUp(codes ...int) error {
	if len(codes) == 0 {
		return nil
	}
	args := make([]string, 0, 2*len(codes))
	for _, code := range codes {
		args = append(args, "keyup", strconv.Itoa(code))
	}
	return h.exec(args...)
}

func (h *toolInjector) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	return nil
}

func (h *toolInjector) exec(args ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrInjectorClosed
	}
	return h.run(h.tool, args...)
}

func runTool(name string, args ...string) error {
	// #nosec G204 - name is resolved by exec.LookPath and args are numeric
	cmd := exec.Command(name, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", cmd.String(), err)
	}
	return nil
}
