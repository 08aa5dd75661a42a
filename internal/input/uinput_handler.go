package input

import (
	"fmt"
	"sync"

	"github.com/ThomasT75/uinput"
	"github.com/bnema/js2mouse/internal/mapping"
)

const (
	defaultUinputPath = "/dev/uinput"
	defaultDeviceName = "js2mouse"

	// X11 keycodes are evdev codes offset by 8
	x11KeycodeOffset = 8
)

// pointer is the subset of uinput.Mouse the injector drives
type pointer interface {
	Move(x, y int32) error
	LeftClick() error
	RightClick() error
	MiddleClick() error
	Wheel(horizontal bool, delta int32) error
	Close() error
}

// keyboard is the subset of uinput.Keyboard the injector drives
type keyboard interface {
	KeyDown(key int) error
	KeyUp(key int) error
	Close() error
}

// uInputInjector implements Injector with virtual uinput devices
type uInputInjector struct {
	mouse    pointer
	keyboard keyboard
	mu       sync.Mutex
	closed   bool
}

// newUInputInjector creates a virtual mouse and keyboard
func newUInputInjector(path, name string) (*uInputInjector, error) {
	if path == "" {
		path = defaultUinputPath
	}
	if name == "" {
		name = defaultDeviceName
	}

	mouse, err := uinput.CreateMouse(path, []byte(name+" mouse"))
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual mouse: %w", err)
	}

	kbd, err := uinput.CreateKeyboard(path, []byte(name+" keyboard"))
	if err != nil {
		_ = mouse.Close()
		return nil, fmt.Errorf("failed to create virtual keyboard: %w", err)
	}

	return &uInputInjector{
		mouse:    mouse,
		keyboard: kbd,
	}, nil
}

func (h *uInputInjector) Click(button mapping.MouseButton) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrInjectorClosed
	}

	switch button {
	case mapping.ButtonLeft:
		return h.mouse.LeftClick()
	case mapping.ButtonRight:
		return h.mouse.RightClick()
	case mapping.ButtonMiddle:
		return h.mouse.MiddleClick()
	case mapping.ButtonWheelUp:
		return h.mouse.Wheel(false, 1)
	case mapping.ButtonWheelDown:
		return h.mouse.Wheel(false, -1)
	default:
		return fmt.Errorf("%w: button %d", ErrUnsupported, int(button))
	}
}

func (h *uInputInjector) MoveRelative(dx, dy int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrInjectorClosed
	}
	if dx == 0 && dy == 0 {
		return nil
	}
	return h.mouse.Move(int32(dx), int32(dy))
}

func (h *uInputInjector) KeyDown(code int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrInjectorClosed
	}
	key, err := evdevKey(code)
	if err != nil {
		return err
	}
	return h.keyboard.KeyDown(key)
}

func (h *uInputInjector) KeyUp(codes ...int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrInjectorClosed
	}
	for _, code := range codes {
		key, err := evdevKey(code)
		if err != nil {
			return err
		}
		if err := h.keyboard.KeyUp(key); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the virtual devices
func (h *uInputInjector) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	h.closed = true

	var err error
	if h.mouse != nil {
		err = h.mouse.Close()
	}
	if h.keyboard != nil {
		if e := h.keyboard.Close(); e != nil && err == nil {
			err = e
		}
	}

	return err
}

func evdevKey(x11 int) (int, error) {
	if x11 <= x11KeycodeOffset {
		return 0, fmt.Errorf("%w: keycode %d", ErrUnsupported, x11)
	}
	return x11 - x11KeycodeOffset, nil
}
