// Package input injects synthetic pointer and keyboard input on the host
package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/js2mouse/internal/logger"
	"github.com/bnema/js2mouse/internal/mapping"
)

var (
	// ErrInjectorClosed is returned when operating on a closed injector
	ErrInjectorClosed = errors.New("injector is closed")
	// ErrUnknownBackend is returned for an unrecognised backend name
	ErrUnknownBackend = errors.New("unknown injector backend")
	// ErrUnsupported is returned for buttons or keys a backend cannot express
	ErrUnsupported = errors.New("unsupported input")
)

// Backend names accepted by NewInjector
const (
	BackendAuto    = "auto"
	BackendXdotool = "xdotool"
	BackendUinput  = "uinput"
	BackendDryRun  = "dry-run"
)

// Injector performs synthetic input on the host. Buttons use X11
// numbering and key codes are X11 keycodes.
type Injector interface {
	Click(button mapping.MouseButton) error
	MoveRelative(dx, dy int) error
	KeyDown(code int) error
	KeyUp(codes ...int) error
	Close() error
}

// Options selects and configures an injector backend
type Options struct {
	Backend     string
	XdotoolPath string
	UinputPath  string
	DeviceName  string
}

// NewInjector creates the injector named by opts.Backend. The auto
// backend tries uinput first and falls back to xdotool.
func NewInjector(opts Options) (Injector, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendXdotool:
		return newToolInjector(opts.XdotoolPath)
	case BackendUinput:
		return newUInputInjector(opts.UinputPath, opts.DeviceName)
	case BackendDryRun:
		return NewDryRun(), nil
	case "", BackendAuto:
		inj, err := newUInputInjector(opts.UinputPath, opts.DeviceName)
		if err == nil {
			logger.Info("Using uinput injector")
			return inj, nil
		}
		tool, toolErr := newToolInjector(opts.XdotoolPath)
		if toolErr == nil {
			logger.Info("Using xdotool injector", "uinput_error", err)
			return tool, nil
		}
		return nil, fmt.Errorf("failed to create injector: uinput: %v, xdotool: %v", err, toolErr)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// BackendName reports which backend inj is, for display
func BackendName(inj Injector) string {
	switch inj.(type) {
	case *uInputInjector:
		return BackendUinput
	case *toolInjector:
		return BackendXdotool
	case *DryRun:
		return BackendDryRun
	default:
		return fmt.Sprintf("%T", inj)
	}
}

// Apply performs an action on inj. Actions that do not inject anything
// (none, quit, unhandled) are ignored. Every step of a sequence is
// attempted and the errors are joined.
func Apply(inj Injector, action mapping.Action) error {
	switch action.Kind {
	case mapping.ActionMove:
		return inj.MoveRelative(action.DX, action.DY)
	case mapping.ActionClick, mapping.ActionScroll:
		return inj.Click(action.Button)
	case mapping.ActionKeyDown:
		var errs []error
		for _, code := range action.Keys {
			errs = append(errs, inj.KeyDown(code))
		}
		return errors.Join(errs...)
	case mapping.ActionKeyUp:
		if len(action.Keys) == 0 {
			return nil
		}
		return inj.KeyUp(action.Keys...)
	case mapping.ActionSequence:
		var errs []error
		for _, step := range action.Steps {
			errs = append(errs, Apply(inj, step))
		}
		return errors.Join(errs...)
	default:
		return nil
	}
}
