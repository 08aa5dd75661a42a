// Package setup walks the user through picking a joystick and an injector
// and checks that the host can actually run them
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/input"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/logger"
	"github.com/charmbracelet/huh"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"
)

// ErrNoDevices is returned when there is nothing to choose from
var ErrNoDevices = errors.New("no joystick devices found")

// Choice is what the interactive setup collects
type Choice struct {
	Device     string
	Handedness string
	Backend    string
}

// DeviceSetup handles interactive device selection and configuration
type DeviceSetup struct {
	dir  string
	list func(dir string) ([]joystick.Info, error)
	run  func(ctx context.Context, form *huh.Form) error
}

// NewDeviceSetup creates a setup that looks for devices in dir
func NewDeviceSetup(dir string) *DeviceSetup {
	return &DeviceSetup{
		dir:  dir,
		list: joystick.List,
		run: func(ctx context.Context, form *huh.Form) error {
			return form.RunWithContext(ctx)
		},
	}
}

// RunInteractiveSetup asks for a device, a stick and a backend, then
// saves them to the config file
func (ds *DeviceSetup) RunInteractiveSetup(ctx context.Context) (Choice, error) {
	devices, err := ds.list(ds.dir)
	if err != nil {
		return Choice{}, fmt.Errorf("failed to list devices: %w", err)
	}
	if len(devices) == 0 {
		return Choice{}, fmt.Errorf("%w in %s", ErrNoDevices, ds.dir)
	}

	cfg := config.Get()
	choice := Choice{
		Device:     devices[0].Name,
		Handedness: cfg.Stick.Handedness,
		Backend:    cfg.Injector.Backend,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Joystick").
				Description("Device that drives the pointer").
				Options(DeviceOptions(devices)...).
				Value(&choice.Device),
			huh.NewSelect[string]().
				Title("Pointer stick").
				Options(
					huh.NewOption("Right stick", "right"),
					huh.NewOption("Left stick", "left"),
				).
				Value(&choice.Handedness),
			huh.NewSelect[string]().
				Title("Input backend").
				Options(
					huh.NewOption("Auto (uinput, then xdotool)", input.BackendAuto),
					huh.NewOption("uinput", input.BackendUinput),
					huh.NewOption("xdotool", input.BackendXdotool),
					huh.NewOption("Dry run (log only)", input.BackendDryRun),
				).
				Value(&choice.Backend),
		),
	)

	if err := ds.run(ctx, form); err != nil {
		return Choice{}, err
	}

	if err := Apply(choice); err != nil {
		return Choice{}, err
	}
	return choice, nil
}

// DeviceOptions turns discovered devices into select options
func DeviceOptions(devices []joystick.Info) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(devices))
	for _, d := range devices {
		label := d.Name
		if d.Description != "" {
			label = fmt.Sprintf("%s - %s", d.Name, d.Description)
		}
		opts = append(opts, huh.NewOption(label, d.Name))
	}
	return opts
}

// Apply stores a choice in the active config and writes it to disk
func Apply(c Choice) error {
	viper.Set("device.name", c.Device)
	viper.Set("stick.handedness", c.Handedness)
	viper.Set("injector.backend", c.Backend)

	if err := config.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	updated := *config.Get()
	updated.Device.Name = c.Device
	updated.Stick.Handedness = c.Handedness
	updated.Injector.Backend = c.Backend
	config.Set(&updated)

	logger.Info("Configuration saved", "path", config.GetConfigPath(), "device", c.Device)
	return nil
}

// Check kinds, in report order
const (
	CheckJoystick = "joystick"
	CheckUinput   = "uinput"
	CheckXdotool  = "xdotool"
	CheckDisplay  = "display"
)

// CheckResult is one line of the environment report
type CheckResult struct {
	Kind   string
	Name   string
	OK     bool
	Detail string
}

// Environment lists what the checks look at
type Environment struct {
	DevicePath  string
	UinputPath  string
	XdotoolPath string

	lookPath func(file string) (string, error)
}

// Check verifies the joystick can be read and at least one injector is
// usable
func Check(env Environment) []CheckResult {
	lookPath := env.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var results []CheckResult

	if f, err := os.Open(env.DevicePath); err != nil {
		detail := err.Error()
		if errors.Is(err, os.ErrPermission) {
			detail = "permission denied, add your user to the 'input' group"
		}
		results = append(results, CheckResult{Kind: CheckJoystick, Name: "joystick " + env.DevicePath, Detail: detail})
	} else {
		_ = f.Close()
		results = append(results, CheckResult{Kind: CheckJoystick, Name: "joystick " + env.DevicePath, OK: true, Detail: "readable"})
	}

	if err := unix.Access(env.UinputPath, unix.W_OK); err != nil {
		results = append(results, CheckResult{
			Kind:   CheckUinput,
			Name:   "uinput " + env.UinputPath,
			Detail: fmt.Sprintf("not writable (%v), load the uinput module and grant your user access", err),
		})
	} else {
		results = append(results, CheckResult{Kind: CheckUinput, Name: "uinput " + env.UinputPath, OK: true, Detail: "writable"})
	}

	xdotool := env.XdotoolPath
	if xdotool == "" {
		xdotool = input.BackendXdotool
	}
	if path, err := lookPath(xdotool); err != nil {
		results = append(results, CheckResult{Kind: CheckXdotool, Name: "xdotool", Detail: "not found in PATH"})
	} else {
		results = append(results, CheckResult{Kind: CheckXdotool, Name: "xdotool", OK: true, Detail: path})
	}

	if os.Getenv("DISPLAY") == "" {
		results = append(results, CheckResult{Kind: CheckDisplay, Name: "X display", Detail: "DISPLAY is not set, xdotool needs an X11 session"})
	} else {
		results = append(results, CheckResult{Kind: CheckDisplay, Name: "X display", OK: true, Detail: os.Getenv("DISPLAY")})
	}

	return results
}

// Usable reports whether the joystick is readable and some backend works
func Usable(results []CheckResult) bool {
	ok := make(map[string]bool, len(results))
	for _, r := range results {
		ok[r.Kind] = r.OK
	}
	return ok[CheckJoystick] && (ok[CheckUinput] || (ok[CheckXdotool] && ok[CheckDisplay]))
}
