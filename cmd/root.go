package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/engine"
	"github.com/bnema/js2mouse/internal/input"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/logger"
	"github.com/bnema/js2mouse/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "js2mouse [deviceName] [L]",
		Short: "js2mouse - drive the mouse and arrow keys with a gamepad",
		Long: `js2mouse reads a Linux joystick device and turns it into pointer motion,
clicks, wheel steps and arrow key presses.

With no arguments it reads /dev/input/js0 and moves the pointer with the
right stick. Pass a device name to use another joystick, and L (alone or
after the device name) to move the pointer with the left stick instead.`,
		Example: `  js2mouse
  js2mouse L
  js2mouse js1
  js2mouse js1 L`,
		Args:              cobra.MaximumNArgs(2),
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
		RunE:              runTranslate,
	}
)

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"log-level":  "logging.log_level",
	"device-dir": "device.dir",
	"blocking":   "device.blocking",
	"injector":   "injector.backend",
	"timeout":    "session.idle_timeout_seconds",
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to a process exit status.
// A device that cannot be opened exits with -1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, joystick.ErrOpen):
		return -1
	default:
		return 1
	}
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to js2mouse.toml")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("device-dir", joystick.DefaultDir, "Directory holding js device nodes")
	pf.Bool("blocking", false, "Block on device reads (disables the idle prompt)")

	f := rootCmd.Flags()
	f.StringP("injector", "i", input.BackendAuto, "Input backend: auto, xdotool, uinput or dry-run")
	f.IntP("timeout", "t", config.DefaultConfig.Session.IdleTimeoutSeconds, "Seconds without input before asking to quit (0 disables)")
}

// loadConfig reads the config file with command line flags layered on top
func loadConfig(cmd *cobra.Command, args []string) error {
	config.SetConfigPath(configPath)

	for name, key := range flagKeys {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := viper.BindPFlag(key, fl); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := config.Init(); err != nil {
		return err
	}
	logger.SetLevel(config.Get().Logging.LogLevel)
	return nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	settings, err := resolveSettings(cfg, args)
	if err != nil {
		return err
	}

	dev, err := joystick.Open(settings.DevicePath, settings.Blocking)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()
	logger.Info("Joystick opened",
		"device", dev.Path(),
		"name", dev.Name(),
		"axes", dev.AxisCount(),
		"buttons", dev.ButtonCount(),
		"blocking", dev.Blocking())

	inj, err := input.NewInjector(input.Options{
		Backend:     cfg.Injector.Backend,
		XdotoolPath: cfg.Injector.XdotoolPath,
		UinputPath:  cfg.Injector.UinputPath,
	})
	if err != nil {
		return err
	}
	defer func() { _ = inj.Close() }()

	fmt.Fprintln(cmd.OutOrStdout(), ui.Banner(ui.BannerInfo{
		DevicePath: dev.Path(),
		DeviceName: dev.Name(),
		Axes:       dev.AxisCount(),
		Buttons:    dev.ButtonCount(),
		Backend:    input.BackendName(inj),
		Settings:   settings,
	}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var prompter engine.Prompter
	if settings.IdleTimeout > 0 {
		prompter = engine.NewPrompter(os.Stdin, cmd.OutOrStdout())
	}

	loop := engine.New(dev, engine.Options{
		Settings: settings,
		Injector: inj,
		Prompter: prompter,
	})
	out, err := loop.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("Exiting", "reason", out.Reason.String())
	return nil
}
