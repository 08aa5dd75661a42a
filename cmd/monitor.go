package cmd

import (
	"context"
	"os"

	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/engine"
	"github.com/bnema/js2mouse/internal/input"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/logger"
	"github.com/bnema/js2mouse/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor [deviceName] [L]",
	Short: "Show live joystick state and the actions it would produce",
	Long: `Open the joystick and run the translator without injecting anything.
Axes, pressed buttons and every action are shown in a live view. There is
no idle prompt; press q to leave.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(config.Get(), args)
	if err != nil {
		return err
	}
	// a blocking read could not be interrupted when the view closes
	settings.Blocking = false

	dev, err := joystick.Open(settings.DevicePath, settings.Blocking)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	model := ui.NewMonitorModel(dev.Path(), dev.Name(), dev.AxisCount())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	// log lines go into the view instead of tearing the alt screen
	logger.SetOutput(ui.NewLogWriter(p))
	defer logger.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loop := engine.New(dev, engine.Options{
		Settings: settings,
		Injector: input.Discard(),
		Observer: ui.NewProgramObserver(p),
	})

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		out, err := loop.Run(ctx)
		p.Send(ui.DoneMsg{Outcome: out, Err: err})
	}()

	runner := ui.NewProgramRunner(p)
	_, runErr := runner.Run(ctx)

	// stop the loop if the user quit the view first
	cancel()
	<-loopDone

	return runErr
}
