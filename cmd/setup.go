package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/setup"
	"github.com/bnema/js2mouse/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// errNotUsable is returned by check when the joystick or every backend fails
var errNotUsable = errors.New("js2mouse cannot run with this setup")

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Pick a joystick, pointer stick and backend interactively",
	Long: `Setup lists the joysticks found in the device directory, asks which one
should drive the pointer, which stick moves it and how input is injected,
then writes the answers to the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return errors.New("setup needs an interactive terminal")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatAppHeader("SETUP", config.Get().Device.Dir))

		ds := setup.NewDeviceSetup(config.Get().Device.Dir)
		choice, err := ds.RunInteractiveSetup(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.FormatResult(true, fmt.Sprintf("Using %s (%s stick, %s backend)", choice.Device, choice.Handedness, choice.Backend)))
		fmt.Fprintln(out, ui.SubtleStyle.Render("Saved to "+config.GetConfigPath()))
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [deviceName]",
	Short: "Check device permissions and injector backends",
	Long: `Check verifies that the joystick can be opened and that uinput or
xdotool is available to inject input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		settings, err := resolveSettings(cfg, args)
		if err != nil {
			return err
		}

		results := setup.Check(setup.Environment{
			DevicePath:  settings.DevicePath,
			UinputPath:  cfg.Injector.UinputPath,
			XdotoolPath: cfg.Injector.XdotoolPath,
		})

		usable := setup.Usable(results)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatAppHeader("CHECK", settings.DevicePath))
		for _, r := range results {
			line := fmt.Sprintf("%-24s %s", r.Name, ui.SubtleStyle.Render(r.Detail))
			// a failed fallback is only a warning when another backend works
			if !r.OK && usable {
				fmt.Fprintln(out, ui.FormatWarning(line))
				continue
			}
			fmt.Fprintln(out, ui.FormatResult(r.OK, line))
		}

		if !usable {
			return errNotUsable
		}
		fmt.Fprintln(out, ui.SuccessStyle.Render("Ready"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(checkCmd)
}
