package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/logger"
	"github.com/bnema/js2mouse/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage js2mouse configuration",
	Long:  `Show, save or initialize the js2mouse configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.FormatAppHeader("CONFIGURATION", config.GetConfigPath()))

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		sections := []struct {
			name string
			rows [][2]string
		}{
			{"device", [][2]string{
				{"dir", cfg.Device.Dir},
				{"name", cfg.Device.Name},
				{"blocking", fmt.Sprint(cfg.Device.Blocking)},
				{"poll_interval_ms", fmt.Sprint(cfg.Device.PollIntervalMs)},
			}},
			{"stick", [][2]string{
				{"handedness", cfg.Stick.Handedness},
				{"scale", fmt.Sprint(cfg.Stick.Scale)},
				{"repeat", fmt.Sprint(cfg.Stick.Repeat)},
			}},
			{"deadzones", [][2]string{
				{"right_stick", fmt.Sprint(cfg.Deadzones.RightStick)},
				{"left_stick", fmt.Sprint(cfg.Deadzones.LeftStick)},
				{"right_trigger", fmt.Sprint(cfg.Deadzones.RightTrigger)},
				{"left_trigger", fmt.Sprint(cfg.Deadzones.LeftTrigger)},
				{"dpad", fmt.Sprint(cfg.Deadzones.DPad)},
			}},
			{"session", [][2]string{
				{"idle_timeout_seconds", fmt.Sprint(cfg.Session.IdleTimeoutSeconds)},
			}},
			{"injector", [][2]string{
				{"backend", cfg.Injector.Backend},
				{"xdotool_path", cfg.Injector.XdotoolPath},
				{"uinput_path", cfg.Injector.UinputPath},
			}},
			{"logging", [][2]string{
				{"log_level", cfg.Logging.LogLevel},
			}},
		}

		for _, s := range sections {
			if _, err := fmt.Fprintf(w, "\n[%s]\n", s.name); err != nil {
				return err
			}
			for _, r := range s.rows {
				if _, err := fmt.Fprintf(w, "  %s\t%s\n", r[0], r[1]); err != nil {
					return err
				}
			}
		}
		return w.Flush()
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save current configuration to file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatResult(true, "Configuration saved to "+config.GetConfigPath()))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				logger.Infof("Configuration file already exists at: %s", configPath)
				logger.Info("Use --force to overwrite")
				return nil
			}
		}

		if err := config.Save(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatResult(true, "Configuration initialized at "+configPath))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().Bool("force", false, "Force overwrite existing configuration")

	rootCmd.AddCommand(configCmd)
}
