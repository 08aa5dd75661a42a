package cmd

import (
	"fmt"

	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List joystick devices",
	Long:  `List the js device nodes under the device directory with their driver names.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.Get().Device.Dir

		devices, err := joystick.List(dir)
		if err != nil {
			return fmt.Errorf("failed to list devices in %s: %w", dir, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.DeviceTable(dir, devices))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
