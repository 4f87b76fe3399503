/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/allbin/go-serialctl/internal/tui/components"
	"github.com/allbin/go-serialctl/internal/tui/styles"
	"github.com/spf13/cobra"
)

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure <port>",
	Short: "Apply line settings to a serial port",
	Long: `Apply baud rate, parity, character length, stop bits and flow control
to a serial port without opening it. Settings are applied in that order and
the first rejected one stops the run.

Examples:
  serialctl configure /dev/ttyUSB0 --baud 115200
  serialctl configure COM3 --parity even --stop-bits 2
  SERIALCTL_BAUD=19200 serialctl configure /dev/ttyS0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, settings, err := preparePort(args[0], false)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s configured: %s, flow control %s\n",
			styles.SuccessStyle.Render("✓"),
			port.Device(),
			components.LineSettings(settings),
			settings.FlowControl)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}
