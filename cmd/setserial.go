/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	serial "github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/styles"
	"github.com/spf13/cobra"
)

// setserialCmd represents the setserial command
var setserialCmd = &cobra.Command{
	Use:   "setserial <port> <parameter> [argument]",
	Short: "Pass a low-level parameter to setserial",
	Long: `Open a serial port and hand a low-level parameter to setserial(8),
for example a custom divisor, an IRQ or the spd_* speed aliases.

Requirements:
- Linux host
- setserial utility must be installed (from the setserial package)
- Root/sudo permissions are usually required

Examples:
  sudo serialctl setserial /dev/ttyS0 spd_hi
  sudo serialctl setserial /dev/ttyS1 irq 4`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if !serial.IsSetserialAvailable() {
			fmt.Fprintln(os.Stderr, "setserial utility not available")
			fmt.Fprintln(os.Stderr, "Install with: sudo apt-get install setserial")
			return serial.ErrSetserialNotAvailable
		}

		param, arg := args[1], ""
		if len(args) == 3 {
			arg = args[2]
		}

		port, _, err := preparePort(args[0], true)
		if err != nil {
			return err
		}
		defer closePort(port, &err)

		fmt.Printf("Running setserial %s %s %s\n", port.Device(), param, arg)
		if err := port.SetSetserialFlag(param, arg); err != nil {
			if errors.Is(err, serial.ErrSetserialNotAvailable) {
				fmt.Fprintln(os.Stderr, "setserial only works on Linux hosts")
			}
			return err
		}

		fmt.Printf("%s setserial accepted %s\n", styles.SuccessStyle.Render("✓"), param)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setserialCmd)
}
