/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read <port>",
	Short: "Read whatever a serial port has buffered",
	Long: `Configure and open a serial port, then perform a single non-blocking
read. Nothing is waited for; an idle port prints that no data was buffered.

Example usage:
  serialctl read /dev/ttyUSB0
  serialctl read COM3 --count 16 --hex`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		count, _ := cmd.Flags().GetInt("count")
		hexMode, _ := cmd.Flags().GetBool("hex")

		port, _, err := preparePort(args[0], true)
		if err != nil {
			return err
		}
		defer closePort(port, &err)

		data, err := port.ReadPort(count)
		if err != nil {
			return fmt.Errorf("failed to read: %w", err)
		}
		printReply(data, hexMode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().IntP("count", "c", 0, "Maximum number of bytes to read (0 = everything buffered)")
	readCmd.Flags().BoolP("hex", "x", false, "Print data as hex")
}
