/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	serial "github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/styles"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display how a port name resolves on this host and what is known about
the device behind it, including USB metadata for USB adapters.

Examples:
  serialctl info /dev/ttyUSB0
  serialctl info COM3          # /dev/ttyS2 on Linux`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		family, err := serial.HostOSFamily()
		if err != nil {
			return err
		}
		platform, err := serial.NewPlatformStrategy(family)
		if err != nil {
			return err
		}
		dev, err := platform.ResolveDevice(args[0])
		if err != nil {
			return err
		}

		// Name equals Path on POSIX hosts and is the bare COMn on Windows.
		info, err := serial.GetPortInfo(dev.Name)
		if err != nil {
			return fmt.Errorf("error getting port info for %s: %w", dev.Name, err)
		}

		fmt.Printf("%s %s\n\n", styles.HeaderStyle.Render("Port Information:"), info.Path)
		printField("Name", info.Name)
		printField("Description", info.Description)
		printField("Host", family.String())
		printField("Opened as", dev.Path)
		printField("Check with", platform.ValidateDevice(dev).String())

		if info.IsUSB {
			fmt.Printf("\n%s\n", styles.HeaderStyle.Render("USB Device Information:"))
			printField("Vendor ID", info.VendorID)
			printField("Product ID", info.ProductID)
			printField("Serial", info.SerialNumber)
			printField("Product", info.Product)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %s %s\n", styles.LabelStyle.Render(fmt.Sprintf("%-14s", label+":")), value)
}
