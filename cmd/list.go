/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	serial "github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports on the system.

On Linux and macOS /dev is scanned for serial devices:
- USB serial adapters (ttyUSB*) and CDC/ACM devices (ttyACM*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi and other SoC ports (ttyAMA*, ttymxc*, ...)
- macOS call-up and dial-in devices (cu.*, tty.*)

On Windows the COM ports known to the system are listed.

Virtual terminals and pseudo-terminals are excluded from the listing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.ListPorts()
		if err != nil {
			return fmt.Errorf("error listing ports: %w", err)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		infos := describePorts(ports)
		filtered := filterPorts(infos, filterType)

		if len(filtered) == 0 {
			if filterType != "" && filterType != "all" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return nil
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n\n", len(filtered))
			fmt.Println(portTable(filtered).View())
			return nil
		}
		for _, info := range filtered {
			fmt.Println(info.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("filter", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// describePorts looks up every port; ports that vanished meanwhile keep a
// bare entry so they still show up.
func describePorts(ports []string) []*serial.PortInfo {
	infos := make([]*serial.PortInfo, 0, len(ports))
	for _, port := range ports {
		info, err := serial.GetPortInfo(port)
		if err != nil {
			info = &serial.PortInfo{Path: port, Name: port, Description: fmt.Sprintf("Error: %v", err)}
		}
		infos = append(infos, info)
	}
	return infos
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(infos []*serial.PortInfo, filterType string) []*serial.PortInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return infos
	}

	var filtered []*serial.PortInfo
	for _, info := range infos {
		name := strings.ToLower(info.Name)
		var match bool
		switch filterType {
		case "usb":
			match = info.IsUSB || strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm")
		case "standard":
			match = strings.HasPrefix(name, "ttys") || strings.HasPrefix(name, "com")
		case "arm":
			match = strings.HasPrefix(name, "ttyama")
		}
		if match {
			filtered = append(filtered, info)
		}
	}
	return filtered
}

const (
	columnKeyPort = "port"
	columnKeyType = "type"
	columnKeyDesc = "description"
	columnKeyUSB  = "usb"
)

// portTable renders the ports as a static bubble-table.
func portTable(infos []*serial.PortInfo) table.Model {
	columns := []table.Column{
		table.NewColumn(columnKeyPort, "Port", 24),
		table.NewColumn(columnKeyType, "Type", 18),
		table.NewColumn(columnKeyDesc, "Description", 30),
		table.NewColumn(columnKeyUSB, "USB (VID:PID)", 16),
	}

	rows := make([]table.Row, 0, len(infos))
	for _, info := range infos {
		usb := ""
		if info.IsUSB {
			usb = info.VendorID + ":" + info.ProductID
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPort: info.Path,
			columnKeyType: getPortType(info.Name),
			columnKeyDesc: info.Description,
			columnKeyUSB:  usb,
		}))
	}

	return table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().Foreground(colors.Text).BorderForeground(colors.Surface2).Align(lipgloss.Left))
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(lower, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(lower, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(lower, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(lower, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(lower, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(lower, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(lower, "ttys"):
		return "Standard Serial"
	case strings.HasPrefix(name, "cu."):
		return "macOS Call-up"
	case strings.HasPrefix(name, "tty."):
		return "macOS Dial-in"
	case strings.HasPrefix(lower, "com"):
		return "COM Port"
	default:
		return "Serial Port"
	}
}
