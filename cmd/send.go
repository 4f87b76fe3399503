/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/allbin/go-serialctl/internal/tui/components"
	"github.com/allbin/go-serialctl/internal/tui/styles"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] <port>",
	Short: "Send data to a serial port",
	Long: `Configure a serial port, open it and send data to it.

Data can be provided as:
- Command line argument: serialctl send "AT" /dev/ttyUSB0
- From stdin (pipe): echo "ATI" | serialctl send /dev/ttyUSB0
- Interactive mode: serialctl send /dev/ttyUSB0 (prompts for input)

After sending, --wait gives the device time to answer and --read collects
whatever it has buffered at that point.

Example usage:
  serialctl send "AT" /dev/ttyUSB0 --newline --wait 100ms --read
  serialctl send "41540D" COM3 --hex --read
  echo "ATI" | serialctl send /dev/ttyUSB0 --read`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var data, portPath string
		if len(args) == 1 {
			portPath = args[0]
			if data, err = readInput(cmd.InOrStdin()); err != nil {
				return err
			}
		} else {
			data, portPath = args[0], args[1]
		}

		addNewline, _ := cmd.Flags().GetBool("newline")
		hexMode, _ := cmd.Flags().GetBool("hex")
		wait, _ := cmd.Flags().GetDuration("wait")
		readReply, _ := cmd.Flags().GetBool("read")
		count, _ := cmd.Flags().GetInt("count")

		payload, err := buildPayload(data, hexMode, addNewline)
		if err != nil {
			return err
		}

		fmt.Printf("%s Opening %s...\n", styles.InfoStyle.Render("⚡"), portPath)
		port, _, err := preparePort(portPath, true)
		if err != nil {
			return err
		}
		defer closePort(port, &err)

		fmt.Printf("%s Sending %d bytes...\n", styles.InfoStyle.Render("📤"), len(payload))
		if err := port.SendMessage(payload, wait); err != nil {
			return fmt.Errorf("failed to send data: %w", err)
		}
		fmt.Printf("%s Sent: %s\n", styles.SuccessStyle.Render("✓"), preview(payload))

		if !readReply {
			return nil
		}
		reply, err := port.ReadPort(count)
		if err != nil {
			return fmt.Errorf("failed to read reply: %w", err)
		}
		printReply(reply, hexMode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '41540D' for \"AT\\r\") and print the reply as hex")
	sendCmd.Flags().DurationP("wait", "w", 100*time.Millisecond, "Time to let the device answer before reading")
	sendCmd.Flags().BoolP("read", "r", false, "Read the reply after waiting")
	sendCmd.Flags().IntP("count", "c", 0, "Maximum number of reply bytes to read (0 = everything buffered)")
}

// readInput takes data from a pipe, or prompts for it on a terminal.
func readInput(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return promptForData(f), nil
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("error reading from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func promptForData(in io.Reader) string {
	fmt.Print(styles.InfoStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

func buildPayload(data string, hexMode, addNewline bool) ([]byte, error) {
	if hexMode {
		payload, err := parseHexString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid hex data: %w", err)
		}
		return payload, nil
	}
	if addNewline {
		data += "\n"
	}
	return []byte(data), nil
}

// parseHexString converts hex strings to bytes. Spaces and 0x prefixes are
// ignored, so "41 54 0D", "0x41 0x54" and "41540D" are all accepted.
func parseHexString(hexStr string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", "0x", "", "0X", "").Replace(strings.TrimSpace(hexStr))
	if clean == "" {
		return nil, fmt.Errorf("empty input")
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even number of digits (got %d)", len(clean))
	}

	out := make([]byte, 0, len(clean)/2)
	for i := 0; i < len(clean); i += 2 {
		b, err := strconv.ParseUint(clean[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte '%s': %v", clean[i:i+2], err)
		}
		out = append(out, byte(b))
	}
	return out, nil
}

// preview shows at most 50 bytes with non-printable bytes replaced.
func preview(data []byte) string {
	if len(data) > 50 {
		return components.PrintableASCII(data[:50]) + "..."
	}
	return components.PrintableASCII(data)
}

func printReply(reply []byte, hexMode bool) {
	if len(reply) == 0 {
		fmt.Printf("%s No reply buffered\n", styles.WarningStyle.Render("○"))
		return
	}
	fmt.Printf("%s Received %d bytes:\n", styles.SuccessStyle.Render("📥"), len(reply))
	if hexMode {
		fmt.Println(components.HexString(reply))
		return
	}
	os.Stdout.Write(reply)
	if reply[len(reply)-1] != '\n' {
		fmt.Println()
	}
}
