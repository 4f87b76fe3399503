/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	serial "github.com/allbin/go-serialctl"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <port> <output-file>",
	Short: "Capture serial data to a file",
	Long: `Capture incoming serial data to a file for later parsing.

The port is configured from the global line settings, opened in --mode and
polled until interrupted (Ctrl+C). Polls that find nothing wait --interval
before the next one.

The output file is opened in append mode, allowing you to resume captures
without overwriting existing data.

Example usage:
  serialctl capture /dev/ttyUSB0 data.log
  serialctl capture /dev/ttyUSB0 output.txt --baud 115200
  serialctl capture COM3 capture.log --console --interval 20ms`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		portPath, outputPath := args[0], args[1]

		chunk, _ := cmd.Flags().GetInt("buffer")
		interval, _ := cmd.Flags().GetDuration("interval")
		showConsole, _ := cmd.Flags().GetBool("console")

		port, _, err := preparePort(portPath, true)
		if err != nil {
			return fmt.Errorf("failed to open port: %w", err)
		}
		defer closePort(port, &err)

		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer file.Close()

		var console io.Writer
		if showConsole {
			console = os.Stdout
		}

		fmt.Fprintf(os.Stderr, "Capturing data from %s to %s\n", port.Device(), outputPath)
		if showConsole {
			fmt.Fprintf(os.Stderr, "Console display enabled\n")
		}
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

		startTime := time.Now()
		written, err := runCapture(cmd.Context(), port, file, console, chunk, interval)
		fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes written in %v\n", written, time.Since(startTime).Round(time.Millisecond))
		return err
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Int("buffer", 0, "Maximum bytes per poll (0 = everything buffered)")
	captureCmd.Flags().Duration("interval", 50*time.Millisecond, "Wait between polls that return no data")
	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on console while capturing")
}

// reader is the part of SerialPort capture needs.
type reader interface {
	ReadPort(count int) ([]byte, error)
}

var _ reader = (*serial.SerialPort)(nil)

// runCapture polls port into out until ctx is done. console, when set,
// receives a copy of every chunk.
func runCapture(ctx context.Context, port reader, out, console io.Writer, chunk int, interval time.Duration) (int64, error) {
	var total int64
	for {
		select {
		case <-ctx.Done():
			return total, nil
		default:
		}

		data, err := port.ReadPort(chunk)
		if err != nil {
			return total, fmt.Errorf("read error: %w", err)
		}
		if len(data) == 0 {
			select {
			case <-ctx.Done():
				return total, nil
			case <-time.After(interval):
			}
			continue
		}

		n, err := out.Write(data)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("write error: %w", err)
		}
		if console != nil {
			console.Write(data)
		}
		logger.Debug("captured", zap.Int("bytes", n), zap.Int64("total", total))
	}
}
