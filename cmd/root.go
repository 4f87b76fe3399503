/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	serial "github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialctl",
	Short: "Configure and talk to serial ports through stty and mode",
	Long: `serialctl configures serial devices with the host's own configuration
utility (stty on Linux and macOS, mode on Windows) and exchanges data with
them over a non-blocking handle.

Line settings come from flags, SERIALCTL_* environment variables or a
config file ($HOME/.serialctl.yaml):

  baud: 115200
  parity: none
  data-bits: 8
  stop-bits: "1"
  flow-control: none
  mode: r+b`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		l, err := newLogger(viper.GetBool("verbose"))
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel the command context so open ports are closed on the way out.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styles.ErrorStyle.Render("✗"), err)
		if serial.IsFatal(err) {
			fmt.Fprintln(os.Stderr, "The device handle may still be held; unplug the device or restart the process holding it.")
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.serialctl.yaml)")
	pf.IntP("baud", "b", 9600, "Baud rate: 110 to 115200")
	pf.StringP("parity", "p", "none", "Parity: none, odd, even")
	pf.IntP("data-bits", "d", 8, "Character length, clamped to 5..8")
	pf.StringP("stop-bits", "s", "1", "Stop bits: 1, 1.5 (linux only), 2")
	pf.StringP("flow-control", "f", "none", "Flow control: none, rts/cts, xon/xoff")
	pf.StringP("mode", "m", serial.DefaultOpenMode, "Open mode: r, w or a, optionally followed by + and b")
	pf.BoolP("verbose", "v", false, "Log every configuration command")

	for _, name := range []string{"baud", "parity", "data-bits", "stop-bits", "flow-control", "mode", "verbose"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// loadConfig reads the config file and environment. A missing default
// config file is not an error; a missing --config file is.
func loadConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".serialctl")
	}

	viper.SetEnvPrefix("serialctl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// settingsFrom builds line settings from the merged flag, env and file values.
func settingsFrom(v *viper.Viper) (serial.Settings, error) {
	parity, err := serial.ParseParity(v.GetString("parity"))
	if err != nil {
		return serial.Settings{}, err
	}
	stop, err := serial.ParseStopBits(v.GetString("stop-bits"))
	if err != nil {
		return serial.Settings{}, err
	}
	flow, err := serial.ParseFlowControl(v.GetString("flow-control"))
	if err != nil {
		return serial.Settings{}, err
	}

	s := serial.Settings{
		BaudRate:    v.GetInt("baud"),
		DataBits:    v.GetInt("data-bits"),
		StopBits:    stop,
		Parity:      parity,
		FlowControl: flow,
	}
	if err := s.Validate(); err != nil {
		return serial.Settings{}, err
	}
	return s, nil
}

// preparePort sets and configures device. With open set, the port is also
// opened in the configured mode; callers must Close it.
func preparePort(device string, open bool, opts ...serial.Option) (*serial.SerialPort, serial.Settings, error) {
	settings, err := settingsFrom(viper.GetViper())
	if err != nil {
		return nil, settings, err
	}

	opts = append([]serial.Option{serial.WithLogger(logger)}, opts...)
	port, err := serial.New(opts...)
	if err != nil {
		return nil, settings, err
	}
	if err := port.SetDevice(device); err != nil {
		return nil, settings, err
	}
	if err := port.Configure(settings); err != nil {
		return nil, settings, err
	}

	if open {
		if err := port.Open(viper.GetString("mode")); err != nil {
			return nil, settings, err
		}
	}
	return port, settings, nil
}

// closePort closes port and reports a failure without masking err.
func closePort(port *serial.SerialPort, err *error) {
	if cerr := port.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
