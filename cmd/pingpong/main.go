// pingpong is a two-paddle Pong for the terminal, played on one keyboard or
// between two terminals through a websocket relay.
//
// Usage:
//
//	pingpong play                      - Local match on one keyboard
//	pingpong join --room <code> --side <1|2>
//	                                   - Join a networked match
//	pingpong relay                     - Run the websocket relay
//	pingpong serve                     - Host the game over SSH
//	pingpong rooms                     - Show the relay's room log
//	pingpong config init               - Write the default config file
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.pingpong, ./configs)
//	--log-level <lvl>   - debug, info, warn or error (default: info)
//	--log-file <path>   - Where TUI commands write logs (default: discard)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shouta0715/ping-pong-game/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pingpong",
	Short: "Ping Pong - two-paddle Pong in your terminal",
	Long: `Ping Pong is the classic two-paddle game for the terminal.

Play locally with both players on one keyboard, or split the court across
two terminals: each player runs their half and the ball is handed over
through a relay whenever it crosses the net.

Available commands:
  play    - Local match on one keyboard
  join    - Join a networked match through a relay
  relay   - Run the websocket relay
  serve   - Host the game over SSH
  rooms   - Show rooms the relay has closed
  config  - Create or locate the config file

Examples:
  pingpong play
  pingpong relay --addr :8080
  pingpong join --room lobby --side 1
  pingpong serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for terminal commands (default: discard)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the configuration named by --config, or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger creates a logger writing to w at the --log-level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger creates the logger for commands that own the terminal. Output
// goes to --log-file, or nowhere. The returned func closes the file.
func fileLogger(prefix string) (*log.Logger, func()) {
	if flagLogFile == "" {
		return newLogger(io.Discard, prefix), func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return newLogger(io.Discard, prefix), func() {}
	}
	return newLogger(f, prefix), func() { f.Close() }
}
