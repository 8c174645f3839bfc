package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shouta0715/ping-pong-game/internal/config"
	"github.com/shouta0715/ping-pong-game/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a local match",
	Long: `Start a local match with both paddles on one keyboard.

Controls:
  W/S        - Left paddle up/down
  Up/Down    - Right paddle up/down
  Space/P    - Play/Pause
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Controls can be changed in the config file.

Examples:
  pingpong play
  pingpong play --config ./my-pingpong.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	warnIfSmall(cfg)

	logger, closeLog := fileLogger("play")
	defer closeLog()

	if err := tui.RunLocal(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// warnIfSmall notes when the terminal is smaller than the configured
// canvas. The game still runs with larger cells.
func warnIfSmall(cfg config.Config) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return
	}
	frame := tui.Frame{CellW: cfg.Render.CellWidth, CellH: cfg.Render.CellHeight}
	needW, needH := frame.ScreenSize(cfg.Playfield.Width, cfg.Playfield.Height)
	if w < needW || h < needH+2 {
		fmt.Fprintf(os.Stderr, "Note: terminal is %dx%d, the full canvas needs %dx%d; drawing at reduced detail\n",
			w, h, needW, needH+2)
	}
}
