package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/multiplayer"
	"github.com/shouta0715/ping-pong-game/internal/platform/tui"
	"github.com/shouta0715/ping-pong-game/internal/transport"
)

var (
	flagServer  string
	flagRoom    string
	flagSide    string
	flagNewRoom bool
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join a networked match",
	Long: `Connect to a relay and play one side of a match.

Side 1 guards the left edge and serves first. Side 2 guards the right edge.
The ball is drawn only on the side that currently holds it.

Examples:
  pingpong join --side 1                        # Room and server from config
  pingpong join --new --side 1                  # Create a room, share the code
  pingpong join --room K7QX2M --side 2
  pingpong join --server ws://host:8080/ws --room lobby --side 2`,
	Args: cobra.NoArgs,
	Run:  runJoin,
}

func init() {
	joinCmd.Flags().StringVar(&flagServer, "server", "", "Relay websocket URL (default: from config)")
	joinCmd.Flags().StringVar(&flagRoom, "room", "", "Room code (default: from config)")
	joinCmd.Flags().StringVar(&flagSide, "side", "1", "Side to play: 1 or 2")
	joinCmd.Flags().BoolVar(&flagNewRoom, "new", false, "Create a new room code")
}

func runJoin(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	side, err := pong.ParseSide(flagSide)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	server := cfg.Network.ServerURL
	if flagServer != "" {
		server = flagServer
	}
	room := cfg.Network.Room
	switch {
	case flagNewRoom:
		room = multiplayer.NewRoomCode()
		fmt.Printf("Room code: %s\n", room)
	case flagRoom != "":
		room = flagRoom
	}

	warnIfSmall(cfg)

	logger, closeLog := fileLogger("join")
	defer closeLog()

	conn, err := transport.Dial(context.Background(), server, room, side, transport.ClientConfig{
		WriteWait: cfg.Network.WriteWait,
		PongWait:  cfg.Network.PongWait,
		SendQueue: cfg.Network.SendQueue,
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to relay: %v\n", err)
		os.Exit(1)
	}

	if err := tui.RunNet(cfg, room, side, conn, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
