package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouta0715/ping-pong-game/internal/multiplayer"
	"github.com/shouta0715/ping-pong-game/internal/storage"
	"github.com/shouta0715/ping-pong-game/internal/transport"
)

var (
	flagRelayAddr string
	flagRelayDB   string
	flagNoRecord  bool
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the websocket relay",
	Long: `Start the relay that pairs the two sides of each room.

Clients connect to /ws?room=<code>&side=<1|2>. Every frame is forwarded to
the other seat of the room unchanged; nothing is echoed to the sender.
Closed rooms are recorded in SQLite unless --no-record is given.
/healthz reports the open room and session counts.

Examples:
  pingpong relay                         # Listen on the configured address
  pingpong relay --addr :9000
  pingpong relay --db ./relay.db`,
	Args: cobra.NoArgs,
	Run:  runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&flagRelayAddr, "addr", "", "Listen address (default: from config)")
	relayCmd.Flags().StringVar(&flagRelayDB, "db", "", "Path to the room log database (default: from config)")
	relayCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not record closed rooms")
}

func runRelay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, "relay")

	if flagRelayAddr != "" {
		cfg.Relay.Addr = flagRelayAddr
	}
	if flagRelayDB != "" {
		cfg.Relay.DBPath = flagRelayDB
	}

	hub := multiplayer.NewHub(multiplayer.HubConfig{
		RoomTimeout:   cfg.Relay.RoomTimeout,
		CleanupPeriod: cfg.Relay.CleanupPeriod,
	}, logger)

	if !flagNoRecord {
		store, err := storage.Open(cfg.Relay.DBPath)
		if err != nil {
			logger.Warn("room log disabled", "error", err)
		} else {
			defer store.Close()
			hub.SetRecorder(store)
		}
	}

	server := transport.NewServer(hub, transport.ServerConfig{
		Addr:          cfg.Relay.Addr,
		Path:          cfg.Relay.Path,
		WriteWait:     cfg.Network.WriteWait,
		PongWait:      cfg.Network.PongWait,
		SessionBuffer: cfg.Relay.SessionBuffer,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Relay listening on %s%s\n", cfg.Relay.Addr, cfg.Relay.Path)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Relay error: %v\n", err)
		os.Exit(1)
	}
}
