package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shouta0715/ping-pong-game/internal/platform/tui"
	"github.com/shouta0715/ping-pong-game/internal/storage"
)

var (
	flagRoomsDB    string
	flagRoomsLimit int
	flagRoomsPlain bool
)

var roomsCmd = &cobra.Command{
	Use:   "rooms [code]",
	Short: "Show rooms the relay has closed",
	Long: `Display the relay's room log: when each room ran, which sides joined,
and how many frames, handoffs and goals passed through it.

With a room code, prints that room's record.

Examples:
  pingpong rooms
  pingpong rooms --limit 50
  pingpong rooms --plain
  pingpong rooms K7QX2M`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRooms,
}

func init() {
	roomsCmd.Flags().StringVar(&flagRoomsDB, "db", "", "Path to the room log database (default: from config)")
	roomsCmd.Flags().IntVar(&flagRoomsLimit, "limit", 20, "Number of rooms to show")
	roomsCmd.Flags().BoolVar(&flagRoomsPlain, "plain", false, "Print a plain listing instead of the table view")
}

func runRooms(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	dbPath := cfg.Relay.DBPath
	if flagRoomsDB != "" {
		dbPath = flagRoomsDB
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening room log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		printRoom(store, args[0])
		return
	}

	if flagRoomsPlain {
		printRooms(store)
		return
	}

	width, height := 100, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	if err := tui.RunRooms(store, flagRoomsLimit, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printRoom(store *storage.Store, code string) {
	rec, err := store.RoomByCode(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving room: %v\n", err)
		os.Exit(1)
	}
	if rec == nil {
		fmt.Printf("No record for room %q.\n", code)
		return
	}

	fmt.Printf("Room %s\n\n", rec.Code)
	fmt.Printf("  Opened:    %s\n", rec.OpenedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Closed:    %s (%s)\n", rec.ClosedAt.Local().Format("2006-01-02 15:04:05"), rec.Reason)
	fmt.Printf("  Sides:     %s\n", rec.SidesLabel())
	fmt.Printf("  Relayed:   %d\n", rec.FramesRelayed)
	fmt.Printf("  Dropped:   %d\n", rec.FramesDropped)
	fmt.Printf("  Handoffs:  %d\n", rec.Overs)
	fmt.Printf("  Goals:     %d\n", rec.Scores)
	fmt.Printf("  Starts:    %d\n", rec.Starts)
	fmt.Printf("  Stops:     %d\n", rec.Stops)
}

func printRooms(store *storage.Store) {
	rooms, err := store.RecentRooms(flagRoomsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving rooms: %v\n", err)
		os.Exit(1)
	}

	if len(rooms) == 0 {
		fmt.Println("No rooms recorded yet.")
		fmt.Println()
		fmt.Println("Run 'pingpong relay' and play a match to fill the log.")
		return
	}

	fmt.Printf("  %-10s  %-16s  %-6s  %-8s  %s\n", "Room", "Closed", "Sides", "Relayed", "Reason")
	fmt.Printf("  %-10s  %-16s  %-6s  %-8s  %s\n", "----", "------", "-----", "-------", "------")
	for _, r := range rooms {
		fmt.Printf("  %-10s  %-16s  %-6s  %-8d  %s\n",
			r.Code, r.ClosedAt.Local().Format("2006-01-02 15:04"), r.SidesLabel(), r.FramesRelayed, r.Reason)
	}

	totals, err := store.Totals()
	if err == nil {
		fmt.Println()
		fmt.Printf("Total: %d rooms, %d frames relayed, %d dropped\n",
			totals.Rooms, totals.FramesRelayed, totals.FramesDropped)
	}
}
