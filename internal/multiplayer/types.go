// Package multiplayer implements the relay side of networked play: rooms
// holding one session per side, and the session handles frames are
// delivered through.
//
// The relay does not run the game. It forwards opaque frames from one seat
// to the other and keeps per-room statistics for the audit log.
package multiplayer

import (
	"errors"
	"time"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

// SessionID uniquely identifies a connected client.
type SessionID string

var (
	// ErrSeatTaken is returned when joining a side that is already occupied.
	ErrSeatTaken = errors.New("multiplayer: seat already taken")
	// ErrInvalidSide is returned for side labels other than "1" and "2".
	ErrInvalidSide = errors.New("multiplayer: invalid side")
	// ErrInvalidRoom is returned for an empty room code.
	ErrInvalidRoom = errors.New("multiplayer: invalid room code")
	// ErrNoRoom is returned when relaying into a room that does not exist.
	ErrNoRoom = errors.New("multiplayer: no such room")
	// ErrSessionClosed is returned when sending through a closed link.
	ErrSessionClosed = errors.New("multiplayer: session closed")
)

// RoomStats is the audit record of one room's lifetime.
type RoomStats struct {
	Code     string
	OpenedAt time.Time
	ClosedAt time.Time
	Reason   CloseReason

	SidesSeen     [2]bool // Indexed by pong.Side.Index()
	FramesRelayed int
	FramesDropped int // Sent while the peer seat was empty

	Starts int
	Stops  int
	Scores int
	Overs  int
	Other  int // Frames whose action was missing or unknown
}

// Sides returns the labels of the sides that joined at some point.
func (s RoomStats) Sides() []pong.Side {
	var sides []pong.Side
	for _, side := range []pong.Side{pong.SideOne, pong.SideTwo} {
		if s.SidesSeen[side.Index()] {
			sides = append(sides, side)
		}
	}
	return sides
}

// RoomRecorder persists closed rooms.
// This allows the hub to save rooms without depending on the storage package.
type RoomRecorder interface {
	SaveRoom(stats RoomStats) error
}

// RoomInfo is a point-in-time view of an open room.
type RoomInfo struct {
	Code     string    `json:"code"`
	Seated   []string  `json:"seated"`
	OpenedAt time.Time `json:"openedAt"`
}
