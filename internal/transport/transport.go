// Package transport carries protocol frames over websockets: a relay server
// that pairs two clients per room, and the client the game dials it with.
//
// Delivery is best-effort. Frames are queued without acknowledgment and
// dropped when a queue is full; there is no reconnection.
package transport

import (
	"errors"
	"time"
)

const (
	defaultWriteWait = 10 * time.Second
	defaultPongWait  = 60 * time.Second
	maxMessageSize   = 4096
	defaultQueue     = 64
)

var (
	// ErrClosed is returned when sending on a closed client.
	ErrClosed = errors.New("transport: connection closed")
	// ErrQueueFull is returned when the send queue cannot take another frame.
	ErrQueueFull = errors.New("transport: send queue full")
)

// pingInterval must stay below pongWait so the peer's read deadline is
// extended before it expires.
func pingInterval(pongWait time.Duration) time.Duration {
	return (pongWait * 9) / 10
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
