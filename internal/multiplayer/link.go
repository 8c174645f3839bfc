package multiplayer

import (
	"sync"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/protocol"
)

// Link is an in-process seat in the hub. Clients running inside the hub's
// process, such as SSH sessions, play through a Link instead of a socket.
type Link struct {
	hub       *Hub
	room      string
	side      pong.Side
	session   *ChannelSession
	closeOnce sync.Once
}

// Attach seats a new in-process session on side of room.
func (h *Hub) Attach(room string, side pong.Side, bufferSize int) (*Link, error) {
	session := NewChannelSession(NewSessionID(), bufferSize)
	if err := h.Join(room, side, session); err != nil {
		return nil, err
	}
	return &Link{hub: h, room: room, side: side, session: session}, nil
}

// Send encodes msg and relays it to the other seat.
func (l *Link) Send(msg protocol.Message) error {
	select {
	case <-l.session.Done():
		return ErrSessionClosed
	default:
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return l.hub.Relay(l.room, l.side, data)
}

// Inbound yields frames from the other seat.
func (l *Link) Inbound() <-chan []byte {
	return l.session.Frames()
}

// Done closes when the link is closed or the hub closes the room.
func (l *Link) Done() <-chan struct{} {
	return l.session.Done()
}

// Close leaves the room. Safe to call multiple times.
func (l *Link) Close() error {
	l.closeOnce.Do(func() {
		l.hub.Leave(l.room, l.side, l.session)
		l.session.Close()
	})
	return nil
}
