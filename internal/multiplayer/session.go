package multiplayer

import (
	"sync"

	"github.com/google/uuid"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

// SessionHandle is the transport-neutral interface for delivering frames to
// a connected client. It lets the hub relay without depending on websockets.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send queues a frame for the client.
	// Must be non-blocking; implementations should use buffered channels.
	Send(frame []byte)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}

	// Close ends the session. Safe to call multiple times.
	Close()
}

// NewSessionID returns a random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// ChannelSession is a SessionHandle implementation using Go channels.
// The transport's write pump drains Frames.
type ChannelSession struct {
	id       SessionID
	frames   chan []byte
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a new channel-based session handle.
// bufferSize controls how many frames can be buffered before dropping.
func NewChannelSession(id SessionID, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = 64 // Default buffer size
	}
	return &ChannelSession{
		id:     id,
		frames: make(chan []byte, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues a frame for the session.
// If the buffer is full, the oldest frame is dropped to prevent blocking.
func (s *ChannelSession) Send(frame []byte) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.frames <- frame:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.frames:
		default:
		}
		select {
		case s.frames <- frame:
		default:
		}
	}
}

// Frames returns the channel to receive frames from.
func (s *ChannelSession) Frames() <-chan []byte {
	return s.frames
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Seat is where a session sits in the hub.
type Seat struct {
	Room string
	Side pong.Side
}

type registered struct {
	handle SessionHandle
	seat   Seat
}

// SessionRegistry maps connected sessions to their seats.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]registered
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]registered),
	}
}

// Register records the seat a session occupies.
func (r *SessionRegistry) Register(session SessionHandle, seat Seat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = registered{handle: session, seat: seat}
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get returns a session and its seat.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, Seat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	return e.handle, e.seat, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
