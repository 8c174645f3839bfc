package multiplayer

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/protocol"
)

// HubConfig holds configuration for the hub.
type HubConfig struct {
	RoomTimeout   time.Duration // How long a lone occupant may wait for a peer
	CleanupPeriod time.Duration // How often to look for expired rooms
}

// DefaultHubConfig returns sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		RoomTimeout:   10 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

type room struct {
	seats        [2]SessionHandle
	stats        RoomStats
	waitingSince time.Time // Zero while both seats are taken
}

func (r *room) occupied() int {
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

// Hub pairs sessions into rooms and relays frames between the two seats.
type Hub struct {
	config   HubConfig
	sessions *SessionRegistry
	recorder RoomRecorder // Optional, can be nil
	logger   *log.Logger
	now      func() time.Time

	mu    sync.Mutex
	rooms map[string]*room
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(cfg HubConfig, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultHubConfig().CleanupPeriod
	}
	return &Hub{
		config:   cfg,
		sessions: NewSessionRegistry(),
		logger:   logger,
		now:      time.Now,
		rooms:    make(map[string]*room),
	}
}

// SetRecorder sets the optional recorder for closed rooms.
func (h *Hub) SetRecorder(rec RoomRecorder) {
	h.recorder = rec
}

// Join seats a session on side of room, opening the room if needed.
func (h *Hub) Join(code string, side pong.Side, s SessionHandle) error {
	if code == "" {
		return ErrInvalidRoom
	}
	if !side.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSide, string(side))
	}

	h.mu.Lock()
	r, ok := h.rooms[code]
	if !ok {
		now := h.now()
		r = &room{
			stats:        RoomStats{Code: code, OpenedAt: now},
			waitingSince: now,
		}
		h.rooms[code] = r
		h.logger.Info("room opened", "room", code)
	}
	if r.seats[side.Index()] != nil {
		h.mu.Unlock()
		return fmt.Errorf("%w: room %s side %s", ErrSeatTaken, code, side)
	}
	r.seats[side.Index()] = s
	r.stats.SidesSeen[side.Index()] = true
	if r.occupied() == 2 {
		r.waitingSince = time.Time{}
	} else {
		r.waitingSince = h.now()
	}
	h.mu.Unlock()

	h.sessions.Register(s, Seat{Room: code, Side: side})
	h.logger.Info("session joined", "room", code, "side", string(side), "session", string(s.ID()))
	return nil
}

// Relay forwards frame from side to the other seat of room. The frame is
// never echoed to its sender. With the peer seat empty the frame is dropped.
// Frames are not validated; the action is only peeked for the statistics.
func (h *Hub) Relay(code string, from pong.Side, frame []byte) error {
	if !from.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSide, string(from))
	}

	h.mu.Lock()
	r, ok := h.rooms[code]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoRoom, code)
	}
	countAction(&r.stats, protocol.PeekAction(frame))
	peer := r.seats[from.Peer().Index()]
	if peer == nil {
		r.stats.FramesDropped++
	} else {
		r.stats.FramesRelayed++
	}
	h.mu.Unlock()

	if peer != nil {
		peer.Send(frame)
	}
	return nil
}

func countAction(stats *RoomStats, a protocol.Action) {
	switch a {
	case protocol.ActionStart:
		stats.Starts++
	case protocol.ActionStop:
		stats.Stops++
	case protocol.ActionScore:
		stats.Scores++
	case protocol.ActionOver:
		stats.Overs++
	default:
		stats.Other++
	}
}

// Leave frees the seat held by s. Leaving a seat s does not hold is a
// no-op. The room closes when its last occupant leaves.
func (h *Hub) Leave(code string, side pong.Side, s SessionHandle) {
	if _, seat, ok := h.sessions.Get(s.ID()); !ok || seat != (Seat{Room: code, Side: side}) {
		return
	}
	h.sessions.Unregister(s.ID())

	h.mu.Lock()
	r, ok := h.rooms[code]
	if !ok || r.seats[side.Index()] == nil || r.seats[side.Index()].ID() != s.ID() {
		h.mu.Unlock()
		return
	}
	r.seats[side.Index()] = nil
	var closed *RoomStats
	if r.occupied() == 0 {
		closed = h.closeLocked(code, r, CloseReasonEmpty)
	} else {
		r.waitingSince = h.now()
	}
	h.mu.Unlock()

	h.logger.Info("session left", "room", code, "side", string(side), "session", string(s.ID()))
	if closed != nil {
		h.record(*closed)
	}
}

// closeLocked removes the room and closes any remaining sessions.
// h.mu must be held.
func (h *Hub) closeLocked(code string, r *room, reason CloseReason) *RoomStats {
	delete(h.rooms, code)
	for i, s := range r.seats {
		if s != nil {
			h.sessions.Unregister(s.ID())
			s.Close()
			r.seats[i] = nil
		}
	}
	r.stats.ClosedAt = h.now()
	r.stats.Reason = reason
	stats := r.stats
	return &stats
}

func (h *Hub) record(stats RoomStats) {
	h.logger.Info("room closed",
		"room", stats.Code,
		"reason", stats.Reason.String(),
		"relayed", stats.FramesRelayed,
		"dropped", stats.FramesDropped,
	)
	if h.recorder == nil {
		return
	}
	if err := h.recorder.SaveRoom(stats); err != nil {
		h.logger.Warn("failed to record room", "room", stats.Code, "error", err)
	}
}

// Run expires abandoned rooms until ctx is cancelled, then closes every
// remaining room.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.CleanupExpired()
		case <-ctx.Done():
			h.CloseAll()
			return nil
		}
	}
}

// CleanupExpired closes rooms whose lone occupant has waited longer than
// the room timeout. A zero timeout disables expiry.
func (h *Hub) CleanupExpired() {
	if h.config.RoomTimeout <= 0 {
		return
	}

	h.mu.Lock()
	now := h.now()
	var closed []RoomStats
	for code, r := range h.rooms {
		if r.waitingSince.IsZero() || now.Sub(r.waitingSince) <= h.config.RoomTimeout {
			continue
		}
		closed = append(closed, *h.closeLocked(code, r, CloseReasonExpired))
	}
	h.mu.Unlock()

	for _, stats := range closed {
		h.record(stats)
	}
}

// CloseAll closes every room.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	var closed []RoomStats
	for code, r := range h.rooms {
		closed = append(closed, *h.closeLocked(code, r, CloseReasonShutdown))
	}
	h.mu.Unlock()

	for _, stats := range closed {
		h.record(stats)
	}
}

// Rooms returns the open rooms sorted by code.
func (h *Hub) Rooms() []RoomInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	infos := make([]RoomInfo, 0, len(h.rooms))
	for code, r := range h.rooms {
		info := RoomInfo{Code: code, Seated: []string{}, OpenedAt: r.stats.OpenedAt}
		for _, side := range []pong.Side{pong.SideOne, pong.SideTwo} {
			if r.seats[side.Index()] != nil {
				info.Seated = append(info.Seated, string(side))
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Code < infos[j].Code })
	return infos
}

// RoomCount returns the number of open rooms.
func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// SessionCount returns the number of seated sessions.
func (h *Hub) SessionCount() int {
	return h.sessions.Count()
}

// NewRoomCode creates a 6-character uppercase alphanumeric code.
func NewRoomCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return strings.ToUpper(base32.StdEncoding.EncodeToString(b)[:6])
}
