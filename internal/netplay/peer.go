// Package netplay implements the authority handoff between the two clients
// of a networked match.
//
// Each client runs a Peer around its own pong.Engine. Only the side that
// holds authority integrates the ball; when the ball crosses the net the
// Peer sends an "over" snapshot and goes idle, and the other Peer adopts the
// mirrored ball and becomes active. Goals are applied through explicit
// "score" messages, which each side applies to its own copy of the score.
//
// Exactly one side believes it is active at a time. This is a protocol
// convention: nothing verifies it online, and a lost "over" or "score"
// message desynchronizes the pair until the next handoff arrives.
package netplay

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/protocol"
)

// Transport delivers messages to the other client. Delivery is best-effort;
// the Peer never retries.
type Transport interface {
	Send(msg protocol.Message) error
}

// Phase combines the authority and playing flags.
type Phase int

const (
	PhaseIdle             Phase = iota // Peer holds the ball
	PhaseActiveSimulating              // Authority and playing
	PhaseActivePaused                  // Authority, not playing
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActiveSimulating:
		return "active"
	case PhaseActivePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Peer is one side's half of the sync protocol. Like the engine it wraps,
// it is driven from a single goroutine: ticks, key presses and inbound
// frames are applied in the order they arrive.
type Peer struct {
	side   pong.Side
	engine *pong.Engine
	out    Transport
	logger *log.Logger
}

// NewPeer creates a Peer for side. A nil logger discards output.
func NewPeer(side pong.Side, engine *pong.Engine, out Transport, logger *log.Logger) *Peer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Peer{
		side:   side,
		engine: engine,
		out:    out,
		logger: logger.With("side", string(side)),
	}
}

// Side returns the local side label.
func (p *Peer) Side() pong.Side {
	return p.side
}

// Engine returns the wrapped engine.
func (p *Peer) Engine() *pong.Engine {
	return p.engine
}

// Phase returns the current protocol phase.
func (p *Peer) Phase() Phase {
	switch {
	case !p.engine.Active():
		return PhaseIdle
	case p.engine.Playing():
		return PhaseActiveSimulating
	default:
		return PhaseActivePaused
	}
}

// Tick advances the engine one frame and emits whatever the tick produced.
//
// A net crossing sends "over" with active=true so the peer takes the ball.
// An own-edge crossing sends "over" with active=false, which shows the
// crossing without moving authority, and then a "score" crediting the peer.
// The score is applied locally through the same path as an inbound score.
func (p *Peer) Tick() pong.Event {
	ev := p.engine.Advance()

	switch ev.Kind {
	case pong.EventHandoff:
		p.logger.Debug("handing off ball", "x", ev.Ball.X, "y", ev.Ball.Y)
		p.send(protocol.Over(p.side, true, ev.Ball))

	case pong.EventGoal:
		p.logger.Debug("goal conceded", "winner", string(ev.Winner))
		p.send(protocol.Over(p.side, false, ev.Ball))
		score := protocol.Score(p.side, ev.Winner)
		p.apply(score)
		p.send(score)
	}

	return ev
}

// SetPlaying is the local start/pause control: it sets the playing flag
// and broadcasts start or stop. No acknowledgment is expected.
func (p *Peer) SetPlaying(playing bool) {
	msg := protocol.Toggle(p.side, playing)
	p.apply(msg)
	p.send(msg)
}

// TogglePlaying flips the playing flag through SetPlaying.
func (p *Peer) TogglePlaying() {
	p.SetPlaying(!p.engine.Playing())
}

// Press forwards a key press to the engine's input controller.
func (p *Peer) Press(key string) bool {
	return p.engine.Press(key)
}

// Handle decodes and applies an inbound frame. Malformed frames, unknown
// actions and echoes of our own messages are ignored.
func (p *Peer) Handle(frame []byte) {
	msg, err := protocol.Decode(frame)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownAction) {
			p.logger.Debug("ignoring unknown action", "action", string(msg.Action))
		} else {
			p.logger.Debug("ignoring malformed frame", "error", err)
		}
		return
	}
	p.Apply(msg)
}

// Apply applies a decoded message from the peer.
func (p *Peer) Apply(msg protocol.Message) {
	if msg.Validate() != nil {
		return
	}
	if msg.Sender() == p.side {
		p.logger.Debug("ignoring own message", "action", string(msg.Action))
		return
	}
	p.apply(msg)
}

func (p *Peer) apply(msg protocol.Message) {
	switch msg.Action {
	case protocol.ActionStart:
		p.engine.SetPlaying(true)
	case protocol.ActionStop:
		p.engine.SetPlaying(false)
	case protocol.ActionOver:
		k := msg.Ball
		p.engine.AdoptHandoff(k.X, k.Y, k.DX, k.DY, msg.IsActive())
		p.logger.Debug("ball received", "active", msg.IsActive())
	case protocol.ActionScore:
		p.engine.ResolveGoal(pong.Winner(msg.Winner))
		score := p.engine.Score()
		p.logger.Info("score", "winner", msg.Winner, "left", score[0], "right", score[1])
	}
}

func (p *Peer) send(msg protocol.Message) {
	if p.out == nil {
		return
	}
	if err := p.out.Send(msg); err != nil {
		p.logger.Warn("send failed", "action", string(msg.Action), "error", err)
	}
}
