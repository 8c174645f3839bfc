package pong

import (
	"github.com/shouta0715/ping-pong-game/internal/core"
)

// State is the mutable simulation state owned by one Engine.
type State struct {
	Ball Ball

	// Paddles is indexed by side (0 = left). Networked engines hold only
	// their own paddle; the peer's slot stays nil.
	Paddles [2]*Paddle

	Score   [2]int
	Playing bool // Whether ticks advance the ball
	Active  bool // Authority: whether this instance integrates the ball
}

// Engine advances the ball and applies discrete state changes. It is not
// safe for concurrent use; callers drive it from a single goroutine.
type Engine struct {
	settings Settings
	mode     Mode
	controls Controls
	state    State
}

// NewEngine creates an engine with the ball and owned paddles at their
// canonical positions, scores at zero and play paused.
func NewEngine(settings Settings, mode Mode) *Engine {
	e := &Engine{
		settings: settings,
		mode:     mode,
	}
	e.state.Ball = settings.CanonicalBall()
	for i := range e.state.Paddles {
		if mode.Owns(i) {
			p := settings.CanonicalPaddle(i)
			e.state.Paddles[i] = &p
		}
	}
	e.state.Active = mode.InitialAuthority()

	if side := SideOf(mode); side != "" {
		e.controls = NetworkedControls(side)
	} else {
		e.controls = LocalControls()
	}
	return e
}

// Playing reports whether ticks advance the ball.
func (e *Engine) Playing() bool {
	return e.state.Playing
}

// SetPlaying sets the playing flag.
func (e *Engine) SetPlaying(playing bool) {
	e.state.Playing = playing
}

// Active reports whether this instance holds ball authority.
func (e *Engine) Active() bool {
	return e.state.Active
}

// Score returns the current score pair.
func (e *Engine) Score() [2]int {
	return e.state.Score
}

// Ball returns the current ball state.
func (e *Engine) Ball() Ball {
	return e.state.Ball
}

// Paddle returns the paddle at index, if this engine owns it.
func (e *Engine) Paddle(index int) (Paddle, bool) {
	if index < 0 || index >= len(e.state.Paddles) || e.state.Paddles[index] == nil {
		return Paddle{}, false
	}
	return *e.state.Paddles[index], true
}

// Advance runs one animation tick.
//
// The ball is integrated, reflected off the top and bottom walls, checked
// against the horizontal edges and finally against the owned paddles. No
// position correction is applied after a reflection. When the mode reports
// a boundary crossing the paddle test is skipped and the event is returned.
func (e *Engine) Advance() Event {
	s := &e.state
	if !s.Playing || !e.mode.Simulating(s) {
		return Event{}
	}

	b := s.Ball
	b.X += b.DX
	b.Y += b.DY

	c := b.Circle()
	if c.Top() < 0 || c.Bottom() > e.settings.Height {
		b.DY = -b.DY
	}

	if ev := e.mode.Boundary(e.settings, b); ev.Kind != EventNone {
		switch ev.Kind {
		case EventHandoff:
			s.Ball = b
			s.Active = false
		case EventGoal:
			if e.mode.ResolvesGoals() {
				// The ball is not advanced on the scoring tick.
				e.ResolveGoal(ev.Winner)
			} else {
				s.Ball = b
			}
		}
		return ev
	}

	if e.hitsPaddle(b) {
		b.DX = -b.DX
	}
	s.Ball = b
	return Event{}
}

// hitsPaddle reports whether any owned paddle registers a hit. Both paddles
// passing still yields a single reflection.
func (e *Engine) hitsPaddle(b Ball) bool {
	c := b.Circle()
	if p := e.state.Paddles[0]; p != nil && core.HitsFromRight(c, p.Rect()) {
		return true
	}
	if p := e.state.Paddles[1]; p != nil && core.HitsFromLeft(c, p.Rect()) {
		return true
	}
	return false
}

// ResolveGoal credits the winner, resets the ball and owned paddles to their
// canonical positions and clears the playing flag. Authority is unchanged.
// Unknown winner labels are ignored.
func (e *Engine) ResolveGoal(w Winner) {
	if !w.Valid() {
		return
	}
	s := &e.state
	s.Score[w.Index()]++
	s.Ball = e.settings.CanonicalBall()
	for i, p := range s.Paddles {
		if p != nil {
			*p = e.settings.CanonicalPaddle(i)
		}
	}
	s.Playing = false
}

// AdoptHandoff takes over a ball snapshot expressed in the peer's frame.
// x is mirrored across the playfield width; y and the velocity carry over.
func (e *Engine) AdoptHandoff(x, y, dx, dy float64, active bool) {
	s := &e.state
	s.Ball.X = e.settings.Width - x
	s.Ball.Y = y
	s.Ball.DX = dx
	s.Ball.DY = dy
	s.Active = active
}
