package pong

import "github.com/shouta0715/ping-pong-game/internal/core"

// Direction is the sense of a paddle move.
type Direction int

const (
	Up Direction = iota
	Down
)

// Move is what a bound key does: step one paddle in one direction.
type Move struct {
	Paddle int // 0 = left, 1 = right
	Dir    Direction
}

// Controls maps key names (as reported by the terminal, e.g. "w", "up")
// to paddle moves.
type Controls map[string]Move

// Bind maps keys to a paddle move, replacing earlier bindings of those keys.
func (c Controls) Bind(paddle int, dir Direction, keys ...string) {
	for _, k := range keys {
		c[k] = Move{Paddle: paddle, Dir: dir}
	}
}

// LocalControls binds w/s to the left paddle and the arrow keys to the right.
func LocalControls() Controls {
	c := Controls{}
	c.Bind(0, Up, "w")
	c.Bind(0, Down, "s")
	c.Bind(1, Up, "up")
	c.Bind(1, Down, "down")
	return c
}

// NetworkedControls binds both key sets to the one local paddle.
func NetworkedControls(side Side) Controls {
	c := Controls{}
	c.Bind(side.Index(), Up, "w", "up")
	c.Bind(side.Index(), Down, "s", "down")
	return c
}

// SetControls replaces the key bindings.
func (e *Engine) SetControls(c Controls) {
	e.controls = c
}

// Press applies a key-down event. Each press is a one-shot step; repeats
// from the platform's key-repeat simply apply again. Returns false for
// unbound keys and for paddles this engine does not own.
func (e *Engine) Press(key string) bool {
	m, ok := e.controls[key]
	if !ok {
		return false
	}
	return e.MovePaddle(m.Paddle, m.Dir)
}

// MovePaddle steps a paddle and clamps it to [0, MaxPaddleY].
func (e *Engine) MovePaddle(index int, dir Direction) bool {
	if index < 0 || index >= len(e.state.Paddles) {
		return false
	}
	p := e.state.Paddles[index]
	if p == nil {
		return false
	}

	step := e.settings.PaddleStep
	if dir == Up {
		step = -step
	}
	p.Y = core.ClampF(p.Y+step, 0, e.settings.MaxPaddleY())
	return true
}
