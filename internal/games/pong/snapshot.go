package pong

// Snapshot is a read-only copy of the engine state for rendering.
type Snapshot struct {
	Ball        Ball
	BallVisible bool // False while a networked side does not hold authority
	Paddles     []Paddle
	Score       [2]int
	Playing     bool
	Active      bool
	Mode        string
	Side        Side // Empty in local mode
	Width       float64
	Height      float64
}

// Snapshot returns the current state as a value the caller may keep.
func (e *Engine) Snapshot() Snapshot {
	s := e.state
	snap := Snapshot{
		Ball:        s.Ball,
		BallVisible: e.mode.Simulating(&s),
		Score:       s.Score,
		Playing:     s.Playing,
		Active:      s.Active,
		Mode:        e.mode.Name(),
		Side:        SideOf(e.mode),
		Width:       e.settings.Width,
		Height:      e.settings.Height,
	}
	for _, p := range s.Paddles {
		if p != nil {
			snap.Paddles = append(snap.Paddles, *p)
		}
	}
	return snap
}
