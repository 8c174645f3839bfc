package pong

// EventKind classifies what happened on a tick.
type EventKind int

const (
	EventNone    EventKind = iota
	EventGoal              // The ball crossed a guarded edge
	EventHandoff           // The ball crossed the net edge (networked only)
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventGoal:
		return "goal"
	case EventHandoff:
		return "handoff"
	default:
		return "unknown"
	}
}

// Event is emitted by Advance when the ball leaves the local playfield.
type Event struct {
	Kind   EventKind
	Winner Winner // Set for EventGoal
	Ball   Ball   // Ball state at the crossing, before any reset
}

// Mode captures what differs between the local and networked deployments.
// The engine consults it for authority, paddle ownership and the meaning of
// each horizontal edge.
type Mode interface {
	// Name returns "local" or "networked".
	Name() string

	// Owns reports whether the paddle at index (0 = left) is simulated here.
	Owns(index int) bool

	// Simulating reports whether the ball is integrated on this instance.
	Simulating(s *State) bool

	// Boundary classifies a ball that has just been integrated.
	Boundary(cfg Settings, b Ball) Event

	// ResolvesGoals reports whether Advance applies goals itself. Networked
	// goals are applied through an explicit score message instead.
	ResolvesGoals() bool

	// InitialAuthority is the authority flag at creation.
	InitialAuthority() bool
}

// localMode owns both paddles; either edge is a goal.
type localMode struct{}

// Local returns the single-process mode.
func Local() Mode {
	return localMode{}
}

func (localMode) Name() string { return "local" }

func (localMode) Owns(int) bool { return true }

func (localMode) Simulating(*State) bool { return true }

func (localMode) ResolvesGoals() bool { return true }

func (localMode) InitialAuthority() bool { return true }

func (localMode) Boundary(cfg Settings, b Ball) Event {
	c := b.Circle()
	switch {
	case c.Left() < 0:
		return Event{Kind: EventGoal, Winner: WinnerRight, Ball: b}
	case c.Right() > cfg.Width:
		return Event{Kind: EventGoal, Winner: WinnerLeft, Ball: b}
	}
	return Event{}
}

// networkedMode owns one paddle. Its own edge concedes a goal; the far
// edge is the net, where the ball is handed to the peer.
type networkedMode struct {
	side Side
}

// Networked returns the mode for one client of a connected pair.
func Networked(side Side) Mode {
	return networkedMode{side: side}
}

func (m networkedMode) Name() string { return "networked" }

func (m networkedMode) Owns(index int) bool { return index == m.side.Index() }

func (m networkedMode) Simulating(s *State) bool { return s.Active }

func (m networkedMode) ResolvesGoals() bool { return false }

func (m networkedMode) InitialAuthority() bool { return m.side == SideOne }

// Boundary tests the ball center: the ball must be fully committed to the
// edge before authority moves.
func (m networkedMode) Boundary(cfg Settings, b Ball) Event {
	pastLeft := b.X < 0
	pastRight := b.X > cfg.Width

	ownEdge, netEdge := pastLeft, pastRight
	if m.side == SideTwo {
		ownEdge, netEdge = pastRight, pastLeft
	}

	switch {
	case ownEdge:
		return Event{Kind: EventGoal, Winner: m.side.Peer().Winner(), Ball: b}
	case netEdge:
		return Event{Kind: EventHandoff, Ball: b}
	}
	return Event{}
}

// SideOf returns the side label of a networked mode, or "" for local mode.
func SideOf(m Mode) Side {
	if nm, ok := m.(networkedMode); ok {
		return nm.side
	}
	return ""
}
