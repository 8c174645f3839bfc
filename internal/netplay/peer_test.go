package netplay

import (
	"errors"
	"testing"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/protocol"
)

// queue is an in-memory transport that holds frames until delivered.
type queue struct {
	frames [][]byte
	sent   []protocol.Message
	drop   func(protocol.Message) bool
}

func (q *queue) Send(msg protocol.Message) error {
	q.sent = append(q.sent, msg)
	if q.drop != nil && q.drop(msg) {
		return nil
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	q.frames = append(q.frames, data)
	return nil
}

func (q *queue) deliver(to *Peer) {
	frames := q.frames
	q.frames = nil
	for _, f := range frames {
		to.Handle(f)
	}
}

type failingTransport struct{}

func (failingTransport) Send(protocol.Message) error { return errors.New("closed") }

func newPair(t *testing.T) (a, b *Peer, aOut, bOut *queue) {
	t.Helper()
	aOut, bOut = &queue{}, &queue{}
	a = NewPeer(pong.SideOne, pong.NewEngine(pong.DefaultSettings(), pong.Networked(pong.SideOne)), aOut, nil)
	b = NewPeer(pong.SideTwo, pong.NewEngine(pong.DefaultSettings(), pong.Networked(pong.SideTwo)), bOut, nil)
	return a, b, aOut, bOut
}

func TestInitialPhases(t *testing.T) {
	a, b, _, _ := newPair(t)

	if a.Phase() != PhaseActivePaused {
		t.Errorf("side 1 phase = %v, expected paused", a.Phase())
	}
	if b.Phase() != PhaseIdle {
		t.Errorf("side 2 phase = %v, expected idle", b.Phase())
	}
}

func TestStartStopBroadcast(t *testing.T) {
	a, b, aOut, bOut := newPair(t)

	b.SetPlaying(true)
	if !b.Engine().Playing() {
		t.Error("sender should apply its own start")
	}
	if len(bOut.sent) != 1 || bOut.sent[0].Action != protocol.ActionStart || bOut.sent[0].Sender() != pong.SideTwo {
		t.Fatalf("sent = %+v, expected one start from side 2", bOut.sent)
	}

	bOut.deliver(a)
	if !a.Engine().Playing() {
		t.Error("receiver should start playing")
	}
	if a.Phase() != PhaseActiveSimulating {
		t.Errorf("side 1 phase = %v, expected active", a.Phase())
	}

	a.TogglePlaying()
	aOut.deliver(b)
	if a.Engine().Playing() || b.Engine().Playing() {
		t.Error("stop should clear playing on both sides")
	}
}

func TestHandoffScenario(t *testing.T) {
	a, b, aOut, _ := newPair(t)
	a.Engine().AdoptHandoff(800-795, 300, 4, 4, true) // place ball at (795, 300)
	a.SetPlaying(true)
	aOut.deliver(b)

	if ev := a.Tick(); ev.Kind != pong.EventNone {
		t.Fatalf("first tick = %v, expected none", ev.Kind)
	}
	if ev := a.Tick(); ev.Kind != pong.EventHandoff {
		t.Fatalf("second tick = %v, expected handoff", ev.Kind)
	}

	last := aOut.sent[len(aOut.sent)-1]
	if last.Action != protocol.ActionOver || !last.IsActive() {
		t.Fatalf("last message = %+v, expected active over", last)
	}
	if *last.Ball != (protocol.Kinematics{X: 803, Y: 308, DX: 4, DY: 4}) {
		t.Errorf("over ball = %+v, expected {803 308 4 4}", *last.Ball)
	}
	if a.Phase() != PhaseIdle {
		t.Errorf("sender phase = %v, expected idle", a.Phase())
	}

	aOut.deliver(b)
	got := b.Engine().Ball()
	if got.X != -3 || got.Y != 308 || got.DX != 4 || got.DY != 4 {
		t.Errorf("receiver ball = %+v, expected mirrored (-3, 308, 4, 4)", got)
	}
	if b.Phase() != PhaseActiveSimulating {
		t.Errorf("receiver phase = %v, expected active", b.Phase())
	}

	// The receiver resumes integration from the mirrored position.
	b.Tick()
	if x := b.Engine().Ball().X; x != 1 {
		t.Errorf("receiver X after one tick = %v, expected 1", x)
	}
}

func TestScoreMessageAppliedOnEitherSide(t *testing.T) {
	for _, side := range []pong.Side{pong.SideOne, pong.SideTwo} {
		t.Run("side "+string(side), func(t *testing.T) {
			engine := pong.NewEngine(pong.DefaultSettings(), pong.Networked(side))
			p := NewPeer(side, engine, &queue{}, nil)
			engine.SetPlaying(true)
			engine.ResolveGoal(pong.WinnerRight) // prev = [0 1]
			engine.SetPlaying(true)

			p.Apply(protocol.Score(side.Peer(), pong.WinnerLeft))

			if engine.Score() != [2]int{1, 1} {
				t.Errorf("Score() = %v, expected [1 1]", engine.Score())
			}
			if engine.Ball() != (pong.Ball{X: 400, Y: 300, Radius: 10, DX: 4, DY: 4}) {
				t.Errorf("ball = %+v, expected canonical", engine.Ball())
			}
			if engine.Playing() {
				t.Error("score should clear playing")
			}
		})
	}
}

func TestOwnEdgeGoalSendsOverAndScore(t *testing.T) {
	a, b, aOut, _ := newPair(t)
	a.SetPlaying(true)
	aOut.deliver(b)
	a.Engine().AdoptHandoff(800-2, 100, -4, 4, true) // ball at (2, 100) heading left

	ev := a.Tick()
	if ev.Kind != pong.EventGoal || ev.Winner != pong.WinnerRight {
		t.Fatalf("Tick() = %+v, expected goal for right", ev)
	}

	if n := len(aOut.sent); n < 2 {
		t.Fatalf("sent %d messages, expected over + score", n)
	}
	over, score := aOut.sent[len(aOut.sent)-2], aOut.sent[len(aOut.sent)-1]
	if over.Action != protocol.ActionOver || over.IsActive() {
		t.Errorf("first message = %+v, expected inactive over", over)
	}
	if score.Action != protocol.ActionScore || score.Winner != string(pong.WinnerRight) {
		t.Errorf("second message = %+v, expected score for right", score)
	}

	if a.Engine().Score() != [2]int{0, 1} {
		t.Errorf("sender score = %v, expected [0 1]", a.Engine().Score())
	}
	aOut.deliver(b)
	if b.Engine().Score() != [2]int{0, 1} {
		t.Errorf("receiver score = %v, expected [0 1]", b.Engine().Score())
	}
	if b.Engine().Active() {
		t.Error("inactive over must not grant authority")
	}
	if !a.Engine().Active() {
		t.Error("conceding side keeps authority")
	}
	if a.Engine().Playing() || b.Engine().Playing() {
		t.Error("score should stop play on both sides")
	}
}

func TestIgnoredFrames(t *testing.T) {
	a, _, _, _ := newPair(t)
	a.SetPlaying(true)
	before := a.Engine().Snapshot()

	frames := []string{
		`not json`,
		`{"senderId":"2","action":"dance"}`,
		`{"senderId":"9","action":"stop"}`,
		`{"senderId":"2","action":"score","winner":"nobody"}`,
		`{"senderId":"2","action":"over","active":true}`,
		`{"senderId":"1","action":"stop"}`, // own echo
	}
	for _, f := range frames {
		a.Handle([]byte(f))
	}

	after := a.Engine().Snapshot()
	if after.Playing != before.Playing || after.Score != before.Score || after.Ball != before.Ball || after.Active != before.Active {
		t.Errorf("ignored frames changed state: %+v -> %+v", before, after)
	}
}

func TestSendFailureIsNotFatal(t *testing.T) {
	p := NewPeer(pong.SideOne, pong.NewEngine(pong.DefaultSettings(), pong.Networked(pong.SideOne)), failingTransport{}, nil)

	p.SetPlaying(true)
	if !p.Engine().Playing() {
		t.Error("local state should change even when the send fails")
	}
}

func TestRallyKeepsSingleAuthority(t *testing.T) {
	a, b, aOut, bOut := newPair(t)
	a.SetPlaying(true)
	aOut.deliver(b)

	handoffs, goals := 0, 0
	for i := range 20000 {
		for _, p := range []*Peer{a, b} {
			switch p.Tick().Kind {
			case pong.EventHandoff:
				handoffs++
			case pong.EventGoal:
				goals++
			}
		}
		aOut.deliver(b)
		bOut.deliver(a)

		if a.Engine().Active() == b.Engine().Active() {
			t.Fatalf("iteration %d: authority (%v, %v), expected exactly one side", i, a.Engine().Active(), b.Engine().Active())
		}
		if a.Engine().Score() != b.Engine().Score() {
			t.Fatalf("iteration %d: scores diverged %v vs %v", i, a.Engine().Score(), b.Engine().Score())
		}

		if !a.Engine().Playing() {
			a.SetPlaying(true)
			aOut.deliver(b)
		}
	}

	if handoffs == 0 {
		t.Error("expected at least one handoff")
	}
	if goals == 0 {
		t.Error("expected at least one goal")
	}
}

func TestDroppedScoreDesyncs(t *testing.T) {
	a, b, aOut, _ := newPair(t)
	aOut.drop = func(m protocol.Message) bool { return m.Action == protocol.ActionScore }
	a.SetPlaying(true)
	aOut.deliver(b)
	a.Engine().AdoptHandoff(800-2, 100, -4, 4, true)

	a.Tick()
	aOut.deliver(b)

	// Known limitation: no acknowledgment or retry exists.
	if a.Engine().Score() == b.Engine().Score() {
		t.Errorf("expected diverged scores after a dropped score, got %v on both", a.Engine().Score())
	}
}
