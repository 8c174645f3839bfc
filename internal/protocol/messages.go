// Package protocol defines the JSON envelope exchanged between the two
// clients of a networked match.
//
// Every message carries the sender's side label and an action:
//
//	{"senderId":"1","action":"start"}
//	{"senderId":"1","action":"stop"}
//	{"senderId":"2","action":"score","winner":"left"}
//	{"senderId":"1","action":"over","active":true,"message":{"x":803,"y":308,"dx":4,"dy":4}}
//
// There is no version field. Unknown actions decode with ErrUnknownAction so
// that receivers can ignore them.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

// Action identifies the kind of message sent over the wire.
type Action string

const (
	ActionStart Action = "start" // Playing flag on
	ActionStop  Action = "stop"  // Playing flag off
	ActionScore Action = "score" // Goal for Winner
	ActionOver  Action = "over"  // Ball handoff
)

// Known reports whether the action is one of the four defined kinds.
func (a Action) Known() bool {
	switch a {
	case ActionStart, ActionStop, ActionScore, ActionOver:
		return true
	}
	return false
}

var (
	// ErrMalformed is returned for frames that are not a valid envelope.
	ErrMalformed = errors.New("protocol: malformed message")

	// ErrUnknownAction is returned for well-formed envelopes with an
	// unrecognized action.
	ErrUnknownAction = errors.New("protocol: unknown action")
)

// Kinematics is the ball state carried by a handoff, in the sender's frame.
type Kinematics struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Message is the wire envelope. Optional fields are only present for the
// actions that use them.
type Message struct {
	SenderID string      `json:"senderId"`
	Action   Action      `json:"action"`
	Winner   string      `json:"winner,omitempty"`
	Active   *bool       `json:"active,omitempty"`
	Ball     *Kinematics `json:"message,omitempty"`
}

// Start builds a start message.
func Start(sender pong.Side) Message {
	return Message{SenderID: string(sender), Action: ActionStart}
}

// Stop builds a stop message.
func Stop(sender pong.Side) Message {
	return Message{SenderID: string(sender), Action: ActionStop}
}

// Toggle builds start or stop for the given playing flag.
func Toggle(sender pong.Side, playing bool) Message {
	if playing {
		return Start(sender)
	}
	return Stop(sender)
}

// Score builds a score message crediting winner.
func Score(sender pong.Side, winner pong.Winner) Message {
	return Message{SenderID: string(sender), Action: ActionScore, Winner: string(winner)}
}

// Over builds a handoff carrying the ball and the authority flag the
// receiver should adopt.
func Over(sender pong.Side, active bool, b pong.Ball) Message {
	return Message{
		SenderID: string(sender),
		Action:   ActionOver,
		Active:   &active,
		Ball:     &Kinematics{X: b.X, Y: b.Y, DX: b.DX, DY: b.DY},
	}
}

// Sender returns the sender's side label.
func (m Message) Sender() pong.Side {
	return pong.Side(m.SenderID)
}

// IsActive returns the handoff authority flag (false when absent).
func (m Message) IsActive() bool {
	return m.Active != nil && *m.Active
}

// Validate checks the fields each action requires. An unknown action is
// reported as ErrUnknownAction even when the rest of the envelope is bad.
func (m Message) Validate() error {
	if !m.Action.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, m.Action)
	}
	if !m.Sender().Valid() {
		return fmt.Errorf("%w: senderId %q", ErrMalformed, m.SenderID)
	}
	switch m.Action {
	case ActionScore:
		if !pong.Winner(m.Winner).Valid() {
			return fmt.Errorf("%w: winner %q", ErrMalformed, m.Winner)
		}
	case ActionOver:
		if m.Active == nil || m.Ball == nil {
			return fmt.Errorf("%w: over without active flag or ball", ErrMalformed)
		}
	}
	return nil
}

// Encode marshals a message to a JSON text frame.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", m.Action, err)
	}
	return data, nil
}

// Decode parses and validates a frame. The returned message is populated
// even when the error is ErrUnknownAction.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}

// PeekAction extracts the action without validating the rest of the frame.
// The relay uses it for accounting only.
func PeekAction(data []byte) Action {
	var env struct {
		Action Action `json:"action"`
	}
	if json.Unmarshal(data, &env) != nil {
		return ""
	}
	return env.Action
}
